package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/marklytics/marksheet-api/internal/repository"
	appErrors "github.com/marklytics/marksheet-api/pkg/errors"
)

// cohortKeyFromQuery pulls the cohort coordinates every result and statistics
// endpoint is scoped by.
func cohortKeyFromQuery(c *gin.Context) (repository.CohortKey, error) {
	key := repository.CohortKey{
		Class:        c.Query("class"),
		AcademicYear: c.Query("academicYear"),
		Examination:  c.Query("examination"),
	}
	if key.Class == "" || key.AcademicYear == "" || key.Examination == "" {
		return repository.CohortKey{}, appErrors.Clone(appErrors.ErrValidation, "class, academicYear and examination are required")
	}
	return key, nil
}
