package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marklytics/marksheet-api/internal/service"
	appErrors "github.com/marklytics/marksheet-api/pkg/errors"
	"github.com/marklytics/marksheet-api/pkg/response"
)

// ResultHandler exposes result computation endpoints.
type ResultHandler struct {
	results *service.ResultService
}

// NewResultHandler constructs handler.
func NewResultHandler(results *service.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// Submit godoc
// @Summary Compute and store one student's result
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.SubmitResultRequest true "Marksheet payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /results [post]
func (h *ResultHandler) Submit(c *gin.Context) {
	var req service.SubmitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid JSON payload"))
		return
	}
	aggregate, err := h.results.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, aggregate)
}

// SubmitBatch godoc
// @Summary Compute and store several results, continuing past per-student failures
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.BatchSubmitRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Router /results/batch [post]
func (h *ResultHandler) SubmitBatch(c *gin.Context) {
	var req service.BatchSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid JSON payload"))
		return
	}
	result, err := h.results.SubmitBatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ImportSamples godoc
// @Summary Fabricate a sample cohort through the configured marksheet source
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.ImportSampleRequest true "Sample import payload"
// @Success 200 {object} response.Envelope
// @Router /results/sample-import [post]
func (h *ResultHandler) ImportSamples(c *gin.Context) {
	var req service.ImportSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid JSON payload"))
		return
	}
	result, err := h.results.ImportSamples(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List a cohort's results in submission order
// @Tags Results
// @Produce json
// @Param class query string true "Class"
// @Param academicYear query string true "Academic year"
// @Param examination query string true "Examination"
// @Success 200 {object} response.Envelope
// @Router /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	key, err := cohortKeyFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	cohort, err := h.results.List(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cohort, nil)
}

// Rankings godoc
// @Summary Ranked view of a cohort (SGPA descending, ties keep submission order)
// @Tags Results
// @Produce json
// @Param class query string true "Class"
// @Param academicYear query string true "Academic year"
// @Param examination query string true "Examination"
// @Success 200 {object} response.Envelope
// @Router /results/rankings [get]
func (h *ResultHandler) Rankings(c *gin.Context) {
	key, err := cohortKeyFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	ranked, err := h.results.Rankings(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranked, nil)
}

// Get godoc
// @Summary One student's computed result
// @Tags Results
// @Produce json
// @Param rollNumber path string true "Roll number"
// @Param class query string true "Class"
// @Param academicYear query string true "Academic year"
// @Param examination query string true "Examination"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /results/{rollNumber} [get]
func (h *ResultHandler) Get(c *gin.Context) {
	key, err := cohortKeyFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	aggregate, err := h.results.Get(c.Request.Context(), key, c.Param("rollNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, aggregate, nil)
}

// Delete godoc
// @Summary Remove one student's result from the cohort
// @Tags Results
// @Produce json
// @Param rollNumber path string true "Roll number"
// @Param class query string true "Class"
// @Param academicYear query string true "Academic year"
// @Param examination query string true "Examination"
// @Success 204
// @Router /results/{rollNumber} [delete]
func (h *ResultHandler) Delete(c *gin.Context) {
	key, err := cohortKeyFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.results.Delete(c.Request.Context(), key, c.Param("rollNumber")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteCohort godoc
// @Summary Remove an entire cohort
// @Tags Results
// @Produce json
// @Param class query string true "Class"
// @Param academicYear query string true "Academic year"
// @Param examination query string true "Examination"
// @Success 204
// @Router /results [delete]
func (h *ResultHandler) DeleteCohort(c *gin.Context) {
	key, err := cohortKeyFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.results.DeleteCohort(c.Request.Context(), key); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Cohorts godoc
// @Summary List stored cohorts
// @Tags Results
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cohorts [get]
func (h *ResultHandler) Cohorts(c *gin.Context) {
	keys, err := h.results.Cohorts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, keys, nil)
}
