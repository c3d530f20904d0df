package grading

import (
	"sort"

	"github.com/marklytics/marksheet-api/internal/models"
)

// Ranked returns a new slice with 1-based ranks assigned by SGPA descending.
// Ranking is ordinal, not competition-style: equal SGPAs receive distinct
// sequential ranks in their original submission order, so SGPAs
// [9.0, 9.0, 8.0] rank [1, 2, 3]. The returned slice preserves the caller's
// ordering and the input aggregates are not mutated.
func Ranked(cohort []models.StudentAggregate) []models.StudentAggregate {
	order := make([]int, len(cohort))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return cohort[order[i]].SGPA > cohort[order[j]].SGPA
	})

	ranked := make([]models.StudentAggregate, len(cohort))
	copy(ranked, cohort)
	for rank, pos := range order {
		ranked[pos].Rank = rank + 1
	}
	return ranked
}
