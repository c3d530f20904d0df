// Package grading implements the result computation pipeline: mark-to-grade
// lookup, per-subject derivation, per-student aggregation, cohort ranking,
// cohort statistics and the comparative projection. Everything in this
// package is pure computation over its inputs; there is no I/O, no clock and
// no randomness.
package grading

import (
	"math"

	"github.com/marklytics/marksheet-api/internal/models"
)

type band struct {
	min    float64
	grade  models.Grade
	points int
}

// Bands are evaluated top-down, first match wins; boundaries are inclusive on
// the upper bucket (marks of exactly 90 take the top band).
var letterBands = []band{
	{90, models.GradeAPlus, 10},
	{80, models.GradeA, 9},
	{70, models.GradeBPlus, 8},
	{60, models.GradeB, 7},
	{50, models.GradeCPlus, 6},
	{40, models.GradeC, 5},
}

var tenPointBands = []band{
	{90, models.GradeS, 10},
	{80, models.GradeA, 9},
	{70, models.GradeB, 8},
	{60, models.GradeC, 7},
	{50, models.GradeD, 6},
	{40, models.GradeE, 5},
}

func bandsFor(scheme models.GradingScheme) []band {
	if scheme == models.GradeSchemeLetter {
		return letterBands
	}
	return tenPointBands
}

// GradeFor maps marks onto the scheme's ladder. Every numeric input maps to
// some grade; anything below the lowest band, including negative input, is F.
func GradeFor(marks float64, scheme models.GradingScheme) (models.Grade, int) {
	for _, b := range bandsFor(scheme) {
		if marks >= b.min {
			return b.grade, b.points
		}
	}
	return models.GradeF, 0
}

// OverallGradeFor maps an SGPA onto the same ladder at whole-number
// boundaries (9.0, 8.0, ... 4.0).
func OverallGradeFor(sgpa float64, scheme models.GradingScheme) models.Grade {
	for i, b := range bandsFor(scheme) {
		if sgpa >= float64(9-i) {
			return b.grade
		}
	}
	return models.GradeF
}

// TopGrade returns the scheme's highest band, used for external-only courses.
func TopGrade(scheme models.GradingScheme) (models.Grade, int) {
	top := bandsFor(scheme)[0]
	return top.grade, top.points
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
