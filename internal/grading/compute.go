package grading

import (
	"math"

	"github.com/marklytics/marksheet-api/internal/models"
	appErrors "github.com/marklytics/marksheet-api/pkg/errors"
)

// ComputeOptions carries the named constants of the per-subject derivation.
// The zero value is usable: ten-point scheme, 0.4 internal fraction, no mark
// floor. A non-zero MarkFloor clamps obtained marks from below and exists for
// fixture data; real computation keeps it at 0 so failing marks stay
// representable.
type ComputeOptions struct {
	Scheme           models.GradingScheme
	InternalFraction float64
	MarkFloor        int
}

func (o ComputeOptions) normalized() ComputeOptions {
	if o.Scheme == "" {
		o.Scheme = models.GradeSchemeTenPoint
	}
	if o.InternalFraction <= 0 || o.InternalFraction >= 1 {
		o.InternalFraction = 0.4
	}
	if o.MarkFloor < 0 {
		o.MarkFloor = 0
	}
	return o
}

// ComputeSubject derives the obtained mark, internal/external split, grade
// and grade points for one raw score. It is deterministic: the same raw
// score, definition and options always produce an identical result.
func ComputeSubject(raw models.RawSubjectScore, def models.SubjectDefinition, opts ComputeOptions) models.ComputedSubjectResult {
	opts = opts.normalized()
	result := models.ComputedSubjectResult{
		CourseCode:  def.CourseCode,
		SubjectName: def.Name,
		Credits:     def.Credits,
		Type:        def.Type,
		TotalMarks:  def.TotalMarks,
	}

	if def.ExternalOnly {
		// No internal component and no floor: the cataloged course declares
		// itself external-only and always takes the top band.
		obtained := clampInt(raw.ExternalMarks, 0, def.TotalMarks)
		grade, points := TopGrade(opts.Scheme)
		result.ExternalMarks = obtained
		result.MarksObtained = obtained
		result.Grade = grade
		result.GradePoints = points
		return result
	}

	obtained := clampInt(raw.InternalMarks+raw.ExternalMarks, opts.MarkFloor, def.TotalMarks)
	internal := int(math.Round(float64(obtained) * opts.InternalFraction))
	result.InternalMarks = internal
	result.ExternalMarks = obtained - internal
	result.MarksObtained = obtained
	result.Grade, result.GradePoints = GradeFor(float64(obtained), opts.Scheme)
	return result
}

// Aggregate folds a student's computed subject results into a full aggregate:
// totals, credit-weighted grade points, SGPA (two decimals), rounded
// percentage and the overall grade derived from SGPA. Rank is left unset.
//
// A subject list with zero total credits or zero total marks is rejected with
// ErrDegenerateResult instead of producing a NaN SGPA or percentage.
func Aggregate(info models.StudentInfo, subjects []models.ComputedSubjectResult, scheme models.GradingScheme) (*models.StudentAggregate, error) {
	agg := &models.StudentAggregate{
		Student:  info,
		Scheme:   scheme,
		Subjects: subjects,
	}
	for _, s := range subjects {
		agg.TotalMarksObtained += s.MarksObtained
		agg.TotalMarks += s.TotalMarks
		agg.TotalCredits += s.Credits
		agg.TotalGradePoints += s.GradePoints * s.Credits
	}
	if agg.TotalCredits == 0 {
		return nil, appErrors.Clone(appErrors.ErrDegenerateResult, "subject list has zero total credits")
	}
	if agg.TotalMarks == 0 {
		return nil, appErrors.Clone(appErrors.ErrDegenerateResult, "subject list has zero total marks")
	}
	agg.SGPA = round2(float64(agg.TotalGradePoints) / float64(agg.TotalCredits))
	agg.Percentage = int(math.Round(float64(agg.TotalMarksObtained) / float64(agg.TotalMarks) * 100))
	agg.OverallGrade = OverallGradeFor(agg.SGPA, scheme)
	return agg, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
