package models

import "time"

// GradingScheme selects the grade ladder applied to marks and SGPA.
type GradingScheme string

const (
	// GradeSchemeLetter is the percentage-letter ladder A+/A/B+/B/C+/C/F.
	GradeSchemeLetter GradingScheme = "LETTER"
	// GradeSchemeTenPoint is the ten-point ladder S/A/B/C/D/E/F.
	GradeSchemeTenPoint GradingScheme = "TEN_POINT"
)

// Grade is a letter grade produced by a grading scheme.
type Grade string

const (
	GradeS     Grade = "S"
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeE     Grade = "E"
	GradeF     Grade = "F"
)

// StudentInfo carries the descriptive fields printed on a marksheet. All
// fields are opaque strings as far as the computation pipeline is concerned.
type StudentInfo struct {
	Name               string `json:"name"`
	RollNumber         string `json:"roll_number"`
	RegistrationNumber string `json:"registration_number"`
	Class              string `json:"class"`
	AcademicYear       string `json:"academic_year"`
	Examination        string `json:"examination"`
}

// RawSubjectScore is one student's attempt at one subject as extracted from a
// marksheet, before any derivation. Immutable within a computation pass.
type RawSubjectScore struct {
	CourseCode    string `json:"course_code" validate:"required"`
	InternalMarks int    `json:"internal_marks" validate:"min=0"`
	ExternalMarks int    `json:"external_marks" validate:"min=0"`
}

// ComputedSubjectResult is a RawSubjectScore joined with its catalog entry and
// the derived mark/grade fields. Derived deterministically; recomputed rather
// than patched.
type ComputedSubjectResult struct {
	CourseCode    string      `json:"course_code"`
	SubjectName   string      `json:"subject_name"`
	Credits       int         `json:"credits"`
	Type          SubjectType `json:"type"`
	TotalMarks    int         `json:"total_marks"`
	InternalMarks int         `json:"internal_marks"`
	ExternalMarks int         `json:"external_marks"`
	MarksObtained int         `json:"marks_obtained"`
	Grade         Grade       `json:"grade"`
	GradePoints   int         `json:"grade_points"`
}

// StudentAggregate is one student's full computed result. Rank stays zero
// until a ranked view of the cohort is built; stored aggregates are never
// patched in place.
type StudentAggregate struct {
	Student            StudentInfo             `json:"student"`
	Scheme             GradingScheme           `json:"scheme"`
	Subjects           []ComputedSubjectResult `json:"subjects"`
	TotalMarksObtained int                     `json:"total_marks_obtained"`
	TotalMarks         int                     `json:"total_marks"`
	TotalCredits       int                     `json:"total_credits"`
	TotalGradePoints   int                     `json:"total_grade_points"`
	SGPA               float64                 `json:"sgpa"`
	Percentage         int                     `json:"percentage"`
	OverallGrade       Grade                   `json:"overall_grade"`
	Rank               int                     `json:"rank,omitempty"`
	ProcessedAt        time.Time               `json:"processed_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
