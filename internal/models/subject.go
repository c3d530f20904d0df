package models

import "time"

// SubjectType distinguishes theory and lab courses.
type SubjectType string

const (
	SubjectTypeTheory SubjectType = "THEORY"
	SubjectTypeLab    SubjectType = "LAB"
)

// SubjectDefinition is a static curriculum catalog entry. The catalog is
// loaded once and shared read-only across the process; definitions are never
// mutated after creation.
type SubjectDefinition struct {
	ID         string      `db:"id" json:"id"`
	CourseCode string      `db:"course_code" json:"course_code"`
	Name       string      `db:"name" json:"name"`
	Credits    int         `db:"credits" json:"credits"`
	Type       SubjectType `db:"type" json:"type"`
	TotalMarks int         `db:"total_marks" json:"total_marks"`
	// ExternalOnly marks courses with no internal assessment component
	// (internships, external evaluations). Such subjects bypass the
	// internal/external split and always land in the top grade band.
	ExternalOnly bool      `db:"external_only" json:"external_only"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing catalog entries.
type SubjectFilter struct {
	Type      string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
