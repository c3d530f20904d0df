package models

import "time"

// GradeCount is one bucket of the overall-grade histogram. Buckets appear in
// first-occurrence order across the cohort; consumers must not rely on the
// ordering for sorting.
type GradeCount struct {
	Grade Grade `json:"grade"`
	Count int   `json:"count"`
}

// SubjectAverage is the mean obtained mark for one subject across the
// students who carry it. Students without the subject are excluded from the
// mean, not counted as zero.
type SubjectAverage struct {
	Subject  string  `json:"subject"`
	Average  float64 `json:"average"`
	Students int     `json:"students"`
}

// CohortStatistics is a read-only snapshot derived from a cohort. It is
// recomputed whenever cohort membership changes and never persisted
// independently of its source cohort.
type CohortStatistics struct {
	TotalStudents     int              `json:"total_students"`
	AverageSGPA       float64          `json:"average_sgpa"`
	AveragePercentage float64          `json:"average_percentage"`
	PassPercentage    float64          `json:"pass_percentage"`
	GradeHistogram    []GradeCount     `json:"grade_histogram"`
	SubjectAverages   []SubjectAverage `json:"subject_averages"`
}

// StudentRef labels one student column of a comparative table.
type StudentRef struct {
	RollNumber string `json:"roll_number"`
	Name       string `json:"name"`
}

// SubjectComparison is one subject row of a comparative table. Marks holds
// one cell per student column; a nil cell means the student does not carry
// the subject and is excluded from ClassAverage.
type SubjectComparison struct {
	Subject      string  `json:"subject"`
	Marks        []*int  `json:"marks"`
	ClassAverage float64 `json:"class_average"`
}

// ComparativeTable is the side-by-side projection of a cohort: one row per
// distinct subject, then a metric block (SGPA, percentage, overall grade)
// over the same student columns. ModalGrade is the most frequent overall
// grade, ties broken by first occurrence.
type ComparativeTable struct {
	Students          []StudentRef        `json:"students"`
	Subjects          []SubjectComparison `json:"subjects"`
	SGPAs             []float64           `json:"sgpas"`
	AverageSGPA       float64             `json:"average_sgpa"`
	Percentages       []int               `json:"percentages"`
	AveragePercentage float64             `json:"average_percentage"`
	Grades            []Grade             `json:"grades"`
	ModalGrade        Grade               `json:"modal_grade"`
}

// SystemMetrics is a lightweight instrumentation snapshot exposed alongside
// cohort statistics.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	ResultsProcessed         uint64    `json:"results_processed"`
	ReportsGenerated         uint64    `json:"reports_generated"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
