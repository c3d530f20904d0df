package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marklytics/marksheet-api/internal/models"
)

func TestSummarizeEmptyCohort(t *testing.T) {
	stats := Summarize(nil, 5.0)
	assert.Equal(t, 0, stats.TotalStudents)
	assert.Zero(t, stats.AverageSGPA)
	assert.Zero(t, stats.AveragePercentage)
	assert.Zero(t, stats.PassPercentage)
	assert.Empty(t, stats.GradeHistogram)
	assert.Empty(t, stats.SubjectAverages)
}

func TestSummarizeAveragesAndPassRate(t *testing.T) {
	cohort := []models.StudentAggregate{
		{SGPA: 9.0, Percentage: 88, OverallGrade: models.GradeS},
		{SGPA: 6.5, Percentage: 64, OverallGrade: models.GradeC},
		{SGPA: 4.0, Percentage: 41, OverallGrade: models.GradeE},
	}

	stats := Summarize(cohort, 5.0)
	assert.Equal(t, 3, stats.TotalStudents)
	assert.InDelta(t, 6.5, stats.AverageSGPA, 0.001)
	assert.InDelta(t, 64.33, stats.AveragePercentage, 0.001)
	assert.InDelta(t, 66.67, stats.PassPercentage, 0.001)
}

func TestSummarizeHistogramInsertionOrder(t *testing.T) {
	cohort := []models.StudentAggregate{
		{OverallGrade: models.GradeB, SGPA: 7.1},
		{OverallGrade: models.GradeA, SGPA: 8.2},
		{OverallGrade: models.GradeB, SGPA: 7.4},
	}

	stats := Summarize(cohort, 5.0)
	require.Len(t, stats.GradeHistogram, 2)
	assert.Equal(t, models.GradeB, stats.GradeHistogram[0].Grade)
	assert.Equal(t, 2, stats.GradeHistogram[0].Count)
	assert.Equal(t, models.GradeA, stats.GradeHistogram[1].Grade)
	assert.Equal(t, 1, stats.GradeHistogram[1].Count)
}

func TestSummarizeSubjectAveragesExcludeMissingStudents(t *testing.T) {
	withSubjects := func(marks map[string]int) []models.ComputedSubjectResult {
		subjects := make([]models.ComputedSubjectResult, 0, len(marks))
		for name, m := range marks {
			subjects = append(subjects, models.ComputedSubjectResult{SubjectName: name, MarksObtained: m, Credits: 3, TotalMarks: 100})
		}
		return subjects
	}
	cohort := []models.StudentAggregate{
		{SGPA: 8, Subjects: withSubjects(map[string]int{"Subject X": 80})},
		{SGPA: 7, Subjects: withSubjects(map[string]int{"Subject X": 60})},
		{SGPA: 6, Subjects: withSubjects(map[string]int{"Subject Y": 50})},
	}

	stats := Summarize(cohort, 5.0)
	var subjectX *models.SubjectAverage
	for i := range stats.SubjectAverages {
		if stats.SubjectAverages[i].Subject == "Subject X" {
			subjectX = &stats.SubjectAverages[i]
		}
	}
	require.NotNil(t, subjectX)
	// mean over the two students carrying the subject, not divided by three
	assert.Equal(t, 2, subjectX.Students)
	assert.InDelta(t, 70.0, subjectX.Average, 0.001)
}
