package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marklytics/marksheet-api/internal/models"
)

func aggregateWithSGPA(roll string, sgpa float64) models.StudentAggregate {
	return models.StudentAggregate{
		Student: models.StudentInfo{RollNumber: roll},
		SGPA:    sgpa,
	}
}

func TestRankedOrdinalNotCompetition(t *testing.T) {
	cohort := []models.StudentAggregate{
		aggregateWithSGPA("r1", 9.0),
		aggregateWithSGPA("r2", 9.0),
		aggregateWithSGPA("r3", 8.0),
	}

	ranked := Ranked(cohort)
	require.Len(t, ranked, 3)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestRankedPreservesInputOrder(t *testing.T) {
	cohort := []models.StudentAggregate{
		aggregateWithSGPA("r1", 7.2),
		aggregateWithSGPA("r2", 9.1),
		aggregateWithSGPA("r3", 8.4),
	}

	ranked := Ranked(cohort)
	assert.Equal(t, "r1", ranked[0].Student.RollNumber)
	assert.Equal(t, "r2", ranked[1].Student.RollNumber)
	assert.Equal(t, "r3", ranked[2].Student.RollNumber)

	assert.Equal(t, 3, ranked[0].Rank)
	assert.Equal(t, 1, ranked[1].Rank)
	assert.Equal(t, 2, ranked[2].Rank)
}

func TestRankedTiesFollowSubmissionOrder(t *testing.T) {
	cohort := []models.StudentAggregate{
		aggregateWithSGPA("late", 8.0),
		aggregateWithSGPA("tied-a", 9.0),
		aggregateWithSGPA("tied-b", 9.0),
	}

	ranked := Ranked(cohort)
	assert.Equal(t, 1, ranked[1].Rank)
	assert.Equal(t, 2, ranked[2].Rank)
	assert.Equal(t, 3, ranked[0].Rank)
}

func TestRankedDoesNotMutateInput(t *testing.T) {
	cohort := []models.StudentAggregate{
		aggregateWithSGPA("r1", 6.0),
		aggregateWithSGPA("r2", 7.0),
	}

	_ = Ranked(cohort)
	assert.Zero(t, cohort[0].Rank)
	assert.Zero(t, cohort[1].Rank)
}

func TestRankedEmptyCohort(t *testing.T) {
	assert.Empty(t, Ranked(nil))
}
