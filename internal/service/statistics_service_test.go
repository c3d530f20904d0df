package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marklytics/marksheet-api/internal/models"
	"github.com/marklytics/marksheet-api/internal/repository"
	appErrors "github.com/marklytics/marksheet-api/pkg/errors"
)

type memoryCacheRepo struct {
	values map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{values: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, _ string) error {
	m.values = make(map[string][]byte)
	return nil
}

func statsCohort() []models.StudentAggregate {
	return []models.StudentAggregate{
		{
			Student: models.StudentInfo{Name: "Asha Verma", RollNumber: "21CS001"},
			Subjects: []models.ComputedSubjectResult{
				{CourseCode: "MA201", SubjectName: "Mathematics III", MarksObtained: 85},
			},
			SGPA: 9.0, Percentage: 85, OverallGrade: models.GradeA,
		},
		{
			Student: models.StudentInfo{Name: "Rahul Nair", RollNumber: "21CS002"},
			Subjects: []models.ComputedSubjectResult{
				{CourseCode: "MA201", SubjectName: "Mathematics III", MarksObtained: 75},
			},
			SGPA: 7.0, Percentage: 75, OverallGrade: models.GradeB,
		},
	}
}

func statsKey() repository.CohortKey {
	return repository.CohortKey{Class: "CSE-2A", AcademicYear: "2023-24", Examination: "SEM3"}
}

func newTestStatisticsService(store cohortStore, cacheRepo CacheRepository) *StatisticsService {
	var cache *CacheService
	if cacheRepo != nil {
		cache = NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	}
	return NewStatisticsService(store, cache, nil, zap.NewNop(), 5.0)
}

func TestSummaryComputesAndCaches(t *testing.T) {
	store := newFakeStore()
	store.cohorts[statsKey()] = statsCohort()
	cacheRepo := newMemoryCacheRepo()
	svc := newTestStatisticsService(store, cacheRepo)

	stats, fromCache, err := svc.Summary(context.Background(), statsKey())
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, 2, stats.TotalStudents)
	assert.InDelta(t, 8.0, stats.AverageSGPA, 1e-9)
	assert.InDelta(t, 100.0, stats.PassPercentage, 1e-9)

	again, fromCache, err := svc.Summary(context.Background(), statsKey())
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, stats, again)
}

func TestSummaryEmptyCohortIsZeroSnapshot(t *testing.T) {
	svc := newTestStatisticsService(newFakeStore(), nil)

	stats, fromCache, err := svc.Summary(context.Background(), statsKey())
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Zero(t, stats.TotalStudents)
	assert.Zero(t, stats.AverageSGPA)
	assert.Empty(t, stats.GradeHistogram)
}

func TestComparisonComputesAndCaches(t *testing.T) {
	store := newFakeStore()
	store.cohorts[statsKey()] = statsCohort()
	cacheRepo := newMemoryCacheRepo()
	svc := newTestStatisticsService(store, cacheRepo)

	table, fromCache, err := svc.Comparison(context.Background(), statsKey())
	require.NoError(t, err)
	assert.False(t, fromCache)
	require.Len(t, table.Students, 2)
	require.Len(t, table.Subjects, 1)
	assert.InDelta(t, 80.0, table.Subjects[0].ClassAverage, 1e-9)

	_, fromCache, err = svc.Comparison(context.Background(), statsKey())
	require.NoError(t, err)
	assert.True(t, fromCache)
}

func TestSummaryAndComparisonUseDistinctCacheKeys(t *testing.T) {
	key := statsKey()
	assert.NotEqual(t, cohortCacheKey("summary", key), cohortCacheKey("comparison", key))
}

func TestCohortCacheKeyEscapesSeparators(t *testing.T) {
	key := repository.CohortKey{Class: "CSE:2A", AcademicYear: "2023-24", Examination: "SEM3"}
	assert.NotContains(t, cohortCacheKey("summary", key), "CSE:2A")
}
