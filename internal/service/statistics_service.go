package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/marklytics/marksheet-api/internal/grading"
	"github.com/marklytics/marksheet-api/internal/models"
	"github.com/marklytics/marksheet-api/internal/repository"
	appErrors "github.com/marklytics/marksheet-api/pkg/errors"
)

// StatisticsService derives cohort statistics and comparative tables with
// cache integration. The boolean on each read indicates whether data
// originated from cache.
type StatisticsService struct {
	store         cohortStore
	cache         *CacheService
	metrics       *MetricsService
	logger        *zap.Logger
	passThreshold float64
}

// NewStatisticsService constructs a statistics service.
func NewStatisticsService(store cohortStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger, passThreshold float64) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{store: store, cache: cache, metrics: metrics, logger: logger, passThreshold: passThreshold}
}

// Summary returns the statistics snapshot for a cohort. An empty cohort
// yields a zero-valued snapshot, not an error.
func (s *StatisticsService) Summary(ctx context.Context, key repository.CohortKey) (models.CohortStatistics, bool, error) {
	cacheKey := cohortCacheKey("summary", key)
	var cached models.CohortStatistics
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return models.CohortStatistics{}, false, fmt.Errorf("get summary cache: %w", err)
		} else if hit {
			return cached, true, nil
		}
	}

	cohort, err := s.store.Load(ctx, key)
	if err != nil {
		return models.CohortStatistics{}, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cohort")
	}

	stats := grading.Summarize(cohort, s.passThreshold)
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, stats, 0); err != nil {
			s.logger.Warn("cache summary", zap.Error(err))
		}
	}
	return stats, false, nil
}

// Comparison returns the side-by-side comparative table for a cohort.
func (s *StatisticsService) Comparison(ctx context.Context, key repository.CohortKey) (models.ComparativeTable, bool, error) {
	cacheKey := cohortCacheKey("comparison", key)
	var cached models.ComparativeTable
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return models.ComparativeTable{}, false, fmt.Errorf("get comparison cache: %w", err)
		} else if hit {
			return cached, true, nil
		}
	}

	cohort, err := s.store.Load(ctx, key)
	if err != nil {
		return models.ComparativeTable{}, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cohort")
	}

	table := grading.BuildComparison(cohort)
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, table, 0); err != nil {
			s.logger.Warn("cache comparison", zap.Error(err))
		}
	}
	return table, false, nil
}

// SystemMetrics returns the instrumentation snapshot.
func (s *StatisticsService) SystemMetrics() models.SystemMetrics {
	if s.metrics == nil {
		return models.SystemMetrics{}
	}
	return s.metrics.Snapshot()
}

func cohortCacheKey(kind string, key repository.CohortKey) string {
	escape := func(part string) string {
		return strings.ReplaceAll(part, ":", "|")
	}
	return fmt.Sprintf("stats:%s:%s:%s:%s", escape(key.Class), escape(key.AcademicYear), escape(key.Examination), kind)
}

func cohortCachePattern(key repository.CohortKey) string {
	escape := func(part string) string {
		return strings.ReplaceAll(part, ":", "|")
	}
	return fmt.Sprintf("stats:%s:%s:%s:*", escape(key.Class), escape(key.AcademicYear), escape(key.Examination))
}
