package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/marklytics/marksheet-api/pkg/errors"
)

// CacheRepository abstracts the snapshot cache backend.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService fronts the statistics snapshot cache. Cohort statistics are
// derived data, so every cache failure degrades to a recompute rather than
// an error to the caller.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service. A non-positive defaultTTL
// falls back to 10 minutes.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{
		repo:       repo,
		metrics:    metrics,
		defaultTTL: defaultTTL,
		logger:     logger,
		enabled:    enabled,
	}
}

// Enabled reports whether caching is active.
func (c *CacheService) Enabled() bool {
	return c != nil && c.enabled && c.repo != nil
}

// Get loads a cached entry into dest. The boolean reports a cache hit;
// misses and backend errors both return false.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	start := time.Now()
	err := c.repo.Get(ctx, key, dest)
	c.record(err == nil, time.Since(start))

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, appErrors.ErrCacheMiss):
		return false, nil
	default:
		c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
}

// Set stores a value, using the default TTL when none is given.
func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	start := time.Now()
	err := c.repo.Set(ctx, key, value, ttl)
	if c.metrics != nil {
		c.metrics.ObserveCacheWrite(time.Since(start))
	}
	if err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Invalidate drops all entries matching the pattern.
func (c *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.repo.DeleteByPattern(ctx, pattern); err != nil {
		c.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}

func (c *CacheService) record(hit bool, d time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordCacheOperation(hit, d)
	}
}
