package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/marklytics/marksheet-api/internal/models"
)

// CohortKey identifies one examination cohort. Aggregates for a cohort are
// stored together as a single ordered document so submission order survives
// round trips.
type CohortKey struct {
	Class        string
	AcademicYear string
	Examination  string
}

func (k CohortKey) redisKey() string {
	sanitize := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), ":", "_")
	}
	return fmt.Sprintf("cohort:%s:%s:%s", sanitize(k.Class), sanitize(k.AcademicYear), sanitize(k.Examination))
}

// ResultRepository persists computed student aggregates in Redis.
type ResultRepository struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewResultRepository constructs a result repository. A zero TTL keeps
// cohorts until they are deleted explicitly.
func NewResultRepository(client *redis.Client, logger *zap.Logger, ttl time.Duration) *ResultRepository {
	return &ResultRepository{client: client, logger: logger, ttl: ttl}
}

// Load returns the cohort for the given key in submission order. A missing
// key yields an empty cohort, not an error.
func (r *ResultRepository) Load(ctx context.Context, key CohortKey) ([]models.StudentAggregate, error) {
	raw, err := r.client.Get(ctx, key.redisKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return []models.StudentAggregate{}, nil
		}
		return nil, fmt.Errorf("load cohort %s: %w", key.redisKey(), err)
	}

	var cohort []models.StudentAggregate
	if err := json.Unmarshal(raw, &cohort); err != nil {
		return nil, fmt.Errorf("unmarshal cohort %s: %w", key.redisKey(), err)
	}
	return cohort, nil
}

// Save replaces the cohort document for the given key.
func (r *ResultRepository) Save(ctx context.Context, key CohortKey, cohort []models.StudentAggregate) error {
	payload, err := json.Marshal(cohort)
	if err != nil {
		return fmt.Errorf("marshal cohort %s: %w", key.redisKey(), err)
	}
	if err := r.client.Set(ctx, key.redisKey(), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cohort %s: %w", key.redisKey(), err)
	}
	return nil
}

// Upsert inserts the aggregate or replaces an existing entry with the same
// roll number, keeping the cohort's submission order otherwise intact. The
// read-modify-write runs under WATCH so concurrent imports cannot drop each
// other's students.
func (r *ResultRepository) Upsert(ctx context.Context, key CohortKey, aggregate models.StudentAggregate) error {
	redisKey := key.redisKey()

	txn := func(tx *redis.Tx) error {
		var cohort []models.StudentAggregate
		raw, err := tx.Get(ctx, redisKey).Bytes()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("load cohort %s: %w", redisKey, err)
		}
		if err == nil {
			if err := json.Unmarshal(raw, &cohort); err != nil {
				return fmt.Errorf("unmarshal cohort %s: %w", redisKey, err)
			}
		}

		replaced := false
		for i := range cohort {
			if cohort[i].Student.RollNumber == aggregate.Student.RollNumber {
				cohort[i] = aggregate
				replaced = true
				break
			}
		}
		if !replaced {
			cohort = append(cohort, aggregate)
		}

		payload, err := json.Marshal(cohort)
		if err != nil {
			return fmt.Errorf("marshal cohort %s: %w", redisKey, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, redisKey, payload, r.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < 3; attempt++ {
		err := r.client.Watch(ctx, txn, redisKey)
		if err == nil {
			return nil
		}
		if err != redis.TxFailedErr {
			return err
		}
	}
	return fmt.Errorf("upsert cohort %s: too much contention", redisKey)
}

// Remove deletes one student from the cohort. It reports whether the roll
// number was present.
func (r *ResultRepository) Remove(ctx context.Context, key CohortKey, rollNumber string) (bool, error) {
	cohort, err := r.Load(ctx, key)
	if err != nil {
		return false, err
	}

	kept := cohort[:0]
	found := false
	for _, agg := range cohort {
		if agg.Student.RollNumber == rollNumber {
			found = true
			continue
		}
		kept = append(kept, agg)
	}
	if !found {
		return false, nil
	}

	if len(kept) == 0 {
		return true, r.Delete(ctx, key)
	}
	return true, r.Save(ctx, key, kept)
}

// Delete removes the entire cohort document.
func (r *ResultRepository) Delete(ctx context.Context, key CohortKey) error {
	if err := r.client.Del(ctx, key.redisKey()).Err(); err != nil {
		return fmt.Errorf("delete cohort %s: %w", key.redisKey(), err)
	}
	return nil
}

// ListKeys returns every stored cohort key.
func (r *ResultRepository) ListKeys(ctx context.Context) ([]CohortKey, error) {
	var keys []CohortKey
	iter := r.client.Scan(ctx, 0, "cohort:*", 0).Iterator()
	for iter.Next(ctx) {
		parts := strings.SplitN(iter.Val(), ":", 4)
		if len(parts) != 4 {
			r.logger.Warn("skipping malformed cohort key", zap.String("key", iter.Val()))
			continue
		}
		keys = append(keys, CohortKey{Class: parts[1], AcademicYear: parts[2], Examination: parts[3]})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan cohort keys: %w", err)
	}
	return keys, nil
}
