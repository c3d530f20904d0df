package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/marklytics/marksheet-api/internal/grading"
	"github.com/marklytics/marksheet-api/internal/models"
	"github.com/marklytics/marksheet-api/internal/repository"
	appErrors "github.com/marklytics/marksheet-api/pkg/errors"
)

type subjectCatalog interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDefinition, int, error)
	FindByCodes(ctx context.Context, codes []string) (map[string]models.SubjectDefinition, error)
}

type cohortStore interface {
	Load(ctx context.Context, key repository.CohortKey) ([]models.StudentAggregate, error)
	Upsert(ctx context.Context, key repository.CohortKey, aggregate models.StudentAggregate) error
	Remove(ctx context.Context, key repository.CohortKey, rollNumber string) (bool, error)
	Delete(ctx context.Context, key repository.CohortKey) error
	ListKeys(ctx context.Context) ([]repository.CohortKey, error)
}

// MarksheetSource produces raw subject scores for a student against a
// catalog. The sample generator implements it; a real extractor would parse
// uploaded marksheets instead.
type MarksheetSource interface {
	Generate(info models.StudentInfo, defs []models.SubjectDefinition) []models.RawSubjectScore
}

// SubmitResultRequest carries one student's raw marksheet rows.
type SubmitResultRequest struct {
	Name               string                   `json:"name" validate:"required"`
	RollNumber         string                   `json:"roll_number" validate:"required"`
	RegistrationNumber string                   `json:"registration_number"`
	Class              string                   `json:"class" validate:"required"`
	AcademicYear       string                   `json:"academic_year" validate:"required"`
	Examination        string                   `json:"examination" validate:"required"`
	Scheme             string                   `json:"scheme" validate:"omitempty,oneof=LETTER TEN_POINT"`
	Subjects           []models.RawSubjectScore `json:"subjects" validate:"required,min=1,dive"`
}

// BatchSubmitRequest submits several marksheets in one call. Failures abort
// only the affected student; the rest of the batch proceeds.
type BatchSubmitRequest struct {
	Results []SubmitResultRequest `json:"results" validate:"required,min=1,dive"`
}

// BatchSubmitResult summarises partial outcomes.
type BatchSubmitResult struct {
	SuccessCount int                       `json:"success_count"`
	Aggregates   []models.StudentAggregate `json:"aggregates"`
	Failures     []BatchSubmitFailure      `json:"failures,omitempty"`
}

// BatchSubmitFailure captures one rejected marksheet.
type BatchSubmitFailure struct {
	RollNumber string `json:"roll_number"`
	Reason     string `json:"reason"`
}

// ImportSampleRequest fabricates a cohort from the sample source.
type ImportSampleRequest struct {
	Class        string `json:"class" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required"`
	Examination  string `json:"examination" validate:"required"`
	Count        int    `json:"count" validate:"min=1,max=200"`
	RollPrefix   string `json:"roll_prefix"`
	Scheme       string `json:"scheme" validate:"omitempty,oneof=LETTER TEN_POINT"`
}

// ResultService orchestrates the computation pipeline: catalog lookup,
// per-subject derivation, aggregation and cohort persistence.
type ResultService struct {
	catalog   subjectCatalog
	store     cohortStore
	cache     *CacheService
	metrics   *MetricsService
	source    MarksheetSource
	validator *validator.Validate
	logger    *zap.Logger
	opts      grading.ComputeOptions
}

// NewResultService constructs ResultService. The compute options carry the
// deployment's default scheme, internal fraction and mark floor.
func NewResultService(catalog subjectCatalog, store cohortStore, cache *CacheService, metrics *MetricsService, source MarksheetSource, validate *validator.Validate, logger *zap.Logger, opts grading.ComputeOptions) *ResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{
		catalog:   catalog,
		store:     store,
		cache:     cache,
		metrics:   metrics,
		source:    source,
		validator: validate,
		logger:    logger,
		opts:      opts,
	}
}

// Submit validates, computes and persists one student's result. The stored
// aggregate replaces any previous entry with the same roll number.
func (s *ResultService) Submit(ctx context.Context, req SubmitResultRequest) (*models.StudentAggregate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result payload")
	}

	aggregate, err := s.compute(ctx, req)
	if err != nil {
		return nil, err
	}

	key := cohortKeyFor(aggregate.Student)
	if err := s.store.Upsert(ctx, key, *aggregate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist result")
	}
	s.invalidateCohort(ctx, key)

	if s.metrics != nil {
		s.metrics.RecordResultProcessed(aggregate.Scheme)
	}
	s.logger.Info("result computed",
		zap.String("roll_number", aggregate.Student.RollNumber),
		zap.String("class", aggregate.Student.Class),
		zap.Float64("sgpa", aggregate.SGPA),
	)
	return aggregate, nil
}

// SubmitBatch processes each marksheet independently. A catalog or
// degenerate-result failure rejects that student only.
func (s *ResultService) SubmitBatch(ctx context.Context, req BatchSubmitRequest) (*BatchSubmitResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}

	result := &BatchSubmitResult{}
	for _, item := range req.Results {
		aggregate, err := s.Submit(ctx, item)
		if err != nil {
			result.Failures = append(result.Failures, BatchSubmitFailure{
				RollNumber: item.RollNumber,
				Reason:     appErrors.FromError(err).Message,
			})
			continue
		}
		result.SuccessCount++
		result.Aggregates = append(result.Aggregates, *aggregate)
	}
	return result, nil
}

// ImportSamples fabricates Count students through the configured marksheet
// source and runs each through the normal submission path.
func (s *ResultService) ImportSamples(ctx context.Context, req ImportSampleRequest) (*BatchSubmitResult, error) {
	if s.source == nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "sample import is disabled")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sample import payload")
	}

	defs, _, err := s.catalog.List(ctx, models.SubjectFilter{PageSize: 100})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject catalog")
	}
	if len(defs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrConfiguration, "subject catalog is empty")
	}

	prefix := req.RollPrefix
	if prefix == "" {
		prefix = "ROLL"
	}

	batch := BatchSubmitRequest{}
	for i := 1; i <= req.Count; i++ {
		info := models.StudentInfo{
			Name:         fmt.Sprintf("Student %03d", i),
			RollNumber:   fmt.Sprintf("%s%03d", prefix, i),
			Class:        req.Class,
			AcademicYear: req.AcademicYear,
			Examination:  req.Examination,
		}
		batch.Results = append(batch.Results, SubmitResultRequest{
			Name:         info.Name,
			RollNumber:   info.RollNumber,
			Class:        info.Class,
			AcademicYear: info.AcademicYear,
			Examination:  info.Examination,
			Scheme:       req.Scheme,
			Subjects:     s.source.Generate(info, defs),
		})
	}
	return s.SubmitBatch(ctx, batch)
}

// List returns a cohort in submission order.
func (s *ResultService) List(ctx context.Context, key repository.CohortKey) ([]models.StudentAggregate, error) {
	cohort, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cohort")
	}
	return cohort, nil
}

// Get returns one student's aggregate.
func (s *ResultService) Get(ctx context.Context, key repository.CohortKey, rollNumber string) (*models.StudentAggregate, error) {
	cohort, err := s.List(ctx, key)
	if err != nil {
		return nil, err
	}
	for i := range cohort {
		if cohort[i].Student.RollNumber == rollNumber {
			return &cohort[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no result for roll number %s", rollNumber))
}

// Rankings returns an immutable ranked view of the cohort: positions follow
// SGPA descending with ties keeping submission order, while the slice itself
// stays in submission order.
func (s *ResultService) Rankings(ctx context.Context, key repository.CohortKey) ([]models.StudentAggregate, error) {
	cohort, err := s.List(ctx, key)
	if err != nil {
		return nil, err
	}
	return grading.Ranked(cohort), nil
}

// Delete removes one student from the cohort.
func (s *ResultService) Delete(ctx context.Context, key repository.CohortKey, rollNumber string) error {
	found, err := s.store.Remove(ctx, key, rollNumber)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete result")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no result for roll number %s", rollNumber))
	}
	s.invalidateCohort(ctx, key)
	return nil
}

// DeleteCohort removes the entire cohort.
func (s *ResultService) DeleteCohort(ctx context.Context, key repository.CohortKey) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete cohort")
	}
	s.invalidateCohort(ctx, key)
	return nil
}

// Cohorts lists every stored cohort key.
func (s *ResultService) Cohorts(ctx context.Context) ([]repository.CohortKey, error) {
	keys, err := s.store.ListKeys(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cohorts")
	}
	return keys, nil
}

// compute runs catalog lookup, per-subject derivation and aggregation without
// touching persistence.
func (s *ResultService) compute(ctx context.Context, req SubmitResultRequest) (*models.StudentAggregate, error) {
	codes := make([]string, 0, len(req.Subjects))
	for _, raw := range req.Subjects {
		codes = append(codes, raw.CourseCode)
	}

	defs, err := s.catalog.FindByCodes(ctx, codes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve subject catalog")
	}

	var missing []string
	for _, code := range codes {
		if _, ok := defs[code]; !ok {
			missing = append(missing, code)
		}
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("unknown course codes: %s", strings.Join(missing, ", ")))
	}

	opts := s.opts
	if req.Scheme != "" {
		opts.Scheme = models.GradingScheme(req.Scheme)
	}

	computed := make([]models.ComputedSubjectResult, 0, len(req.Subjects))
	for _, raw := range req.Subjects {
		computed = append(computed, grading.ComputeSubject(raw, defs[raw.CourseCode], opts))
	}

	info := models.StudentInfo{
		Name:               req.Name,
		RollNumber:         req.RollNumber,
		RegistrationNumber: req.RegistrationNumber,
		Class:              req.Class,
		AcademicYear:       req.AcademicYear,
		Examination:        req.Examination,
	}
	aggregate, err := grading.Aggregate(info, computed, opts.Scheme)
	if err != nil {
		return nil, err
	}
	aggregate.ProcessedAt = time.Now().UTC()
	return aggregate, nil
}

func (s *ResultService) invalidateCohort(ctx context.Context, key repository.CohortKey) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cohortCachePattern(key)); err != nil {
		s.logger.Warn("invalidate cohort cache", zap.Error(err))
	}
}

func cohortKeyFor(info models.StudentInfo) repository.CohortKey {
	return repository.CohortKey{
		Class:        info.Class,
		AcademicYear: info.AcademicYear,
		Examination:  info.Examination,
	}
}
