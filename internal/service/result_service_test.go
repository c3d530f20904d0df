package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marklytics/marksheet-api/internal/grading"
	"github.com/marklytics/marksheet-api/internal/models"
	"github.com/marklytics/marksheet-api/internal/repository"
	"github.com/marklytics/marksheet-api/internal/sample"
	appErrors "github.com/marklytics/marksheet-api/pkg/errors"
)

type fakeCatalog struct {
	defs map[string]models.SubjectDefinition
	err  error
}

func (f *fakeCatalog) List(_ context.Context, _ models.SubjectFilter) ([]models.SubjectDefinition, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	out := make([]models.SubjectDefinition, 0, len(f.defs))
	for _, code := range []string{"MA201", "CS203", "CS203L"} {
		if def, ok := f.defs[code]; ok {
			out = append(out, def)
		}
	}
	return out, len(out), nil
}

func (f *fakeCatalog) FindByCodes(_ context.Context, codes []string) (map[string]models.SubjectDefinition, error) {
	if f.err != nil {
		return nil, f.err
	}
	found := make(map[string]models.SubjectDefinition)
	for _, code := range codes {
		if def, ok := f.defs[code]; ok {
			found[code] = def
		}
	}
	return found, nil
}

type fakeStore struct {
	cohorts map[repository.CohortKey][]models.StudentAggregate
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{cohorts: make(map[repository.CohortKey][]models.StudentAggregate)}
}

func (f *fakeStore) Load(_ context.Context, key repository.CohortKey) ([]models.StudentAggregate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.StudentAggregate(nil), f.cohorts[key]...), nil
}

func (f *fakeStore) Upsert(_ context.Context, key repository.CohortKey, aggregate models.StudentAggregate) error {
	if f.err != nil {
		return f.err
	}
	cohort := f.cohorts[key]
	for i := range cohort {
		if cohort[i].Student.RollNumber == aggregate.Student.RollNumber {
			cohort[i] = aggregate
			f.cohorts[key] = cohort
			return nil
		}
	}
	f.cohorts[key] = append(cohort, aggregate)
	return nil
}

func (f *fakeStore) Remove(_ context.Context, key repository.CohortKey, rollNumber string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	cohort := f.cohorts[key]
	for i := range cohort {
		if cohort[i].Student.RollNumber == rollNumber {
			f.cohorts[key] = append(cohort[:i:i], cohort[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Delete(_ context.Context, key repository.CohortKey) error {
	delete(f.cohorts, key)
	return nil
}

func (f *fakeStore) ListKeys(_ context.Context) ([]repository.CohortKey, error) {
	keys := make([]repository.CohortKey, 0, len(f.cohorts))
	for key := range f.cohorts {
		keys = append(keys, key)
	}
	return keys, nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{defs: map[string]models.SubjectDefinition{
		"MA201":  {CourseCode: "MA201", Name: "Mathematics III", Credits: 4, Type: models.SubjectTypeTheory, TotalMarks: 100},
		"CS203":  {CourseCode: "CS203", Name: "Data Structures", Credits: 4, Type: models.SubjectTypeTheory, TotalMarks: 100},
		"CS203L": {CourseCode: "CS203L", Name: "Data Structures Lab", Credits: 2, Type: models.SubjectTypeLab, TotalMarks: 50},
	}}
}

func newTestResultService(catalog *fakeCatalog, store *fakeStore, source MarksheetSource) *ResultService {
	return NewResultService(catalog, store, nil, nil, source, nil, zap.NewNop(), grading.ComputeOptions{
		Scheme:           models.GradeSchemeTenPoint,
		InternalFraction: 0.4,
	})
}

func submitRequest() SubmitResultRequest {
	return SubmitResultRequest{
		Name:         "Asha Verma",
		RollNumber:   "21CS001",
		Class:        "CSE-2A",
		AcademicYear: "2023-24",
		Examination:  "SEM3",
		Subjects: []models.RawSubjectScore{
			{CourseCode: "MA201", InternalMarks: 34, ExternalMarks: 51},
			{CourseCode: "CS203", InternalMarks: 36, ExternalMarks: 54},
			{CourseCode: "CS203L", InternalMarks: 18, ExternalMarks: 27},
		},
	}
}

func TestSubmitComputesAndPersists(t *testing.T) {
	store := newFakeStore()
	svc := newTestResultService(testCatalog(), store, nil)

	agg, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	assert.Equal(t, 10, agg.TotalCredits)
	assert.Equal(t, 220, agg.TotalMarksObtained)
	assert.Equal(t, 250, agg.TotalMarks)
	assert.Equal(t, 88, agg.Percentage)
	assert.False(t, agg.ProcessedAt.IsZero())
	assert.Zero(t, agg.Rank)

	key := repository.CohortKey{Class: "CSE-2A", AcademicYear: "2023-24", Examination: "SEM3"}
	require.Len(t, store.cohorts[key], 1)
}

func TestSubmitReplacesExistingRollNumber(t *testing.T) {
	store := newFakeStore()
	svc := newTestResultService(testCatalog(), store, nil)

	_, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	again := submitRequest()
	again.Subjects[0].ExternalMarks = 20
	_, err = svc.Submit(context.Background(), again)
	require.NoError(t, err)

	key := repository.CohortKey{Class: "CSE-2A", AcademicYear: "2023-24", Examination: "SEM3"}
	require.Len(t, store.cohorts[key], 1)
}

func TestSubmitUnknownCourseCode(t *testing.T) {
	store := newFakeStore()
	svc := newTestResultService(testCatalog(), store, nil)

	req := submitRequest()
	req.Subjects = append(req.Subjects, models.RawSubjectScore{CourseCode: "XX999", ExternalMarks: 50})

	_, err := svc.Submit(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConfiguration.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "XX999")
	assert.Empty(t, store.cohorts)
}

func TestSubmitValidation(t *testing.T) {
	svc := newTestResultService(testCatalog(), newFakeStore(), nil)

	req := submitRequest()
	req.RollNumber = ""
	_, err := svc.Submit(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = submitRequest()
	req.Subjects = nil
	_, err = svc.Submit(context.Background(), req)
	require.Error(t, err)
}

func TestSubmitBatchContinuesPastFailures(t *testing.T) {
	store := newFakeStore()
	svc := newTestResultService(testCatalog(), store, nil)

	bad := submitRequest()
	bad.RollNumber = "21CS002"
	bad.Subjects = []models.RawSubjectScore{{CourseCode: "XX999", ExternalMarks: 40}}

	result, err := svc.SubmitBatch(context.Background(), BatchSubmitRequest{
		Results: []SubmitResultRequest{submitRequest(), bad},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "21CS002", result.Failures[0].RollNumber)
}

func TestGetAndDelete(t *testing.T) {
	store := newFakeStore()
	svc := newTestResultService(testCatalog(), store, nil)
	key := repository.CohortKey{Class: "CSE-2A", AcademicYear: "2023-24", Examination: "SEM3"}

	_, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	agg, err := svc.Get(context.Background(), key, "21CS001")
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", agg.Student.Name)

	_, err = svc.Get(context.Background(), key, "21CS099")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), key, "21CS001"))
	err = svc.Delete(context.Background(), key, "21CS001")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRankingsLeaveStoredCohortUnranked(t *testing.T) {
	store := newFakeStore()
	svc := newTestResultService(testCatalog(), store, nil)
	key := repository.CohortKey{Class: "CSE-2A", AcademicYear: "2023-24", Examination: "SEM3"}

	first := submitRequest()
	second := submitRequest()
	second.RollNumber = "21CS002"
	second.Name = "Rahul Nair"
	second.Subjects = []models.RawSubjectScore{
		{CourseCode: "MA201", InternalMarks: 20, ExternalMarks: 30},
		{CourseCode: "CS203", InternalMarks: 22, ExternalMarks: 33},
		{CourseCode: "CS203L", InternalMarks: 12, ExternalMarks: 18},
	}

	_, err := svc.Submit(context.Background(), first)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), second)
	require.NoError(t, err)

	ranked, err := svc.Rankings(context.Background(), key)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)

	stored, err := svc.List(context.Background(), key)
	require.NoError(t, err)
	for _, agg := range stored {
		assert.Zero(t, agg.Rank)
	}
}

func TestImportSamples(t *testing.T) {
	store := newFakeStore()
	source := sample.NewGenerator(40, 0.4)
	svc := newTestResultService(testCatalog(), store, source)

	result, err := svc.ImportSamples(context.Background(), ImportSampleRequest{
		Class:        "CSE-2A",
		AcademicYear: "2023-24",
		Examination:  "SEM3",
		Count:        5,
		RollPrefix:   "21CS",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.SuccessCount)
	assert.Empty(t, result.Failures)

	key := repository.CohortKey{Class: "CSE-2A", AcademicYear: "2023-24", Examination: "SEM3"}
	require.Len(t, store.cohorts[key], 5)
	assert.Equal(t, "21CS001", store.cohorts[key][0].Student.RollNumber)
}

func TestImportSamplesDisabledWithoutSource(t *testing.T) {
	svc := newTestResultService(testCatalog(), newFakeStore(), nil)

	_, err := svc.ImportSamples(context.Background(), ImportSampleRequest{
		Class: "CSE-2A", AcademicYear: "2023-24", Examination: "SEM3", Count: 3,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSubmitStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("redis down")
	svc := newTestResultService(testCatalog(), store, nil)

	_, err := svc.Submit(context.Background(), submitRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
