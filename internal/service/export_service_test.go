package service

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/marklytics/marksheet-api/internal/grading"
	"github.com/marklytics/marksheet-api/internal/models"
	"github.com/marklytics/marksheet-api/internal/repository"
	"github.com/marklytics/marksheet-api/pkg/storage"
)

type fakeStatsReader struct {
	stats models.CohortStatistics
	table models.ComparativeTable
}

func (f *fakeStatsReader) Summary(_ context.Context, _ repository.CohortKey) (models.CohortStatistics, bool, error) {
	return f.stats, false, nil
}

func (f *fakeStatsReader) Comparison(_ context.Context, _ repository.CohortKey) (models.ComparativeTable, bool, error) {
	return f.table, false, nil
}

func exportCohort(t *testing.T) (*ResultService, repository.CohortKey) {
	t.Helper()
	store := newFakeStore()
	svc := newTestResultService(testCatalog(), store, nil)

	first := submitRequest()
	second := submitRequest()
	second.RollNumber = "21CS002"
	second.Name = "Rahul Nair"

	_, err := svc.Submit(context.Background(), first)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), second)
	require.NoError(t, err)

	return svc, repository.CohortKey{Class: "CSE-2A", AcademicYear: "2023-24", Examination: "SEM3"}
}

func newTestExportService(t *testing.T, results resultReader) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	stats := &fakeStatsReader{
		stats: grading.Summarize(nil, 5.0),
		table: grading.BuildComparison(nil),
	}
	return NewExportService(results, stats, store, signer, ExportConfig{APIPrefix: "/api/v1"}, zap.NewNop())
}

func TestGenerateIndividualXLSX(t *testing.T) {
	results, key := exportCohort(t)
	svc := newTestExportService(t, results)

	job := &models.ExportJob{
		ID:   "job-1",
		Type: models.ReportTypeIndividual,
		Params: models.ExportJobParams{
			Class:        key.Class,
			AcademicYear: key.AcademicYear,
			Examination:  key.Examination,
			RollNumber:   "21CS001",
			Format:       models.ReportFormatXLSX,
		},
	}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.Contains(t, result.URL, "/api/v1/reports/download/")
	assert.Equal(t, models.ReportFormatXLSX, result.Format)

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close()
	payload, err := io.ReadAll(file)
	require.NoError(t, err)

	workbook, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer workbook.Close()
	assert.Contains(t, workbook.GetSheetList(), "Marksheet")
	value, err := workbook.GetCellValue("Marksheet", "A2")
	require.NoError(t, err)
	assert.Equal(t, "MA201", value)
}

func TestGenerateCombinedHasSheetPerStudent(t *testing.T) {
	results, key := exportCohort(t)
	svc := newTestExportService(t, results)

	job := &models.ExportJob{
		ID:   "job-2",
		Type: models.ReportTypeCombined,
		Params: models.ExportJobParams{
			Class:        key.Class,
			AcademicYear: key.AcademicYear,
			Examination:  key.Examination,
			Format:       models.ReportFormatXLSX,
		},
	}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close()
	payload, err := io.ReadAll(file)
	require.NoError(t, err)

	workbook, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer workbook.Close()
	assert.ElementsMatch(t, []string{"21CS001", "21CS002"}, workbook.GetSheetList())
}

func TestGenerateSummaryCSV(t *testing.T) {
	results, key := exportCohort(t)
	svc := newTestExportService(t, results)

	job := &models.ExportJob{
		ID:   "job-3",
		Type: models.ReportTypeSummary,
		Params: models.ExportJobParams{
			Class:        key.Class,
			AcademicYear: key.AcademicYear,
			Examination:  key.Examination,
			Format:       models.ReportFormatCSV,
		},
	}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close()
	payload, err := io.ReadAll(file)
	require.NoError(t, err)

	content := string(payload)
	assert.Contains(t, content, "# Rankings")
	assert.Contains(t, content, "# Statistics")
	assert.Contains(t, content, "21CS001")
}

func TestGeneratePDF(t *testing.T) {
	results, key := exportCohort(t)
	svc := newTestExportService(t, results)

	job := &models.ExportJob{
		ID:   "job-4",
		Type: models.ReportTypeIndividual,
		Params: models.ExportJobParams{
			Class:        key.Class,
			AcademicYear: key.AcademicYear,
			Examination:  key.Examination,
			RollNumber:   "21CS001",
			Format:       models.ReportFormatPDF,
		},
	}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close()
	payload, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	results, key := exportCohort(t)
	svc := newTestExportService(t, results)

	job := &models.ExportJob{
		ID:   "job-5",
		Type: models.ReportTypeSummary,
		Params: models.ExportJobParams{
			Class:        key.Class,
			AcademicYear: key.AcademicYear,
			Examination:  key.Examination,
			Format:       models.ReportFormat("docx"),
		},
	}

	_, err := svc.Generate(context.Background(), job)
	require.Error(t, err)
}

func TestGenerateCombinedEmptyCohort(t *testing.T) {
	results := newTestResultService(testCatalog(), newFakeStore(), nil)
	svc := newTestExportService(t, results)

	job := &models.ExportJob{
		ID:   "job-6",
		Type: models.ReportTypeCombined,
		Params: models.ExportJobParams{
			Class:        "CSE-2A",
			AcademicYear: "2023-24",
			Examination:  "SEM3",
			Format:       models.ReportFormatXLSX,
		},
	}

	_, err := svc.Generate(context.Background(), job)
	require.Error(t, err)
}

func TestParseTokenRoundTrip(t *testing.T) {
	results, key := exportCohort(t)
	svc := newTestExportService(t, results)

	job := &models.ExportJob{
		ID:   "job-7",
		Type: models.ReportTypeSummary,
		Params: models.ExportJobParams{
			Class:        key.Class,
			AcademicYear: key.AcademicYear,
			Examination:  key.Examination,
			Format:       models.ReportFormatCSV,
		},
	}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	jobID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-7", jobID)
	assert.Equal(t, result.RelativePath, relPath)
}
