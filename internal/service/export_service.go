package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/marklytics/marksheet-api/internal/models"
	"github.com/marklytics/marksheet-api/internal/repository"
	"github.com/marklytics/marksheet-api/pkg/export"
	"github.com/marklytics/marksheet-api/pkg/storage"
)

type resultReader interface {
	List(ctx context.Context, key repository.CohortKey) ([]models.StudentAggregate, error)
	Get(ctx context.Context, key repository.CohortKey, rollNumber string) (*models.StudentAggregate, error)
	Rankings(ctx context.Context, key repository.CohortKey) ([]models.StudentAggregate, error)
}

type statisticsReader interface {
	Summary(ctx context.Context, key repository.CohortKey) (models.CohortStatistics, bool, error)
	Comparison(ctx context.Context, key repository.CohortKey) (models.ComparativeTable, bool, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type sheetRenderer interface {
	Render(sheets []export.Sheet) ([]byte, error)
}

type csvRenderer interface {
	RenderSheets(sheets []export.Sheet) ([]byte, error)
}

type pdfRenderer interface {
	RenderSheets(sheets []export.Sheet, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService builds report datasets and persists rendered files.
type ExportService struct {
	results resultReader
	stats   statisticsReader
	storage fileStorage
	xlsx    sheetRenderer
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(results resultReader, stats statisticsReader, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		results: results,
		stats:   stats,
		storage: store,
		xlsx:    export.NewXLSXExporter(),
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate builds the report sheets for the job and stores the rendered file.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	sheets, title, err := s.buildSheets(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatXLSX:
		payload, err = s.xlsx.Render(sheets)
	case models.ReportFormatCSV:
		payload, err = s.csv.RenderSheets(sheets)
	case models.ReportFormatPDF:
		payload, err = s.pdf.RenderSheets(sheets, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/reports/download/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	scope := sanitizeFilename(fmt.Sprintf("%s_%s", job.Params.Class, job.Params.Examination))
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), scope, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildSheets(ctx context.Context, job *models.ExportJob) ([]export.Sheet, string, error) {
	key := repository.CohortKey{
		Class:        job.Params.Class,
		AcademicYear: job.Params.AcademicYear,
		Examination:  job.Params.Examination,
	}
	switch job.Type {
	case models.ReportTypeIndividual:
		return s.buildIndividualSheets(ctx, key, job.Params.RollNumber)
	case models.ReportTypeCombined:
		return s.buildCombinedSheets(ctx, key)
	case models.ReportTypeSummary:
		return s.buildSummarySheets(ctx, key)
	case models.ReportTypeComparison:
		return s.buildComparisonSheets(ctx, key)
	default:
		return nil, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

var marksheetHeaders = []string{"Course Code", "Subject", "Credits", "Type", "Internal", "External", "Obtained", "Max Marks", "Grade", "Grade Points"}

func marksheetSheet(name string, agg models.StudentAggregate) export.Sheet {
	rows := make([]map[string]string, 0, len(agg.Subjects)+1)
	for _, subject := range agg.Subjects {
		rows = append(rows, map[string]string{
			"Course Code":  subject.CourseCode,
			"Subject":      subject.SubjectName,
			"Credits":      fmt.Sprintf("%d", subject.Credits),
			"Type":         string(subject.Type),
			"Internal":     fmt.Sprintf("%d", subject.InternalMarks),
			"External":     fmt.Sprintf("%d", subject.ExternalMarks),
			"Obtained":     fmt.Sprintf("%d", subject.MarksObtained),
			"Max Marks":    fmt.Sprintf("%d", subject.TotalMarks),
			"Grade":        string(subject.Grade),
			"Grade Points": fmt.Sprintf("%d", subject.GradePoints),
		})
	}
	rows = append(rows, map[string]string{
		"Course Code":  "TOTAL",
		"Credits":      fmt.Sprintf("%d", agg.TotalCredits),
		"Obtained":     fmt.Sprintf("%d", agg.TotalMarksObtained),
		"Max Marks":    fmt.Sprintf("%d", agg.TotalMarks),
		"Grade":        string(agg.OverallGrade),
		"Grade Points": fmt.Sprintf("SGPA %.2f / %d%%", agg.SGPA, agg.Percentage),
	})
	return export.Sheet{Name: name, Data: export.Dataset{Headers: marksheetHeaders, Rows: rows}}
}

func (s *ExportService) buildIndividualSheets(ctx context.Context, key repository.CohortKey, rollNumber string) ([]export.Sheet, string, error) {
	agg, err := s.results.Get(ctx, key, rollNumber)
	if err != nil {
		return nil, "", err
	}
	title := fmt.Sprintf("Marksheet %s %s", agg.Student.RollNumber, key.Examination)
	return []export.Sheet{marksheetSheet("Marksheet", *agg)}, title, nil
}

func (s *ExportService) buildCombinedSheets(ctx context.Context, key repository.CohortKey) ([]export.Sheet, string, error) {
	cohort, err := s.results.List(ctx, key)
	if err != nil {
		return nil, "", err
	}
	if len(cohort) == 0 {
		return nil, "", fmt.Errorf("cohort %s %s is empty", key.Class, key.Examination)
	}
	sheets := make([]export.Sheet, 0, len(cohort))
	for _, agg := range cohort {
		sheets = append(sheets, marksheetSheet(sanitizeFilename(agg.Student.RollNumber), agg))
	}
	title := fmt.Sprintf("Marksheets %s %s", key.Class, key.Examination)
	return sheets, title, nil
}

func (s *ExportService) buildSummarySheets(ctx context.Context, key repository.CohortKey) ([]export.Sheet, string, error) {
	ranked, err := s.results.Rankings(ctx, key)
	if err != nil {
		return nil, "", err
	}
	stats, _, err := s.stats.Summary(ctx, key)
	if err != nil {
		return nil, "", err
	}

	rankingRows := make([]map[string]string, 0, len(ranked))
	for _, agg := range ranked {
		rankingRows = append(rankingRows, map[string]string{
			"Rank":        fmt.Sprintf("%d", agg.Rank),
			"Roll Number": agg.Student.RollNumber,
			"Name":        agg.Student.Name,
			"SGPA":        fmt.Sprintf("%.2f", agg.SGPA),
			"Percentage":  fmt.Sprintf("%d", agg.Percentage),
			"Grade":       string(agg.OverallGrade),
		})
	}
	rankings := export.Sheet{Name: "Rankings", Data: export.Dataset{
		Headers: []string{"Rank", "Roll Number", "Name", "SGPA", "Percentage", "Grade"},
		Rows:    rankingRows,
	}}

	statRows := []map[string]string{
		{"Metric": "Total Students", "Value": fmt.Sprintf("%d", stats.TotalStudents)},
		{"Metric": "Average SGPA", "Value": fmt.Sprintf("%.2f", stats.AverageSGPA)},
		{"Metric": "Average Percentage", "Value": fmt.Sprintf("%.2f", stats.AveragePercentage)},
		{"Metric": "Pass Percentage", "Value": fmt.Sprintf("%.2f", stats.PassPercentage)},
	}
	for _, bucket := range stats.GradeHistogram {
		statRows = append(statRows, map[string]string{
			"Metric": fmt.Sprintf("Grade %s", bucket.Grade),
			"Value":  fmt.Sprintf("%d", bucket.Count),
		})
	}
	for _, avg := range stats.SubjectAverages {
		statRows = append(statRows, map[string]string{
			"Metric": fmt.Sprintf("Average %s", avg.Subject),
			"Value":  fmt.Sprintf("%.2f (%d students)", avg.Average, avg.Students),
		})
	}
	statistics := export.Sheet{Name: "Statistics", Data: export.Dataset{
		Headers: []string{"Metric", "Value"},
		Rows:    statRows,
	}}

	title := fmt.Sprintf("Summary %s %s", key.Class, key.Examination)
	return []export.Sheet{rankings, statistics}, title, nil
}

func (s *ExportService) buildComparisonSheets(ctx context.Context, key repository.CohortKey) ([]export.Sheet, string, error) {
	table, _, err := s.stats.Comparison(ctx, key)
	if err != nil {
		return nil, "", err
	}

	headers := make([]string, 0, len(table.Students)+2)
	headers = append(headers, "Subject")
	for _, student := range table.Students {
		headers = append(headers, student.RollNumber)
	}
	headers = append(headers, "Class Average")

	rows := make([]map[string]string, 0, len(table.Subjects)+4)
	for _, subject := range table.Subjects {
		row := map[string]string{"Subject": subject.Subject, "Class Average": fmt.Sprintf("%.2f", subject.ClassAverage)}
		for i, student := range table.Students {
			if subject.Marks[i] == nil {
				row[student.RollNumber] = "-"
				continue
			}
			row[student.RollNumber] = fmt.Sprintf("%d", *subject.Marks[i])
		}
		rows = append(rows, row)
	}

	sgpaRow := map[string]string{"Subject": "SGPA", "Class Average": fmt.Sprintf("%.2f", table.AverageSGPA)}
	pctRow := map[string]string{"Subject": "Percentage", "Class Average": fmt.Sprintf("%.2f", table.AveragePercentage)}
	gradeRow := map[string]string{"Subject": "Grade", "Class Average": string(table.ModalGrade)}
	for i, student := range table.Students {
		sgpaRow[student.RollNumber] = fmt.Sprintf("%.2f", table.SGPAs[i])
		pctRow[student.RollNumber] = fmt.Sprintf("%d", table.Percentages[i])
		gradeRow[student.RollNumber] = string(table.Grades[i])
	}
	rows = append(rows, sgpaRow, pctRow, gradeRow)

	sheet := export.Sheet{Name: "Comparison", Data: export.Dataset{Headers: headers, Rows: rows}}
	title := fmt.Sprintf("Comparison %s %s", key.Class, key.Examination)
	return []export.Sheet{sheet}, title, nil
}
