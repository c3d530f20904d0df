package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/marklytics/marksheet-api/internal/models"
)

// SubjectRepository handles persistence for the curriculum catalog.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

const subjectColumns = "id, course_code, name, credits, type, total_marks, external_only, created_at, updated_at"

// List returns catalog entries matching filters with pagination metadata.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDefinition, int, error) {
	base := "FROM subjects WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, strings.ToUpper(filter.Type))
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(course_code) LIKE $%d OR LOWER(name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "course_code"
	}
	allowedSorts := map[string]bool{
		"course_code": true,
		"name":        true,
		"credits":     true,
		"created_at":  true,
		"updated_at":  true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "course_code"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", subjectColumns, base, sortBy, order, size, offset)
	var subjects []models.SubjectDefinition
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}

	return subjects, total, nil
}

// FindByCode returns a catalog entry by its course code.
func (r *SubjectRepository) FindByCode(ctx context.Context, code string) (*models.SubjectDefinition, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE course_code = $1", subjectColumns)
	var subject models.SubjectDefinition
	if err := r.db.GetContext(ctx, &subject, query, code); err != nil {
		return nil, err
	}
	return &subject, nil
}

// FindByCodes returns catalog entries for the given course codes keyed by
// code. Missing codes are simply absent from the map.
func (r *SubjectRepository) FindByCodes(ctx context.Context, codes []string) (map[string]models.SubjectDefinition, error) {
	if len(codes) == 0 {
		return map[string]models.SubjectDefinition{}, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM subjects WHERE course_code IN (?)", subjectColumns), codes)
	if err != nil {
		return nil, fmt.Errorf("build subject lookup: %w", err)
	}
	query = r.db.Rebind(query)

	var subjects []models.SubjectDefinition
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, fmt.Errorf("lookup subjects: %w", err)
	}

	byCode := make(map[string]models.SubjectDefinition, len(subjects))
	for _, s := range subjects {
		byCode[s.CourseCode] = s
	}
	return byCode, nil
}

// ExistsByCode checks uniqueness of a course code.
func (r *SubjectRepository) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM subjects WHERE LOWER(course_code) = LOWER($1)"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}

// Create persists a new catalog entry.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.SubjectDefinition) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (id, course_code, name, credits, type, total_marks, external_only, created_at, updated_at) VALUES (:id, :course_code, :name, :credits, :type, :total_marks, :external_only, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update modifies a catalog entry.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.SubjectDefinition) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET course_code = :course_code, name = :name, credits = :credits, type = :type, total_marks = :total_marks, external_only = :external_only, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// Delete removes a catalog entry.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}
