package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/marklytics/marksheet-api/internal/models"
	appErrors "github.com/marklytics/marksheet-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDefinition, int, error)
	FindByCode(ctx context.Context, code string) (*models.SubjectDefinition, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, subject *models.SubjectDefinition) error
	Update(ctx context.Context, subject *models.SubjectDefinition) error
	Delete(ctx context.Context, id string) error
}

// CreateSubjectRequest captures fields for creating catalog entries.
type CreateSubjectRequest struct {
	CourseCode   string `json:"course_code" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Credits      int    `json:"credits" validate:"required,min=1,max=10"`
	Type         string `json:"type" validate:"required,oneof=THEORY LAB"`
	TotalMarks   int    `json:"total_marks" validate:"required,min=1"`
	ExternalOnly bool   `json:"external_only"`
}

// UpdateSubjectRequest modifies catalog entry fields.
type UpdateSubjectRequest struct {
	Name         string `json:"name" validate:"required"`
	Credits      int    `json:"credits" validate:"required,min=1,max=10"`
	Type         string `json:"type" validate:"required,oneof=THEORY LAB"`
	TotalMarks   int    `json:"total_marks" validate:"required,min=1"`
	ExternalOnly bool   `json:"external_only"`
}

// SubjectService handles curriculum catalog workflows.
type SubjectService struct {
	repo      subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated catalog entries.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDefinition, *models.Pagination, error) {
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return subjects, pagination, nil
}

// Get returns a catalog entry by course code.
func (s *SubjectService) Get(ctx context.Context, code string) (*models.SubjectDefinition, error) {
	subject, err := s.repo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// Create adds a new catalog entry ensuring course code uniqueness.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.SubjectDefinition, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	req.CourseCode = strings.ToUpper(strings.TrimSpace(req.CourseCode))

	exists, err := s.repo.ExistsByCode(ctx, req.CourseCode, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	}

	subject := &models.SubjectDefinition{
		CourseCode:   req.CourseCode,
		Name:         req.Name,
		Credits:      req.Credits,
		Type:         models.SubjectType(req.Type),
		TotalMarks:   req.TotalMarks,
		ExternalOnly: req.ExternalOnly,
	}

	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	return subject, nil
}

// Update modifies an existing catalog entry. The course code itself is
// immutable; stored raw scores reference it.
func (s *SubjectService) Update(ctx context.Context, code string, req UpdateSubjectRequest) (*models.SubjectDefinition, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	subject.Name = req.Name
	subject.Credits = req.Credits
	subject.Type = models.SubjectType(req.Type)
	subject.TotalMarks = req.TotalMarks
	subject.ExternalOnly = req.ExternalOnly

	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	return subject, nil
}

// Delete removes a catalog entry.
func (s *SubjectService) Delete(ctx context.Context, code string) error {
	subject, err := s.Get(ctx, code)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, subject.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	return nil
}
