package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/school-records-api/internal/events"
	"github.com/campushq/school-records-api/internal/models"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
)

type departmentRepository interface {
	List(ctx context.Context) ([]models.Department, error)
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	Create(ctx context.Context, dept *models.Department) (*models.Department, error)
	Update(ctx context.Context, id int64, patch models.DepartmentPatch) (*models.Department, error)
	Delete(ctx context.Context, id int64) (*models.Department, error)
}

type departmentFacultyLister interface {
	ListByDepartment(ctx context.Context, departmentID int64) ([]models.Faculty, error)
}

type departmentCourseLister interface {
	ListByDepartment(ctx context.Context, departmentID int64) ([]models.Course, error)
}

// CreateDepartmentRequest describes department creation input.
type CreateDepartmentRequest struct {
	Name        string  `json:"name" validate:"required"`
	Code        string  `json:"code" validate:"required,max=10"`
	Description *string `json:"description"`
}

// UpdateDepartmentRequest is a merge-patch: absent fields stay untouched.
type UpdateDepartmentRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Code        *string `json:"code" validate:"omitempty,min=1,max=10"`
	Description *string `json:"description"`
}

// DepartmentService orchestrates department operations.
type DepartmentService struct {
	repo      departmentRepository
	faculties departmentFacultyLister
	courses   departmentCourseLister
	validator *validator.Validate
	publisher events.Publisher
	logger    *zap.Logger
}

// NewDepartmentService constructs DepartmentService.
func NewDepartmentService(repo departmentRepository, faculties departmentFacultyLister, courses departmentCourseLister, validate *validator.Validate, publisher events.Publisher, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = validator.New()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, faculties: faculties, courses: courses, validator: validate, publisher: publisher, logger: logger}
}

// List returns all departments ordered by name.
func (s *DepartmentService) List(ctx context.Context) ([]models.Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("list departments failed", zap.Error(err))
		return nil, opError("list departments", err)
	}
	return departments, nil
}

// Get returns one department with its faculty and courses eagerly loaded.
func (s *DepartmentService) Get(ctx context.Context, id int64) (*models.DepartmentDetail, error) {
	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		s.logger.Error("get department failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("get department", err)
	}
	faculties, err := s.faculties.ListByDepartment(ctx, id)
	if err != nil {
		return nil, opError("get department", err)
	}
	courses, err := s.courses.ListByDepartment(ctx, id)
	if err != nil {
		return nil, opError("get department", err)
	}
	return &models.DepartmentDetail{Department: *dept, Faculties: faculties, Courses: courses}, nil
}

// Create validates and inserts a department.
func (s *DepartmentService) Create(ctx context.Context, req CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	created, err := s.repo.Create(ctx, &models.Department{Name: req.Name, Code: req.Code, Description: req.Description})
	if err != nil {
		s.logger.Error("create department failed", zap.String("code", req.Code), zap.Error(err))
		return nil, opError("create department", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityDepartment, ID: created.ID, Action: events.ActionCreated})
	return created, nil
}

// Update applies a merge-patch to an existing department.
func (s *DepartmentService) Update(ctx context.Context, id int64, req UpdateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	patch := models.DepartmentPatch{Name: req.Name, Code: req.Code, Description: req.Description}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		s.logger.Error("update department failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("update department", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityDepartment, ID: id, Action: events.ActionUpdated})
	return updated, nil
}

// Delete removes a department and returns its prior state. Dependent
// faculty and courses survive with their department reference cleared.
func (s *DepartmentService) Delete(ctx context.Context, id int64) (*models.Department, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		s.logger.Error("delete department failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("delete department", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityDepartment, ID: id, Action: events.ActionDeleted})
	return deleted, nil
}
