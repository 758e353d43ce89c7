package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/school-records-api/internal/events"
	"github.com/campushq/school-records-api/internal/models"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
)

type facultyRepository interface {
	List(ctx context.Context) ([]models.FacultyDetail, error)
	FindByID(ctx context.Context, id int64) (*models.FacultyDetail, error)
	Create(ctx context.Context, faculty *models.Faculty) (*models.Faculty, error)
	Update(ctx context.Context, id int64, patch models.FacultyPatch) (*models.Faculty, error)
	Delete(ctx context.Context, id int64) (*models.Faculty, error)
}

// CreateFacultyRequest describes faculty creation input.
type CreateFacultyRequest struct {
	FirstName    string    `json:"first_name" validate:"required"`
	LastName     string    `json:"last_name" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	Phone        *string   `json:"phone"`
	DepartmentID *int64    `json:"department_id"`
	Designation  *string   `json:"designation"`
	JoinDate     time.Time `json:"join_date" validate:"required"`
	IsActive     *bool     `json:"is_active"`
}

// UpdateFacultyRequest is a merge-patch: absent fields stay untouched.
type UpdateFacultyRequest struct {
	FirstName    *string    `json:"first_name" validate:"omitempty,min=1"`
	LastName     *string    `json:"last_name" validate:"omitempty,min=1"`
	Email        *string    `json:"email" validate:"omitempty,email"`
	Phone        *string    `json:"phone"`
	DepartmentID *int64     `json:"department_id"`
	Designation  *string    `json:"designation"`
	JoinDate     *time.Time `json:"join_date"`
	IsActive     *bool      `json:"is_active"`
}

// FacultyService orchestrates faculty operations.
type FacultyService struct {
	repo      facultyRepository
	validator *validator.Validate
	publisher events.Publisher
	logger    *zap.Logger
}

// NewFacultyService constructs FacultyService.
func NewFacultyService(repo facultyRepository, validate *validator.Validate, publisher events.Publisher, logger *zap.Logger) *FacultyService {
	if validate == nil {
		validate = validator.New()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{repo: repo, validator: validate, publisher: publisher, logger: logger}
}

// List returns all faculty with department names, ordered by last name.
func (s *FacultyService) List(ctx context.Context) ([]models.FacultyDetail, error) {
	faculties, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("list faculties failed", zap.Error(err))
		return nil, opError("list faculties", err)
	}
	return faculties, nil
}

// Get returns one faculty member.
func (s *FacultyService) Get(ctx context.Context, id int64) (*models.FacultyDetail, error) {
	faculty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		s.logger.Error("get faculty failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("get faculty", err)
	}
	return faculty, nil
}

// Create validates and inserts a faculty member. The join date is stored
// as a calendar date.
func (s *FacultyService) Create(ctx context.Context, req CreateFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	faculty := &models.Faculty{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		DepartmentID: req.DepartmentID,
		Designation:  req.Designation,
		JoinDate:     dateOnly(req.JoinDate),
		IsActive:     active,
	}
	created, err := s.repo.Create(ctx, faculty)
	if err != nil {
		s.logger.Error("create faculty failed", zap.String("email", req.Email), zap.Error(err))
		return nil, opError("create faculty", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityFaculty, ID: created.ID, Action: events.ActionCreated})
	return created, nil
}

// Update applies a merge-patch to an existing faculty member.
func (s *FacultyService) Update(ctx context.Context, id int64, req UpdateFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}
	patch := models.FacultyPatch{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		DepartmentID: req.DepartmentID,
		Designation:  req.Designation,
		IsActive:     req.IsActive,
	}
	if req.JoinDate != nil {
		normalized := dateOnly(*req.JoinDate)
		patch.JoinDate = &normalized
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		s.logger.Error("update faculty failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("update faculty", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityFaculty, ID: id, Action: events.ActionUpdated})
	return updated, nil
}

// Delete removes a faculty member and returns their prior state. Courses
// they taught survive with the instructor reference cleared.
func (s *FacultyService) Delete(ctx context.Context, id int64) (*models.Faculty, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		s.logger.Error("delete faculty failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("delete faculty", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityFaculty, ID: id, Action: events.ActionDeleted})
	return deleted, nil
}
