package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/school-records-api/internal/events"
	"github.com/campushq/school-records-api/internal/models"
	"github.com/campushq/school-records-api/internal/repository"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.CourseDetail, error)
	FindByID(ctx context.Context, id int64) (*models.CourseDetail, error)
	Create(ctx context.Context, course *models.Course) (*models.Course, error)
	Update(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error)
	Delete(ctx context.Context, id int64) (*models.Course, error)
}

type courseEnrollmentLister interface {
	List(ctx context.Context, filter repository.EnrollmentFilter) ([]models.EnrollmentDetail, error)
}

// CreateCourseRequest describes course creation input.
type CreateCourseRequest struct {
	Code         string  `json:"code" validate:"required,max=10"`
	Name         string  `json:"name" validate:"required"`
	Description  *string `json:"description"`
	Credits      int     `json:"credits" validate:"required,gt=0"`
	DepartmentID *int64  `json:"department_id"`
	FacultyID    *int64  `json:"faculty_id"`
	IsActive     *bool   `json:"is_active"`
}

// UpdateCourseRequest is a merge-patch: absent fields stay untouched.
type UpdateCourseRequest struct {
	Code         *string `json:"code" validate:"omitempty,min=1,max=10"`
	Name         *string `json:"name" validate:"omitempty,min=1"`
	Description  *string `json:"description"`
	Credits      *int    `json:"credits" validate:"omitempty,gt=0"`
	DepartmentID *int64  `json:"department_id"`
	FacultyID    *int64  `json:"faculty_id"`
	IsActive     *bool   `json:"is_active"`
}

// CourseDetailWithRoster is the eagerly loaded form returned by get-by-id.
type CourseDetailWithRoster struct {
	models.CourseDetail
	Enrollments []models.EnrollmentDetail `json:"enrollments"`
}

// CourseService orchestrates course operations.
type CourseService struct {
	repo        courseRepository
	enrollments courseEnrollmentLister
	validator   *validator.Validate
	publisher   events.Publisher
	logger      *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(repo courseRepository, enrollments courseEnrollmentLister, validate *validator.Validate, publisher events.Publisher, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, enrollments: enrollments, validator: validate, publisher: publisher, logger: logger}
}

// List returns all courses with department and instructor names.
func (s *CourseService) List(ctx context.Context) ([]models.CourseDetail, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("list courses failed", zap.Error(err))
		return nil, opError("list courses", err)
	}
	return courses, nil
}

// Get returns one course with its enrollment roster eagerly loaded.
func (s *CourseService) Get(ctx context.Context, id int64) (*CourseDetailWithRoster, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		s.logger.Error("get course failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("get course", err)
	}
	roster, err := s.enrollments.List(ctx, repository.EnrollmentFilter{CourseID: id})
	if err != nil {
		return nil, opError("get course", err)
	}
	return &CourseDetailWithRoster{CourseDetail: *course, Enrollments: roster}, nil
}

// Create validates and inserts a course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	course := &models.Course{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		Credits:      req.Credits,
		DepartmentID: req.DepartmentID,
		FacultyID:    req.FacultyID,
		IsActive:     active,
	}
	created, err := s.repo.Create(ctx, course)
	if err != nil {
		s.logger.Error("create course failed", zap.String("code", req.Code), zap.Error(err))
		return nil, opError("create course", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityCourse, ID: created.ID, Action: events.ActionCreated})
	return created, nil
}

// Update applies a merge-patch to an existing course.
func (s *CourseService) Update(ctx context.Context, id int64, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	patch := models.CoursePatch{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		Credits:      req.Credits,
		DepartmentID: req.DepartmentID,
		FacultyID:    req.FacultyID,
		IsActive:     req.IsActive,
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		s.logger.Error("update course failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("update course", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityCourse, ID: id, Action: events.ActionUpdated})
	return updated, nil
}

// Delete removes a course and returns its prior state. Enrollments in the
// course are cascade-deleted along with their marks and attendance.
func (s *CourseService) Delete(ctx context.Context, id int64) (*models.Course, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		s.logger.Error("delete course failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("delete course", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityCourse, ID: id, Action: events.ActionDeleted})
	return deleted, nil
}
