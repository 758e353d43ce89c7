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
	"github.com/campushq/school-records-api/internal/repository"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.StudentSummary, error)
	FindByID(ctx context.Context, id int64) (*models.StudentSummary, error)
	Create(ctx context.Context, student *models.Student) (*models.Student, error)
	Update(ctx context.Context, id int64, patch models.StudentPatch) (*models.Student, error)
	Delete(ctx context.Context, id int64) (*models.Student, error)
}

type studentEnrollmentLister interface {
	List(ctx context.Context, filter repository.EnrollmentFilter) ([]models.EnrollmentDetail, error)
}

// CreateStudentRequest describes student creation input.
type CreateStudentRequest struct {
	FirstName      string     `json:"first_name" validate:"required"`
	LastName       string     `json:"last_name" validate:"required"`
	Email          string     `json:"email" validate:"required,email"`
	Phone          *string    `json:"phone"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Address        *string    `json:"address"`
	EnrollmentDate time.Time  `json:"enrollment_date" validate:"required"`
	DepartmentID   *int64     `json:"department_id"`
	IsActive       *bool      `json:"is_active"`
}

// UpdateStudentRequest is a merge-patch: absent fields stay untouched.
type UpdateStudentRequest struct {
	FirstName      *string    `json:"first_name" validate:"omitempty,min=1"`
	LastName       *string    `json:"last_name" validate:"omitempty,min=1"`
	Email          *string    `json:"email" validate:"omitempty,email"`
	Phone          *string    `json:"phone"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Address        *string    `json:"address"`
	EnrollmentDate *time.Time `json:"enrollment_date"`
	DepartmentID   *int64     `json:"department_id"`
	IsActive       *bool      `json:"is_active"`
}

// StudentService orchestrates student operations.
type StudentService struct {
	repo        studentRepository
	enrollments studentEnrollmentLister
	validator   *validator.Validate
	publisher   events.Publisher
	logger      *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(repo studentRepository, enrollments studentEnrollmentLister, validate *validator.Validate, publisher events.Publisher, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, enrollments: enrollments, validator: validate, publisher: publisher, logger: logger}
}

// List returns all students with department names, ordered by last name.
func (s *StudentService) List(ctx context.Context) ([]models.StudentSummary, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("list students failed", zap.Error(err))
		return nil, opError("list students", err)
	}
	return students, nil
}

// Get returns one student with department and enrollments (each carrying
// its course) eagerly loaded.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		s.logger.Error("get student failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("get student", err)
	}
	enrollments, err := s.enrollments.List(ctx, repository.EnrollmentFilter{StudentID: id})
	if err != nil {
		return nil, opError("get student", err)
	}
	return &models.StudentDetail{StudentSummary: *student, Enrollments: enrollments}, nil
}

// Create validates and inserts a student. Date fields are normalized to
// calendar dates.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	student := &models.Student{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		EnrollmentDate: dateOnly(req.EnrollmentDate),
		DepartmentID:   req.DepartmentID,
		IsActive:       active,
	}
	if req.DateOfBirth != nil {
		dob := dateOnly(*req.DateOfBirth)
		student.DateOfBirth = &dob
	}
	created, err := s.repo.Create(ctx, student)
	if err != nil {
		s.logger.Error("create student failed", zap.String("email", req.Email), zap.Error(err))
		return nil, opError("create student", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityStudent, ID: created.ID, Action: events.ActionCreated})
	return created, nil
}

// Update applies a merge-patch to an existing student.
func (s *StudentService) Update(ctx context.Context, id int64, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	patch := models.StudentPatch{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		DepartmentID: req.DepartmentID,
		IsActive:     req.IsActive,
	}
	if req.DateOfBirth != nil {
		dob := dateOnly(*req.DateOfBirth)
		patch.DateOfBirth = &dob
	}
	if req.EnrollmentDate != nil {
		enrolled := dateOnly(*req.EnrollmentDate)
		patch.EnrollmentDate = &enrolled
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		s.logger.Error("update student failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("update student", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityStudent, ID: id, Action: events.ActionUpdated})
	return updated, nil
}

// Delete removes a student and returns their prior state. Their
// enrollments are cascade-deleted along with marks and attendance.
func (s *StudentService) Delete(ctx context.Context, id int64) (*models.Student, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		s.logger.Error("delete student failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("delete student", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityStudent, ID: id, Action: events.ActionDeleted})
	return deleted, nil
}
