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

type enrollmentRepository interface {
	List(ctx context.Context, filter repository.EnrollmentFilter) ([]models.EnrollmentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
	FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	Exists(ctx context.Context, studentID, courseID int64, semester models.Semester, year int) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error)
	UpdateGrade(ctx context.Context, id int64, grade models.Grade) (*models.Enrollment, error)
	Delete(ctx context.Context, id int64) (*models.Enrollment, error)
}

// EnrollStudentRequest describes enrollment creation input.
type EnrollStudentRequest struct {
	StudentID int64           `json:"student_id" validate:"required"`
	CourseID  int64           `json:"course_id" validate:"required"`
	Semester  models.Semester `json:"semester" validate:"required,oneof=Fall Spring Summer"`
	Year      int             `json:"year" validate:"required,gte=1900"`
}

// BulkEnrollRequest enrolls several students into one course at once.
type BulkEnrollRequest struct {
	StudentIDs []int64         `json:"student_ids" validate:"required,min=1"`
	CourseID   int64           `json:"course_id" validate:"required"`
	Semester   models.Semester `json:"semester" validate:"required,oneof=Fall Spring Summer"`
	Year       int             `json:"year" validate:"required,gte=1900"`
}

// BulkEnrollResult reports the per-student outcome of a bulk enrollment.
// Failures are isolated: one student's rejection never aborts the rest.
type BulkEnrollResult struct {
	StudentID  int64              `json:"student_id"`
	Enrollment *models.Enrollment `json:"enrollment,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// UpdateGradeRequest sets the letter grade for an enrollment.
type UpdateGradeRequest struct {
	Grade models.Grade `json:"grade" validate:"required,oneof=A B C D F I W"`
}

// EnrollmentService orchestrates enrollment workflows.
//
// Duplicate policy: a second enrollment for the same (student, course,
// semester, year) tuple is REJECTED with a conflict error. The check runs
// before the insert, and the schema's unique index backs it against
// concurrent writers.
type EnrollmentService struct {
	repo      enrollmentRepository
	validator *validator.Validate
	publisher events.Publisher
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, validate *validator.Validate, publisher events.Publisher, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, validator: validate, publisher: publisher, logger: logger}
}

// List returns enrollments matching the filter with student and course names.
func (s *EnrollmentService) List(ctx context.Context, filter repository.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list enrollments failed", zap.Error(err))
		return nil, opError("list enrollments", err)
	}
	return enrollments, nil
}

// Get returns one enrollment with student and course context.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		s.logger.Error("get enrollment failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("get enrollment", err)
	}
	return detail, nil
}

// Enroll registers a student in a course for a semester and year. A
// duplicate tuple is rejected with a conflict error.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollStudentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	exists, err := s.repo.Exists(ctx, req.StudentID, req.CourseID, req.Semester, req.Year)
	if err != nil {
		return nil, opError("enroll student", err)
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student is already enrolled in this course for this semester")
	}
	enrollment := &models.Enrollment{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Semester:  req.Semester,
		Year:      req.Year,
	}
	created, err := s.repo.Create(ctx, enrollment)
	if err != nil {
		// A concurrent writer may have taken the tuple between the check
		// and the insert; the unique index reports it here.
		s.logger.Error("enroll student failed",
			zap.Int64("student_id", req.StudentID),
			zap.Int64("course_id", req.CourseID),
			zap.Error(err))
		return nil, opError("enroll student", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityEnrollment, ID: created.ID, Action: events.ActionCreated})
	return created, nil
}

// BulkEnroll enrolls each listed student into the course, isolating
// failures per student and reporting them individually.
func (s *EnrollmentService) BulkEnroll(ctx context.Context, req BulkEnrollRequest) ([]BulkEnrollResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk enrollment payload")
	}
	results := make([]BulkEnrollResult, 0, len(req.StudentIDs))
	for _, studentID := range req.StudentIDs {
		enrollment, err := s.Enroll(ctx, EnrollStudentRequest{
			StudentID: studentID,
			CourseID:  req.CourseID,
			Semester:  req.Semester,
			Year:      req.Year,
		})
		result := BulkEnrollResult{StudentID: studentID}
		if err != nil {
			result.Error = appErrors.FromError(err).Message
		} else {
			result.Enrollment = enrollment
		}
		results = append(results, result)
	}
	return results, nil
}

// UpdateGrade sets the letter grade, restricted to the fixed enumeration.
func (s *EnrollmentService) UpdateGrade(ctx context.Context, id int64, req UpdateGradeRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	updated, err := s.repo.UpdateGrade(ctx, id, req.Grade)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		s.logger.Error("update grade failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("update grade", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityEnrollment, ID: id, Action: events.ActionUpdated})
	return updated, nil
}

// Delete removes an enrollment and returns its prior state. Marks and
// attendance under it are cascade-deleted.
func (s *EnrollmentService) Delete(ctx context.Context, id int64) (*models.Enrollment, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		s.logger.Error("delete enrollment failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("delete enrollment", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityEnrollment, ID: id, Action: events.ActionDeleted})
	return deleted, nil
}
