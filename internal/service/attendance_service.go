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
	"github.com/campushq/school-records-api/internal/stats"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
)

type attendanceRepository interface {
	ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.Attendance, error)
	FindByID(ctx context.Context, id int64) (*models.Attendance, error)
	Upsert(ctx context.Context, record *models.Attendance) (*models.Attendance, error)
	Update(ctx context.Context, id int64, patch models.AttendancePatch) (*models.Attendance, error)
	Delete(ctx context.Context, id int64) (*models.Attendance, error)
}

// MarkAttendanceRequest records presence for one enrollment on one date.
type MarkAttendanceRequest struct {
	EnrollmentID int64     `json:"enrollment_id" validate:"required"`
	Date         time.Time `json:"date" validate:"required"`
	IsPresent    bool      `json:"is_present"`
	Remarks      *string   `json:"remarks"`
}

// UpdateAttendanceRequest is a merge-patch: absent fields stay untouched.
type UpdateAttendanceRequest struct {
	Date      *time.Time `json:"date"`
	IsPresent *bool      `json:"is_present"`
	Remarks   *string    `json:"remarks"`
}

// AttendanceRegister pairs an enrollment's attendance rows with the
// derived attendance rate.
type AttendanceRegister struct {
	Records []models.Attendance `json:"records"`
	Rate    float64             `json:"rate"`
}

// AttendanceService orchestrates attendance operations.
type AttendanceService struct {
	repo      attendanceRepository
	validator *validator.Validate
	publisher events.Publisher
	logger    *zap.Logger
}

// NewAttendanceService constructs AttendanceService.
func NewAttendanceService(repo attendanceRepository, validate *validator.Validate, publisher events.Publisher, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, validator: validate, publisher: publisher, logger: logger}
}

// ListByEnrollment returns attendance with the derived rate.
func (s *AttendanceService) ListByEnrollment(ctx context.Context, enrollmentID int64) (*AttendanceRegister, error) {
	records, err := s.repo.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		s.logger.Error("list attendance failed", zap.Int64("enrollment_id", enrollmentID), zap.Error(err))
		return nil, opError("list attendance", err)
	}
	return &AttendanceRegister{Records: records, Rate: stats.AttendanceRate(records)}, nil
}

// Get returns the attendance row with the given id.
func (s *AttendanceService) Get(ctx context.Context, id int64) (*models.Attendance, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		s.logger.Error("get attendance failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("get attendance", err)
	}
	return record, nil
}

// Mark records presence for (enrollment, date). Calling it again for the
// same day updates the existing row in place: an idempotent upsert keyed
// on the tuple, not the primary key.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	record := &models.Attendance{
		EnrollmentID: req.EnrollmentID,
		Date:         dateOnly(req.Date),
		IsPresent:    req.IsPresent,
		Remarks:      req.Remarks,
	}
	stored, err := s.repo.Upsert(ctx, record)
	if err != nil {
		s.logger.Error("mark attendance failed",
			zap.Int64("enrollment_id", req.EnrollmentID),
			zap.Time("date", record.Date),
			zap.Error(err))
		return nil, opError("mark attendance", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityAttendance, ID: stored.ID, Action: events.ActionUpdated})
	return stored, nil
}

// Update applies a merge-patch to an existing attendance row.
func (s *AttendanceService) Update(ctx context.Context, id int64, req UpdateAttendanceRequest) (*models.Attendance, error) {
	patch := models.AttendancePatch{
		IsPresent: req.IsPresent,
		Remarks:   req.Remarks,
	}
	if req.Date != nil {
		normalized := dateOnly(*req.Date)
		patch.Date = &normalized
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		s.logger.Error("update attendance failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("update attendance", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityAttendance, ID: id, Action: events.ActionUpdated})
	return updated, nil
}

// Delete removes an attendance row and returns its prior state.
func (s *AttendanceService) Delete(ctx context.Context, id int64) (*models.Attendance, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		s.logger.Error("delete attendance failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("delete attendance", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityAttendance, ID: id, Action: events.ActionDeleted})
	return deleted, nil
}
