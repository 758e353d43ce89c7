package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-records-api/internal/models"
)

const attendanceColumns = "a.id, a.enrollment_id, a.date, a.is_present, a.remarks, a.created_at, a.updated_at"

// AttendanceRepository manages persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByEnrollment returns attendance rows for an enrollment ordered by date.
func (r *AttendanceRepository) ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.Attendance, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance a WHERE a.enrollment_id = $1 ORDER BY a.date ASC", attendanceColumns)
	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// FindByID returns the attendance row with the given id.
func (r *AttendanceRepository) FindByID(ctx context.Context, id int64) (*models.Attendance, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance a WHERE a.id = $1", attendanceColumns)
	var record models.Attendance
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert inserts or updates the attendance row keyed on (enrollment, date).
// A repeated call for the same day overwrites presence and remarks in place.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.Attendance) (*models.Attendance, error) {
	query := fmt.Sprintf(`INSERT INTO attendance AS a (enrollment_id, date, is_present, remarks)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (enrollment_id, date)
        DO UPDATE SET is_present = EXCLUDED.is_present, remarks = EXCLUDED.remarks, updated_at = now()
        RETURNING %s`, attendanceColumns)
	var stored models.Attendance
	if err := r.db.GetContext(ctx, &stored, query,
		record.EnrollmentID, record.Date, record.IsPresent, record.Remarks); err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	return &stored, nil
}

// Update applies only the supplied fields and refreshes updated_at.
func (r *AttendanceRepository) Update(ctx context.Context, id int64, patch models.AttendancePatch) (*models.Attendance, error) {
	var sets []string
	var args []interface{}

	if patch.Date != nil {
		sets = append(sets, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, *patch.Date)
	}
	if patch.IsPresent != nil {
		sets = append(sets, fmt.Sprintf("is_present = $%d", len(args)+1))
		args = append(args, *patch.IsPresent)
	}
	if patch.Remarks != nil {
		sets = append(sets, fmt.Sprintf("remarks = $%d", len(args)+1))
		args = append(args, *patch.Remarks)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE attendance AS a SET %s WHERE a.id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), attendanceColumns)
	var updated models.Attendance
	if err := r.db.GetContext(ctx, &updated, query, args...); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the attendance row and returns its prior state.
func (r *AttendanceRepository) Delete(ctx context.Context, id int64) (*models.Attendance, error) {
	query := fmt.Sprintf("DELETE FROM attendance AS a WHERE a.id = $1 RETURNING %s", attendanceColumns)
	var deleted models.Attendance
	if err := r.db.GetContext(ctx, &deleted, query, id); err != nil {
		return nil, err
	}
	return &deleted, nil
}
