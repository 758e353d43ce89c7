package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-records-api/internal/models"
)

func newAttendanceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func attendanceRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "enrollment_id", "date", "is_present", "remarks", "created_at", "updated_at"})
}

func TestAttendanceRepositoryListByEnrollment(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	rows := attendanceRows().
		AddRow(int64(1), int64(4), day, true, nil, time.Now(), time.Now()).
		AddRow(int64(2), int64(4), day.AddDate(0, 0, 1), false, "sick", time.Now(), time.Now())
	mock.ExpectQuery(`FROM attendance a WHERE a\.enrollment_id = \$1 ORDER BY a\.date ASC`).
		WithArgs(int64(4)).
		WillReturnRows(rows)

	records, err := repo.ListByEnrollment(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].IsPresent)
	assert.False(t, records[1].IsPresent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsertInsert(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO attendance AS a (.+) ON CONFLICT \(enrollment_id, date\)`).
		WithArgs(int64(4), day, true, nil).
		WillReturnRows(attendanceRows().AddRow(int64(1), int64(4), day, true, nil, time.Now(), time.Now()))

	stored, err := repo.Upsert(context.Background(), &models.Attendance{EnrollmentID: 4, Date: day, IsPresent: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsertOverwritesSameDay(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	remarks := "arrived late"
	mock.ExpectQuery(`DO UPDATE SET is_present = EXCLUDED\.is_present`).
		WithArgs(int64(4), day, false, remarks).
		WillReturnRows(attendanceRows().AddRow(int64(1), int64(4), day, false, remarks, time.Now(), time.Now()))

	stored, err := repo.Upsert(context.Background(), &models.Attendance{
		EnrollmentID: 4, Date: day, IsPresent: false, Remarks: &remarks,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ID)
	assert.False(t, stored.IsPresent)
	require.NotNil(t, stored.Remarks)
	assert.Equal(t, remarks, *stored.Remarks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("DELETE FROM attendance AS a WHERE").
		WithArgs(int64(1)).
		WillReturnRows(attendanceRows().AddRow(int64(1), int64(4), day, true, nil, time.Now(), time.Now()))

	deleted, err := repo.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted.EnrollmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
