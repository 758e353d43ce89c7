package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-records-api/internal/models"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
)

type attendanceDayKey struct {
	enrollmentID int64
	date         string
}

type mockAttendanceRepo struct {
	records map[int64]models.Attendance
	byDay   map[attendanceDayKey]int64
	nextID  int64
}

func (m *mockAttendanceRepo) ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.Attendance, error) {
	var list []models.Attendance
	for _, r := range m.records {
		if r.EnrollmentID == enrollmentID {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *mockAttendanceRepo) FindByID(ctx context.Context, id int64) (*models.Attendance, error) {
	if r, ok := m.records[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceRepo) Upsert(ctx context.Context, record *models.Attendance) (*models.Attendance, error) {
	if m.records == nil {
		m.records = make(map[int64]models.Attendance)
	}
	if m.byDay == nil {
		m.byDay = make(map[attendanceDayKey]int64)
	}
	key := attendanceDayKey{record.EnrollmentID, record.Date.Format(time.DateOnly)}
	if id, ok := m.byDay[key]; ok {
		existing := m.records[id]
		existing.IsPresent = record.IsPresent
		existing.Remarks = record.Remarks
		m.records[id] = existing
		return &existing, nil
	}
	m.nextID++
	stored := *record
	stored.ID = m.nextID
	m.records[stored.ID] = stored
	m.byDay[key] = stored.ID
	return &stored, nil
}

func (m *mockAttendanceRepo) Update(ctx context.Context, id int64, patch models.AttendancePatch) (*models.Attendance, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if patch.Date != nil {
		r.Date = *patch.Date
	}
	if patch.IsPresent != nil {
		r.IsPresent = *patch.IsPresent
	}
	if patch.Remarks != nil {
		r.Remarks = patch.Remarks
	}
	m.records[id] = r
	return &r, nil
}

func (m *mockAttendanceRepo) Delete(ctx context.Context, id int64) (*models.Attendance, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(m.records, id)
	return &r, nil
}

func TestAttendanceServiceMarkNormalizesDate(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(repo, nil, nil, nil)

	loc := time.FixedZone("UTC+7", 7*3600)
	stored, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		EnrollmentID: 4,
		Date:         time.Date(2025, 9, 1, 14, 30, 0, 0, loc),
		IsPresent:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), stored.Date)
}

func TestAttendanceServiceMarkSameDayOverwrites(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(repo, nil, nil, nil)

	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	first, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		EnrollmentID: 4, Date: day, IsPresent: true,
	})
	require.NoError(t, err)

	remarks := "left early"
	second, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		EnrollmentID: 4, Date: day, IsPresent: false, Remarks: &remarks,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.IsPresent)
	assert.Len(t, repo.records, 1)
}

func TestAttendanceServiceListByEnrollmentComputesRate(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(repo, nil, nil, nil)

	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
			EnrollmentID: 4,
			Date:         day.AddDate(0, 0, i),
			IsPresent:    i != 0, // absent on the first day only
		})
		require.NoError(t, err)
	}

	register, err := svc.ListByEnrollment(context.Background(), 4)
	require.NoError(t, err)
	assert.Len(t, register.Records, 5)
	assert.Equal(t, 80.0, register.Rate)
}

func TestAttendanceServiceListByEnrollmentEmpty(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, nil, nil, nil)

	register, err := svc.ListByEnrollment(context.Background(), 4)
	require.NoError(t, err)
	assert.Empty(t, register.Records)
	assert.Equal(t, 0.0, register.Rate)
}

func TestAttendanceServiceUpdateNotFound(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, nil, nil, nil)

	present := true
	_, err := svc.Update(context.Background(), 9, UpdateAttendanceRequest{IsPresent: &present})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
