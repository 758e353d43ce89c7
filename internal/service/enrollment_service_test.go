package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-records-api/internal/events"
	"github.com/campushq/school-records-api/internal/models"
	"github.com/campushq/school-records-api/internal/repository"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
)

type enrollmentKey struct {
	studentID int64
	courseID  int64
	semester  models.Semester
	year      int
}

type mockEnrollmentRepo struct {
	enrollments map[int64]models.Enrollment
	existing    map[enrollmentKey]bool
	nextID      int64
	created     []models.Enrollment
}

func (m *mockEnrollmentRepo) List(ctx context.Context, filter repository.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	return nil, nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	if e, ok := m.enrollments[id]; ok {
		return &models.EnrollmentDetail{Enrollment: e}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) Exists(ctx context.Context, studentID, courseID int64, semester models.Semester, year int) (bool, error) {
	return m.existing[enrollmentKey{studentID, courseID, semester, year}], nil
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error) {
	if m.enrollments == nil {
		m.enrollments = make(map[int64]models.Enrollment)
	}
	if m.existing == nil {
		m.existing = make(map[enrollmentKey]bool)
	}
	m.nextID++
	stored := *enrollment
	stored.ID = m.nextID
	m.enrollments[stored.ID] = stored
	m.existing[enrollmentKey{stored.StudentID, stored.CourseID, stored.Semester, stored.Year}] = true
	m.created = append(m.created, stored)
	return &stored, nil
}

func (m *mockEnrollmentRepo) UpdateGrade(ctx context.Context, id int64, grade models.Grade) (*models.Enrollment, error) {
	e, ok := m.enrollments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	e.Grade = &grade
	m.enrollments[id] = e
	return &e, nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, id int64) (*models.Enrollment, error) {
	e, ok := m.enrollments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(m.enrollments, id)
	return &e, nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(event events.Event) {
	p.events = append(p.events, event)
}

func TestEnrollmentServiceEnroll(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	publisher := &recordingPublisher{}
	svc := NewEnrollmentService(repo, nil, publisher, nil)

	created, err := svc.Enroll(context.Background(), EnrollStudentRequest{
		StudentID: 7, CourseID: 3, Semester: models.SemesterFall, Year: 2025,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.StudentID)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.EntityEnrollment, publisher.events[0].Entity)
	assert.Equal(t, events.ActionCreated, publisher.events[0].Action)
}

func TestEnrollmentServiceEnrollRejectsDuplicate(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, nil, nil, nil)

	req := EnrollStudentRequest{StudentID: 7, CourseID: 3, Semester: models.SemesterFall, Year: 2025}
	_, err := svc.Enroll(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Len(t, repo.created, 1)
}

func TestEnrollmentServiceEnrollSameCourseDifferentSemester(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, nil, nil, nil)

	_, err := svc.Enroll(context.Background(), EnrollStudentRequest{
		StudentID: 7, CourseID: 3, Semester: models.SemesterFall, Year: 2025,
	})
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), EnrollStudentRequest{
		StudentID: 7, CourseID: 3, Semester: models.SemesterSpring, Year: 2026,
	})
	require.NoError(t, err)
	assert.Len(t, repo.created, 2)
}

func TestEnrollmentServiceEnrollValidatesSemester(t *testing.T) {
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, nil, nil, nil)

	_, err := svc.Enroll(context.Background(), EnrollStudentRequest{
		StudentID: 7, CourseID: 3, Semester: "Winter", Year: 2025,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceBulkEnrollIsolatesFailures(t *testing.T) {
	repo := &mockEnrollmentRepo{
		existing: map[enrollmentKey]bool{
			{8, 3, models.SemesterFall, 2025}: true,
		},
	}
	svc := NewEnrollmentService(repo, nil, nil, nil)

	results, err := svc.BulkEnroll(context.Background(), BulkEnrollRequest{
		StudentIDs: []int64{7, 8, 9},
		CourseID:   3,
		Semester:   models.SemesterFall,
		Year:       2025,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NotNil(t, results[0].Enrollment)
	assert.Empty(t, results[0].Error)

	assert.Nil(t, results[1].Enrollment)
	assert.NotEmpty(t, results[1].Error)

	assert.NotNil(t, results[2].Enrollment)
	assert.Len(t, repo.created, 2)
}

func TestEnrollmentServiceUpdateGrade(t *testing.T) {
	repo := &mockEnrollmentRepo{
		enrollments: map[int64]models.Enrollment{
			1: {ID: 1, StudentID: 7, CourseID: 3, Semester: models.SemesterFall, Year: 2025},
		},
	}
	publisher := &recordingPublisher{}
	svc := NewEnrollmentService(repo, nil, publisher, nil)

	updated, err := svc.UpdateGrade(context.Background(), 1, UpdateGradeRequest{Grade: models.GradeB})
	require.NoError(t, err)
	require.NotNil(t, updated.Grade)
	assert.Equal(t, models.GradeB, *updated.Grade)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.ActionUpdated, publisher.events[0].Action)
}

func TestEnrollmentServiceUpdateGradeRejectsUnknownLetter(t *testing.T) {
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, nil, nil, nil)

	_, err := svc.UpdateGrade(context.Background(), 1, UpdateGradeRequest{Grade: "E"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceGetNotFound(t *testing.T) {
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, nil, nil, nil)

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceDeleteReturnsPriorState(t *testing.T) {
	repo := &mockEnrollmentRepo{
		enrollments: map[int64]models.Enrollment{
			1: {ID: 1, StudentID: 7, CourseID: 3, Semester: models.SemesterFall, Year: 2025},
		},
	}
	svc := NewEnrollmentService(repo, nil, nil, nil)

	deleted, err := svc.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted.StudentID)
	assert.Empty(t, repo.enrollments)
}
