package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-records-api/internal/events"
	"github.com/campushq/school-records-api/internal/models"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
)

type mockDepartmentRepo struct {
	departments map[int64]models.Department
	nextID      int64
	createErr   error
}

func (m *mockDepartmentRepo) List(ctx context.Context) ([]models.Department, error) {
	var list []models.Department
	for _, d := range m.departments {
		list = append(list, d)
	}
	return list, nil
}

func (m *mockDepartmentRepo) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	if d, ok := m.departments[id]; ok {
		return &d, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDepartmentRepo) Create(ctx context.Context, dept *models.Department) (*models.Department, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.departments == nil {
		m.departments = make(map[int64]models.Department)
	}
	m.nextID++
	stored := *dept
	stored.ID = m.nextID
	m.departments[stored.ID] = stored
	return &stored, nil
}

func (m *mockDepartmentRepo) Update(ctx context.Context, id int64, patch models.DepartmentPatch) (*models.Department, error) {
	d, ok := m.departments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.Code != nil {
		d.Code = *patch.Code
	}
	if patch.Description != nil {
		d.Description = patch.Description
	}
	m.departments[id] = d
	return &d, nil
}

func (m *mockDepartmentRepo) Delete(ctx context.Context, id int64) (*models.Department, error) {
	d, ok := m.departments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(m.departments, id)
	return &d, nil
}

type stubFacultyLister struct {
	byDepartment map[int64][]models.Faculty
}

func (s *stubFacultyLister) ListByDepartment(ctx context.Context, departmentID int64) ([]models.Faculty, error) {
	return s.byDepartment[departmentID], nil
}

type stubCourseLister struct {
	byDepartment map[int64][]models.Course
}

func (s *stubCourseLister) ListByDepartment(ctx context.Context, departmentID int64) ([]models.Course, error) {
	return s.byDepartment[departmentID], nil
}

func TestDepartmentServiceGetAssemblesDetail(t *testing.T) {
	repo := &mockDepartmentRepo{departments: map[int64]models.Department{
		1: {ID: 1, Name: "Computer Science", Code: "CS"},
	}}
	faculties := &stubFacultyLister{byDepartment: map[int64][]models.Faculty{
		1: {{ID: 10, FirstName: "Grace", LastName: "Hopper"}},
	}}
	courses := &stubCourseLister{byDepartment: map[int64][]models.Course{
		1: {{ID: 20, Code: "CS101", Name: "Intro to Computing"}},
	}}
	svc := NewDepartmentService(repo, faculties, courses, nil, nil, nil)

	detail, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "CS", detail.Code)
	require.Len(t, detail.Faculties, 1)
	assert.Equal(t, "Grace", detail.Faculties[0].FirstName)
	require.Len(t, detail.Courses, 1)
	assert.Equal(t, "CS101", detail.Courses[0].Code)
}

func TestDepartmentServiceGetNotFound(t *testing.T) {
	svc := NewDepartmentService(&mockDepartmentRepo{}, &stubFacultyLister{}, &stubCourseLister{}, nil, nil, nil)

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDepartmentServiceCreatePublishesEvent(t *testing.T) {
	repo := &mockDepartmentRepo{}
	publisher := &recordingPublisher{}
	svc := NewDepartmentService(repo, &stubFacultyLister{}, &stubCourseLister{}, nil, publisher, nil)

	created, err := svc.Create(context.Background(), CreateDepartmentRequest{Name: "Physics", Code: "PHY"})
	require.NoError(t, err)
	assert.Equal(t, "PHY", created.Code)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.EntityDepartment, publisher.events[0].Entity)
}

func TestDepartmentServiceCreateDuplicateCodeConflict(t *testing.T) {
	repo := &mockDepartmentRepo{createErr: fmt.Errorf("insert department: %w",
		&pq.Error{Code: "23505", Constraint: "departments_code_key"})}
	publisher := &recordingPublisher{}
	svc := NewDepartmentService(repo, &stubFacultyLister{}, &stubCourseLister{}, nil, publisher, nil)

	_, err := svc.Create(context.Background(), CreateDepartmentRequest{Name: "Computing", Code: "CS"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrConflict.Status, appErr.Status)
	assert.Empty(t, publisher.events)
}

func TestDepartmentServiceCreateRequiresCode(t *testing.T) {
	svc := NewDepartmentService(&mockDepartmentRepo{}, &stubFacultyLister{}, &stubCourseLister{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateDepartmentRequest{Name: "Physics"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDepartmentServiceUpdatePartial(t *testing.T) {
	repo := &mockDepartmentRepo{departments: map[int64]models.Department{
		1: {ID: 1, Name: "Computer Science", Code: "CS"},
	}}
	svc := NewDepartmentService(repo, &stubFacultyLister{}, &stubCourseLister{}, nil, nil, nil)

	name := "Computing"
	updated, err := svc.Update(context.Background(), 1, UpdateDepartmentRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Computing", updated.Name)
	assert.Equal(t, "CS", updated.Code)
}
