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

type mockFacultyRepo struct {
	faculties map[int64]models.FacultyDetail
	nextID    int64
}

func (m *mockFacultyRepo) List(ctx context.Context) ([]models.FacultyDetail, error) {
	var list []models.FacultyDetail
	for _, f := range m.faculties {
		list = append(list, f)
	}
	return list, nil
}

func (m *mockFacultyRepo) FindByID(ctx context.Context, id int64) (*models.FacultyDetail, error) {
	if f, ok := m.faculties[id]; ok {
		return &f, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFacultyRepo) Create(ctx context.Context, faculty *models.Faculty) (*models.Faculty, error) {
	if m.faculties == nil {
		m.faculties = make(map[int64]models.FacultyDetail)
	}
	m.nextID++
	stored := *faculty
	stored.ID = m.nextID
	m.faculties[stored.ID] = models.FacultyDetail{Faculty: stored}
	return &stored, nil
}

func (m *mockFacultyRepo) Update(ctx context.Context, id int64, patch models.FacultyPatch) (*models.Faculty, error) {
	f, ok := m.faculties[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if patch.LastName != nil {
		f.LastName = *patch.LastName
	}
	if patch.Designation != nil {
		f.Designation = patch.Designation
	}
	m.faculties[id] = f
	return &f.Faculty, nil
}

func (m *mockFacultyRepo) Delete(ctx context.Context, id int64) (*models.Faculty, error) {
	f, ok := m.faculties[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(m.faculties, id)
	return &f.Faculty, nil
}

func TestFacultyServiceCreateNormalizesJoinDate(t *testing.T) {
	repo := &mockFacultyRepo{}
	svc := NewFacultyService(repo, nil, nil, nil)

	loc := time.FixedZone("UTC-5", -5*3600)
	created, err := svc.Create(context.Background(), CreateFacultyRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.edu",
		JoinDate:  time.Date(2020, time.August, 15, 22, 10, 0, 0, loc),
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.August, 15, 0, 0, 0, 0, time.UTC), created.JoinDate)
	assert.True(t, created.IsActive)
}

func TestFacultyServiceGetNotFound(t *testing.T) {
	svc := NewFacultyService(&mockFacultyRepo{}, nil, nil, nil)

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestFacultyServiceUpdatePartial(t *testing.T) {
	repo := &mockFacultyRepo{faculties: map[int64]models.FacultyDetail{
		1: {Faculty: models.Faculty{ID: 1, FirstName: "Grace", LastName: "Hopper"}},
	}}
	svc := NewFacultyService(repo, nil, nil, nil)

	designation := "Professor"
	updated, err := svc.Update(context.Background(), 1, UpdateFacultyRequest{Designation: &designation})
	require.NoError(t, err)
	require.NotNil(t, updated.Designation)
	assert.Equal(t, "Professor", *updated.Designation)
	assert.Equal(t, "Hopper", updated.LastName)
}
