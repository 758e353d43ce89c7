package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-records-api/internal/models"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
)

type mockMarkRepo struct {
	marks  map[int64]models.Mark
	nextID int64
}

func (m *mockMarkRepo) ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.Mark, error) {
	var list []models.Mark
	for _, mark := range m.marks {
		if mark.EnrollmentID == enrollmentID {
			list = append(list, mark)
		}
	}
	return list, nil
}

func (m *mockMarkRepo) FindByID(ctx context.Context, id int64) (*models.Mark, error) {
	if mark, ok := m.marks[id]; ok {
		return &mark, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMarkRepo) Create(ctx context.Context, mark *models.Mark) (*models.Mark, error) {
	if m.marks == nil {
		m.marks = make(map[int64]models.Mark)
	}
	m.nextID++
	stored := *mark
	stored.ID = m.nextID
	m.marks[stored.ID] = stored
	return &stored, nil
}

func (m *mockMarkRepo) Update(ctx context.Context, id int64, patch models.MarkPatch) (*models.Mark, error) {
	mark, ok := m.marks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if patch.ExamType != nil {
		mark.ExamType = *patch.ExamType
	}
	if patch.Score != nil {
		mark.Score = *patch.Score
	}
	if patch.MaxScore != nil {
		mark.MaxScore = *patch.MaxScore
	}
	if patch.Remarks != nil {
		mark.Remarks = patch.Remarks
	}
	m.marks[id] = mark
	return &mark, nil
}

func (m *mockMarkRepo) Delete(ctx context.Context, id int64) (*models.Mark, error) {
	mark, ok := m.marks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(m.marks, id)
	return &mark, nil
}

func TestMarkServiceCreate(t *testing.T) {
	repo := &mockMarkRepo{}
	svc := NewMarkService(repo, nil, nil, nil)

	created, err := svc.Create(context.Background(), AddMarkRequest{
		EnrollmentID: 4, ExamType: "midterm", Score: 42, MaxScore: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 42.0, created.Score)
	assert.Len(t, repo.marks, 1)
}

func TestMarkServiceCreateRejectsScoreAboveMax(t *testing.T) {
	repo := &mockMarkRepo{}
	svc := NewMarkService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), AddMarkRequest{
		EnrollmentID: 4, ExamType: "midterm", Score: 60, MaxScore: 50,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.marks)
}

func TestMarkServiceUpdateChecksMergedScorePair(t *testing.T) {
	repo := &mockMarkRepo{marks: map[int64]models.Mark{
		1: {ID: 1, EnrollmentID: 4, ExamType: "quiz", Score: 8, MaxScore: 10},
	}}
	svc := NewMarkService(repo, nil, nil, nil)

	// Lowering max below the stored score must fail even though the
	// patch itself carries no score.
	newMax := 5.0
	_, err := svc.Update(context.Background(), 1, UpdateMarkRequest{MaxScore: &newMax})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 10.0, repo.marks[1].MaxScore)
}

func TestMarkServiceUpdatePartial(t *testing.T) {
	repo := &mockMarkRepo{marks: map[int64]models.Mark{
		1: {ID: 1, EnrollmentID: 4, ExamType: "quiz", Score: 8, MaxScore: 10},
	}}
	svc := NewMarkService(repo, nil, nil, nil)

	score := 9.5
	updated, err := svc.Update(context.Background(), 1, UpdateMarkRequest{Score: &score})
	require.NoError(t, err)
	assert.Equal(t, 9.5, updated.Score)
	assert.Equal(t, "quiz", updated.ExamType)
	assert.Equal(t, 10.0, updated.MaxScore)
}

func TestMarkServiceListByEnrollmentComputesAverage(t *testing.T) {
	repo := &mockMarkRepo{marks: map[int64]models.Mark{
		1: {ID: 1, EnrollmentID: 4, ExamType: "midterm", Score: 40, MaxScore: 50},
		2: {ID: 2, EnrollmentID: 4, ExamType: "final", Score: 90, MaxScore: 100},
	}}
	svc := NewMarkService(repo, nil, nil, nil)

	sheet, err := svc.ListByEnrollment(context.Background(), 4)
	require.NoError(t, err)
	assert.Len(t, sheet.Marks, 2)
	// 130 of 150 total.
	assert.InDelta(t, 86.7, sheet.AveragePercentage, 0.05)
}

func TestMarkServiceGetNotFound(t *testing.T) {
	svc := NewMarkService(&mockMarkRepo{}, nil, nil, nil)

	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
