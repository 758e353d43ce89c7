package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-records-api/internal/models"
	"github.com/campushq/school-records-api/internal/repository"
	"github.com/campushq/school-records-api/internal/service"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
	"github.com/campushq/school-records-api/pkg/response"
)

type fakeEnrollmentRepo struct {
	lastFilter repository.EnrollmentFilter
	rows       []models.EnrollmentDetail
}

func (f *fakeEnrollmentRepo) List(ctx context.Context, filter repository.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	f.lastFilter = filter
	return f.rows, nil
}

func (f *fakeEnrollmentRepo) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	return nil, nil
}

func (f *fakeEnrollmentRepo) FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	return nil, nil
}

func (f *fakeEnrollmentRepo) Exists(ctx context.Context, studentID, courseID int64, semester models.Semester, year int) (bool, error) {
	return false, nil
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error) {
	return enrollment, nil
}

func (f *fakeEnrollmentRepo) UpdateGrade(ctx context.Context, id int64, grade models.Grade) (*models.Enrollment, error) {
	return nil, nil
}

func (f *fakeEnrollmentRepo) Delete(ctx context.Context, id int64) (*models.Enrollment, error) {
	return nil, nil
}

func TestEnrollmentHandlerListNormalizesSemester(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeEnrollmentRepo{}
	handler := NewEnrollmentHandler(service.NewEnrollmentService(repo, nil, nil, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/enrollments?semester=fall&year=2025", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.SemesterFall, repo.lastFilter.Semester)
	assert.Equal(t, 2025, repo.lastFilter.Year)
}

func TestEnrollmentHandlerListRejectsUnknownSemester(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeEnrollmentRepo{}
	handler := NewEnrollmentHandler(service.NewEnrollmentService(repo, nil, nil, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/enrollments?semester=winter", nil)

	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.Semester(""), repo.lastFilter.Semester)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, envelope.Error.Code)
}
