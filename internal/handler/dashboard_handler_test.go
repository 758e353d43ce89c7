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
	appErrors "github.com/campushq/school-records-api/pkg/errors"
	"github.com/campushq/school-records-api/pkg/response"
)

type fakeDashboardSrv struct {
	stats *models.DashboardStats
	hit   bool
	err   error
}

func (f *fakeDashboardSrv) Stats(context.Context) (*models.DashboardStats, bool, error) {
	return f.stats, f.hit, f.err
}

func TestDashboardHandlerStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		stats: &models.DashboardStats{StudentCount: 120, CourseCount: 30},
		hit:   true,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Stats(c)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}

func TestDashboardHandlerStatsError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: appErrors.ErrInternal})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Stats(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDashboardHandlerNilService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Stats(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
