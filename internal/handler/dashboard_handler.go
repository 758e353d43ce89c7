package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-records-api/internal/models"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
	"github.com/campushq/school-records-api/pkg/response"
)

type dashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, bool, error)
}

// DashboardHandler wires the dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats godoc
// @Summary Record counts across the school
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	stats, cacheHit, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{
		"cache_hit":          cacheHit,
		"processing_time_ms": time.Since(start).Milliseconds(),
	}
	response.JSON(c, http.StatusOK, stats, meta)
}
