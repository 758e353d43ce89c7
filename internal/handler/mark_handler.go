package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-records-api/internal/service"
	"github.com/campushq/school-records-api/pkg/response"
)

// MarkHandler exposes exam mark endpoints.
type MarkHandler struct {
	marks *service.MarkService
}

// NewMarkHandler constructs MarkHandler.
func NewMarkHandler(marks *service.MarkService) *MarkHandler {
	return &MarkHandler{marks: marks}
}

// ListByEnrollment godoc
// @Summary List marks for an enrollment with average percentage
// @Tags Marks
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/marks [get]
func (h *MarkHandler) ListByEnrollment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sheet, err := h.marks.ListByEnrollment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet)
}

// Get godoc
// @Summary Get mark
// @Tags Marks
// @Produce json
// @Param id path int true "Mark ID"
// @Success 200 {object} response.Envelope
// @Router /marks/{id} [get]
func (h *MarkHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	mark, err := h.marks.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mark)
}

// Create godoc
// @Summary Record a mark
// @Tags Marks
// @Accept json
// @Produce json
// @Param payload body service.AddMarkRequest true "Mark payload"
// @Success 201 {object} response.Envelope
// @Router /marks [post]
func (h *MarkHandler) Create(c *gin.Context) {
	var req service.AddMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	mark, err := h.marks.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mark)
}

// Update godoc
// @Summary Update a mark
// @Tags Marks
// @Accept json
// @Produce json
// @Param id path int true "Mark ID"
// @Param payload body service.UpdateMarkRequest true "Mark payload"
// @Success 200 {object} response.Envelope
// @Router /marks/{id} [patch]
func (h *MarkHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	mark, err := h.marks.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mark)
}

// Delete godoc
// @Summary Delete a mark
// @Tags Marks
// @Produce json
// @Param id path int true "Mark ID"
// @Success 200 {object} response.Envelope
// @Router /marks/{id} [delete]
func (h *MarkHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	mark, err := h.marks.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mark)
}
