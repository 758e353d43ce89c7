package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-records-api/internal/service"
	"github.com/campushq/school-records-api/pkg/response"
)

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// ListByEnrollment godoc
// @Summary List attendance for an enrollment with attendance rate
// @Tags Attendance
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/attendance [get]
func (h *AttendanceHandler) ListByEnrollment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	register, err := h.attendance.ListByEnrollment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, register)
}

// Mark godoc
// @Summary Mark attendance for an enrollment on a date
// @Description Marking the same enrollment and date again overwrites the earlier record.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.MarkAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	record, err := h.attendance.Mark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Get godoc
// @Summary Get a single attendance record
// @Tags Attendance
// @Produce json
// @Param id path int true "Attendance ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id} [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	record, err := h.attendance.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Update godoc
// @Summary Update an attendance record
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path int true "Attendance ID"
// @Param payload body service.UpdateAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id} [patch]
func (h *AttendanceHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	record, err := h.attendance.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Delete godoc
// @Summary Delete an attendance record
// @Tags Attendance
// @Produce json
// @Param id path int true "Attendance ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	record, err := h.attendance.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}
