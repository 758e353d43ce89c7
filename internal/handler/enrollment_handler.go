package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-records-api/internal/models"
	"github.com/campushq/school-records-api/internal/repository"
	"github.com/campushq/school-records-api/internal/service"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
	"github.com/campushq/school-records-api/pkg/response"
)

// EnrollmentHandler exposes enrollment endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Param studentId query int false "Filter by student"
// @Param courseId query int false "Filter by course"
// @Param semester query string false "Filter by semester"
// @Param year query int false "Filter by year"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	var filter repository.EnrollmentFilter
	if id, err := strconv.ParseInt(c.Query("studentId"), 10, 64); err == nil {
		filter.StudentID = id
	}
	if id, err := strconv.ParseInt(c.Query("courseId"), 10, 64); err == nil {
		filter.CourseID = id
	}
	if s := c.Query("semester"); s != "" {
		semester := models.Semester(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
		if !semester.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown semester %q", s)))
			return
		}
		filter.Semester = semester
	}
	if year, err := strconv.Atoi(c.Query("year")); err == nil {
		filter.Year = year
	}

	enrollments, err := h.enrollments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments)
}

// Get godoc
// @Summary Get enrollment detail
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	enrollment, err := h.enrollments.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment)
}

// Create godoc
// @Summary Enroll student in course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.EnrollStudentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req service.EnrollStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// BulkCreate godoc
// @Summary Enroll several students in one course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.BulkEnrollRequest true "Bulk enrollment payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/bulk [post]
func (h *EnrollmentHandler) BulkCreate(c *gin.Context) {
	var req service.BulkEnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	results, err := h.enrollments.BulkEnroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results)
}

// UpdateGrade godoc
// @Summary Record final grade for an enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param payload body service.UpdateGradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/grade [patch]
func (h *EnrollmentHandler) UpdateGrade(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	enrollment, err := h.enrollments.UpdateGrade(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment)
}

// Delete godoc
// @Summary Drop an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	enrollment, err := h.enrollments.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment)
}
