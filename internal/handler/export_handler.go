package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-records-api/internal/service"
	"github.com/campushq/school-records-api/pkg/response"
)

// ExportHandler exposes roster and register downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// CourseRoster godoc
// @Summary Download a course roster
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Course ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /courses/{id}/roster [get]
func (h *ExportHandler) CourseRoster(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	file, err := h.exports.CourseRoster(c.Request.Context(), id, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeFile(c, file)
}

// AttendanceRegister godoc
// @Summary Download an enrollment's attendance register
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Enrollment ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /enrollments/{id}/attendance/export [get]
func (h *ExportHandler) AttendanceRegister(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	file, err := h.exports.AttendanceRegister(c.Request.Context(), id, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeFile(c, file)
}

func writeFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(200, file.ContentType, file.Data)
}
