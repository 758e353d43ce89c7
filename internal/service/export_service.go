package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/school-records-api/internal/models"
	"github.com/campushq/school-records-api/internal/repository"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
	"github.com/campushq/school-records-api/pkg/export"
)

// Export formats supported by the roster and register exports.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type exportEnrollmentLister interface {
	List(ctx context.Context, filter repository.EnrollmentFilter) ([]models.EnrollmentDetail, error)
}

type exportAttendanceLister interface {
	ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.Attendance, error)
}

// ExportService renders course rosters and attendance registers as raw
// row downloads.
type ExportService struct {
	enrollments exportEnrollmentLister
	attendance  exportAttendanceLister
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(enrollments exportEnrollmentLister, attendance exportAttendanceLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		enrollments: enrollments,
		attendance:  attendance,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// CourseRoster exports the enrollment roster of one course.
func (s *ExportService) CourseRoster(ctx context.Context, courseID int64, format string) (*ExportFile, error) {
	enrollments, err := s.enrollments.List(ctx, repository.EnrollmentFilter{CourseID: courseID})
	if err != nil {
		s.logger.Error("export roster failed", zap.Int64("course_id", courseID), zap.Error(err))
		return nil, opError("export roster", err)
	}

	data := export.Dataset{
		Headers: []string{"Student", "Email", "Semester", "Year", "Grade"},
	}
	for _, e := range enrollments {
		grade := ""
		if e.Grade != nil {
			grade = string(*e.Grade)
		}
		data.Rows = append(data.Rows, map[string]string{
			"Student":  e.StudentName,
			"Email":    e.StudentEmail,
			"Semester": string(e.Semester),
			"Year":     strconv.Itoa(e.Year),
			"Grade":    grade,
		})
	}

	name := fmt.Sprintf("course-%d-roster", courseID)
	return s.render(data, "Course Roster", name, format)
}

// AttendanceRegister exports the attendance rows of one enrollment.
func (s *ExportService) AttendanceRegister(ctx context.Context, enrollmentID int64, format string) (*ExportFile, error) {
	records, err := s.attendance.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		s.logger.Error("export register failed", zap.Int64("enrollment_id", enrollmentID), zap.Error(err))
		return nil, opError("export register", err)
	}

	data := export.Dataset{
		Headers: []string{"Date", "Present", "Remarks"},
	}
	for _, r := range records {
		remarks := ""
		if r.Remarks != nil {
			remarks = *r.Remarks
		}
		data.Rows = append(data.Rows, map[string]string{
			"Date":    r.Date.Format(time.DateOnly),
			"Present": strconv.FormatBool(r.IsPresent),
			"Remarks": remarks,
		})
	}

	name := fmt.Sprintf("enrollment-%d-attendance", enrollmentID)
	return s.render(data, "Attendance Register", name, format)
}

func (s *ExportService) render(data export.Dataset, title, name, format string) (*ExportFile, error) {
	switch format {
	case FormatCSV, "":
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, opError("render export", err)
		}
		return &ExportFile{Filename: name + ".csv", ContentType: "text/csv", Data: payload}, nil
	case FormatPDF:
		payload, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, opError("render export", err)
		}
		return &ExportFile{Filename: name + ".pdf", ContentType: "application/pdf", Data: payload}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
