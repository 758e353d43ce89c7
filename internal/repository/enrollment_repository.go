package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-records-api/internal/models"
)

const enrollmentColumns = "e.id, e.student_id, e.course_id, e.semester, e.year, e.grade, e.created_at, e.updated_at"

const enrollmentDetailSelect = `SELECT e.id, e.student_id, e.course_id, e.semester, e.year, e.grade, e.created_at, e.updated_at,
        s.first_name || ' ' || s.last_name AS student_name, s.email AS student_email,
        c.code AS course_code, c.name AS course_name
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        JOIN courses c ON c.id = e.course_id`

// EnrollmentFilter narrows enrollment listings.
type EnrollmentFilter struct {
	StudentID int64
	CourseID  int64
	Semester  models.Semester
	Year      int
}

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollments with student and course context, filtered by the
// provided criteria and ordered by course code then student name.
func (r *EnrollmentRepository) List(ctx context.Context, filter EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	var conditions []string
	var args []interface{}

	if filter.StudentID != 0 {
		conditions = append(conditions, fmt.Sprintf("e.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.CourseID != 0 {
		conditions = append(conditions, fmt.Sprintf("e.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("e.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("e.year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := enrollmentDetailSelect + clause + " ORDER BY c.code ASC, s.last_name ASC"
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := fmt.Sprintf("SELECT %s FROM enrollments e WHERE e.id = $1", enrollmentColumns)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindDetailByID returns an enrollment with student and course context.
func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	query := enrollmentDetailSelect + " WHERE e.id = $1"
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Exists checks whether an enrollment already exists for the full
// (student, course, semester, year) tuple.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID int64, semester models.Semester, year int) (bool, error) {
	const query = `SELECT 1 FROM enrollments
        WHERE student_id = $1 AND course_id = $2 AND semester = $3 AND year = $4 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, courseID, semester, year); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// Create inserts an enrollment and returns the stored row. The schema's
// unique tuple index is the backstop against concurrent duplicate inserts.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error) {
	query := fmt.Sprintf(`INSERT INTO enrollments AS e (student_id, course_id, semester, year)
        VALUES ($1, $2, $3, $4) RETURNING %s`, enrollmentColumns)
	var created models.Enrollment
	if err := r.db.GetContext(ctx, &created, query,
		enrollment.StudentID, enrollment.CourseID, enrollment.Semester, enrollment.Year); err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	return &created, nil
}

// UpdateGrade sets the letter grade for an enrollment.
func (r *EnrollmentRepository) UpdateGrade(ctx context.Context, id int64, grade models.Grade) (*models.Enrollment, error) {
	query := fmt.Sprintf(`UPDATE enrollments AS e SET grade = $2, updated_at = now()
        WHERE e.id = $1 RETURNING %s`, enrollmentColumns)
	var updated models.Enrollment
	if err := r.db.GetContext(ctx, &updated, query, id, grade); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the enrollment and returns its prior state. Marks and
// attendance rows are cascade-deleted by the schema.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := fmt.Sprintf("DELETE FROM enrollments AS e WHERE e.id = $1 RETURNING %s", enrollmentColumns)
	var deleted models.Enrollment
	if err := r.db.GetContext(ctx, &deleted, query, id); err != nil {
		return nil, err
	}
	return &deleted, nil
}
