package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-records-api/internal/models"
)

const courseColumns = "c.id, c.code, c.name, c.description, c.credits, c.department_id, c.faculty_id, c.is_active, c.created_at, c.updated_at"

// CourseRepository manages persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns all courses with department and instructor names, ordered by code.
func (r *CourseRepository) List(ctx context.Context) ([]models.CourseDetail, error) {
	query := fmt.Sprintf(`SELECT %s, d.name AS department_name,
        f.first_name || ' ' || f.last_name AS faculty_name
        FROM courses c
        LEFT JOIN departments d ON d.id = c.department_id
        LEFT JOIN faculties f ON f.id = c.faculty_id
        ORDER BY c.code ASC`, courseColumns)
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns one course with department and instructor names attached.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.CourseDetail, error) {
	query := fmt.Sprintf(`SELECT %s, d.name AS department_name,
        f.first_name || ' ' || f.last_name AS faculty_name
        FROM courses c
        LEFT JOIN departments d ON d.id = c.department_id
        LEFT JOIN faculties f ON f.id = c.faculty_id
        WHERE c.id = $1`, courseColumns)
	var course models.CourseDetail
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListByDepartment returns courses owned by the given department.
func (r *CourseRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses c WHERE c.department_id = $1 ORDER BY c.code ASC", courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, departmentID); err != nil {
		return nil, fmt.Errorf("list department courses: %w", err)
	}
	return courses, nil
}

// Create inserts a course and returns the stored row.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	query := fmt.Sprintf(`INSERT INTO courses AS c (code, name, description, credits, department_id, faculty_id, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING %s`, courseColumns)
	var created models.Course
	if err := r.db.GetContext(ctx, &created, query,
		course.Code, course.Name, course.Description, course.Credits,
		course.DepartmentID, course.FacultyID, course.IsActive); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return &created, nil
}

// Update applies only the supplied fields and refreshes updated_at.
func (r *CourseRepository) Update(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error) {
	var sets []string
	var args []interface{}

	if patch.Code != nil {
		sets = append(sets, fmt.Sprintf("code = $%d", len(args)+1))
		args = append(args, *patch.Code)
	}
	if patch.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)+1))
		args = append(args, *patch.Description)
	}
	if patch.Credits != nil {
		sets = append(sets, fmt.Sprintf("credits = $%d", len(args)+1))
		args = append(args, *patch.Credits)
	}
	if patch.DepartmentID != nil {
		sets = append(sets, fmt.Sprintf("department_id = $%d", len(args)+1))
		args = append(args, nullableID(*patch.DepartmentID))
	}
	if patch.FacultyID != nil {
		sets = append(sets, fmt.Sprintf("faculty_id = $%d", len(args)+1))
		args = append(args, nullableID(*patch.FacultyID))
	}
	if patch.IsActive != nil {
		sets = append(sets, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *patch.IsActive)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE courses AS c SET %s WHERE c.id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), courseColumns)
	var updated models.Course
	if err := r.db.GetContext(ctx, &updated, query, args...); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the course and returns its prior state. Enrollments in the
// course are cascade-deleted by the schema, transitively removing their
// marks and attendance.
func (r *CourseRepository) Delete(ctx context.Context, id int64) (*models.Course, error) {
	query := fmt.Sprintf("DELETE FROM courses AS c WHERE c.id = $1 RETURNING %s", courseColumns)
	var deleted models.Course
	if err := r.db.GetContext(ctx, &deleted, query, id); err != nil {
		return nil, err
	}
	return &deleted, nil
}
