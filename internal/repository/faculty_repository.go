package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-records-api/internal/models"
)

const facultyColumns = "f.id, f.first_name, f.last_name, f.email, f.phone, f.department_id, f.designation, f.join_date, f.is_active, f.created_at, f.updated_at"

// FacultyRepository manages persistence for faculty records.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// List returns all faculty with their department names, ordered by last name.
func (r *FacultyRepository) List(ctx context.Context) ([]models.FacultyDetail, error) {
	query := fmt.Sprintf(`SELECT %s, d.name AS department_name
        FROM faculties f
        LEFT JOIN departments d ON d.id = f.department_id
        ORDER BY f.last_name ASC, f.first_name ASC`, facultyColumns)
	var faculties []models.FacultyDetail
	if err := r.db.SelectContext(ctx, &faculties, query); err != nil {
		return nil, fmt.Errorf("list faculties: %w", err)
	}
	return faculties, nil
}

// FindByID returns one faculty member with the department name attached.
func (r *FacultyRepository) FindByID(ctx context.Context, id int64) (*models.FacultyDetail, error) {
	query := fmt.Sprintf(`SELECT %s, d.name AS department_name
        FROM faculties f
        LEFT JOIN departments d ON d.id = f.department_id
        WHERE f.id = $1`, facultyColumns)
	var faculty models.FacultyDetail
	if err := r.db.GetContext(ctx, &faculty, query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// ListByDepartment returns faculty assigned to the given department.
func (r *FacultyRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]models.Faculty, error) {
	query := fmt.Sprintf(`SELECT %s FROM faculties f WHERE f.department_id = $1 ORDER BY f.last_name ASC`, facultyColumns)
	var faculties []models.Faculty
	if err := r.db.SelectContext(ctx, &faculties, query, departmentID); err != nil {
		return nil, fmt.Errorf("list department faculties: %w", err)
	}
	return faculties, nil
}

// Create inserts a faculty member and returns the stored row.
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) (*models.Faculty, error) {
	query := fmt.Sprintf(`INSERT INTO faculties AS f (first_name, last_name, email, phone, department_id, designation, join_date, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING %s`, facultyColumns)
	var created models.Faculty
	if err := r.db.GetContext(ctx, &created, query,
		faculty.FirstName, faculty.LastName, faculty.Email, faculty.Phone,
		faculty.DepartmentID, faculty.Designation, faculty.JoinDate, faculty.IsActive); err != nil {
		return nil, fmt.Errorf("create faculty: %w", err)
	}
	return &created, nil
}

// Update applies only the supplied fields and refreshes updated_at.
func (r *FacultyRepository) Update(ctx context.Context, id int64, patch models.FacultyPatch) (*models.Faculty, error) {
	var sets []string
	var args []interface{}

	if patch.FirstName != nil {
		sets = append(sets, fmt.Sprintf("first_name = $%d", len(args)+1))
		args = append(args, *patch.FirstName)
	}
	if patch.LastName != nil {
		sets = append(sets, fmt.Sprintf("last_name = $%d", len(args)+1))
		args = append(args, *patch.LastName)
	}
	if patch.Email != nil {
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)+1))
		args = append(args, *patch.Email)
	}
	if patch.Phone != nil {
		sets = append(sets, fmt.Sprintf("phone = $%d", len(args)+1))
		args = append(args, *patch.Phone)
	}
	if patch.DepartmentID != nil {
		sets = append(sets, fmt.Sprintf("department_id = $%d", len(args)+1))
		args = append(args, nullableID(*patch.DepartmentID))
	}
	if patch.Designation != nil {
		sets = append(sets, fmt.Sprintf("designation = $%d", len(args)+1))
		args = append(args, *patch.Designation)
	}
	if patch.JoinDate != nil {
		sets = append(sets, fmt.Sprintf("join_date = $%d", len(args)+1))
		args = append(args, *patch.JoinDate)
	}
	if patch.IsActive != nil {
		sets = append(sets, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *patch.IsActive)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE faculties AS f SET %s WHERE f.id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), facultyColumns)
	var updated models.Faculty
	if err := r.db.GetContext(ctx, &updated, query, args...); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the faculty member and returns their prior state. Courses
// taught by them keep their rows with faculty_id cleared.
func (r *FacultyRepository) Delete(ctx context.Context, id int64) (*models.Faculty, error) {
	query := fmt.Sprintf("DELETE FROM faculties AS f WHERE f.id = $1 RETURNING %s", facultyColumns)
	var deleted models.Faculty
	if err := r.db.GetContext(ctx, &deleted, query, id); err != nil {
		return nil, err
	}
	return &deleted, nil
}

// nullableID maps the zero id to SQL NULL so a patch can clear a reference.
func nullableID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}
