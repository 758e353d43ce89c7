package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-records-api/internal/models"
)

const studentColumns = "s.id, s.first_name, s.last_name, s.email, s.phone, s.date_of_birth, s.address, s.enrollment_date, s.department_id, s.is_active, s.created_at, s.updated_at"

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns all students with their department names, ordered by last name.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentSummary, error) {
	query := fmt.Sprintf(`SELECT %s, d.name AS department_name
        FROM students s
        LEFT JOIN departments d ON d.id = s.department_id
        ORDER BY s.last_name ASC, s.first_name ASC`, studentColumns)
	var students []models.StudentSummary
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID returns one student with the department name attached.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.StudentSummary, error) {
	query := fmt.Sprintf(`SELECT %s, d.name AS department_name
        FROM students s
        LEFT JOIN departments d ON d.id = s.department_id
        WHERE s.id = $1`, studentColumns)
	var student models.StudentSummary
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a student and returns the stored row.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (*models.Student, error) {
	query := fmt.Sprintf(`INSERT INTO students AS s (first_name, last_name, email, phone, date_of_birth, address, enrollment_date, department_id, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING %s`, studentColumns)
	var created models.Student
	if err := r.db.GetContext(ctx, &created, query,
		student.FirstName, student.LastName, student.Email, student.Phone,
		student.DateOfBirth, student.Address, student.EnrollmentDate,
		student.DepartmentID, student.IsActive); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return &created, nil
}

// Update applies only the supplied fields and refreshes updated_at.
func (r *StudentRepository) Update(ctx context.Context, id int64, patch models.StudentPatch) (*models.Student, error) {
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
	if patch.DateOfBirth != nil {
		sets = append(sets, fmt.Sprintf("date_of_birth = $%d", len(args)+1))
		args = append(args, *patch.DateOfBirth)
	}
	if patch.Address != nil {
		sets = append(sets, fmt.Sprintf("address = $%d", len(args)+1))
		args = append(args, *patch.Address)
	}
	if patch.EnrollmentDate != nil {
		sets = append(sets, fmt.Sprintf("enrollment_date = $%d", len(args)+1))
		args = append(args, *patch.EnrollmentDate)
	}
	if patch.DepartmentID != nil {
		sets = append(sets, fmt.Sprintf("department_id = $%d", len(args)+1))
		args = append(args, nullableID(*patch.DepartmentID))
	}
	if patch.IsActive != nil {
		sets = append(sets, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *patch.IsActive)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE students AS s SET %s WHERE s.id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), studentColumns)
	var updated models.Student
	if err := r.db.GetContext(ctx, &updated, query, args...); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the student and returns their prior state. Their
// enrollments are cascade-deleted by the schema, transitively removing
// marks and attendance.
func (r *StudentRepository) Delete(ctx context.Context, id int64) (*models.Student, error) {
	query := fmt.Sprintf("DELETE FROM students AS s WHERE s.id = $1 RETURNING %s", studentColumns)
	var deleted models.Student
	if err := r.db.GetContext(ctx, &deleted, query, id); err != nil {
		return nil, err
	}
	return &deleted, nil
}
