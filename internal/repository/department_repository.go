package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-records-api/internal/models"
)

const departmentColumns = "id, name, code, description, created_at, updated_at"

// DepartmentRepository manages persistence for departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository constructs a DepartmentRepository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// List returns all departments ordered by name.
func (r *DepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	query := fmt.Sprintf("SELECT %s FROM departments ORDER BY name ASC", departmentColumns)
	var departments []models.Department
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// FindByID returns the department with the given id.
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	query := fmt.Sprintf("SELECT %s FROM departments WHERE id = $1", departmentColumns)
	var department models.Department
	if err := r.db.GetContext(ctx, &department, query, id); err != nil {
		return nil, err
	}
	return &department, nil
}

// Create inserts a department and returns the stored row.
func (r *DepartmentRepository) Create(ctx context.Context, dept *models.Department) (*models.Department, error) {
	query := fmt.Sprintf(`INSERT INTO departments (name, code, description)
        VALUES ($1, $2, $3) RETURNING %s`, departmentColumns)
	var created models.Department
	if err := r.db.GetContext(ctx, &created, query, dept.Name, dept.Code, dept.Description); err != nil {
		return nil, fmt.Errorf("create department: %w", err)
	}
	return &created, nil
}

// Update applies only the supplied fields and refreshes updated_at.
func (r *DepartmentRepository) Update(ctx context.Context, id int64, patch models.DepartmentPatch) (*models.Department, error) {
	var sets []string
	var args []interface{}

	if patch.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, *patch.Name)
	}
	if patch.Code != nil {
		sets = append(sets, fmt.Sprintf("code = $%d", len(args)+1))
		args = append(args, *patch.Code)
	}
	if patch.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)+1))
		args = append(args, *patch.Description)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE departments SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), departmentColumns)
	var updated models.Department
	if err := r.db.GetContext(ctx, &updated, query, args...); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the department and returns its prior state. Dependent
// faculty and courses keep their rows with department_id cleared by the
// schema's ON DELETE SET NULL rule.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) (*models.Department, error) {
	query := fmt.Sprintf("DELETE FROM departments WHERE id = $1 RETURNING %s", departmentColumns)
	var deleted models.Department
	if err := r.db.GetContext(ctx, &deleted, query, id); err != nil {
		return nil, err
	}
	return &deleted, nil
}
