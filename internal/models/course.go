package models

import "time"

// Course is a unit of study offered by a department.
type Course struct {
	ID           int64     `db:"id" json:"id"`
	Code         string    `db:"code" json:"code"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description,omitempty"`
	Credits      int       `db:"credits" json:"credits"`
	DepartmentID *int64    `db:"department_id" json:"department_id,omitempty"`
	FacultyID    *int64    `db:"faculty_id" json:"faculty_id,omitempty"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CourseDetail carries department and instructor names for list views.
type CourseDetail struct {
	Course
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
	FacultyName    *string `db:"faculty_name" json:"faculty_name,omitempty"`
}
