package models

import "time"

// Faculty represents a teaching staff member.
type Faculty struct {
	ID           int64     `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Email        string    `db:"email" json:"email"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	DepartmentID *int64    `db:"department_id" json:"department_id,omitempty"`
	Designation  *string   `db:"designation" json:"designation,omitempty"`
	JoinDate     time.Time `db:"join_date" json:"join_date"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FacultyDetail carries the department name for list views.
type FacultyDetail struct {
	Faculty
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
}
