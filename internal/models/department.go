package models

import "time"

// Department groups faculty and courses under one academic unit.
type Department struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DepartmentDetail enriches Department with its dependents.
type DepartmentDetail struct {
	Department
	Faculties []Faculty `json:"faculties,omitempty"`
	Courses   []Course  `json:"courses,omitempty"`
}
