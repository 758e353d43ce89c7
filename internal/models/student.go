package models

import "time"

// Student represents an enrolled learner.
type Student struct {
	ID             int64      `db:"id" json:"id"`
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name"`
	Email          string     `db:"email" json:"email"`
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	DateOfBirth    *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Address        *string    `db:"address" json:"address,omitempty"`
	EnrollmentDate time.Time  `db:"enrollment_date" json:"enrollment_date"`
	DepartmentID   *int64     `db:"department_id" json:"department_id,omitempty"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// StudentSummary carries the department name for list views.
type StudentSummary struct {
	Student
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
}

// StudentDetail is the eagerly loaded form returned by get-by-id:
// the student, their department name, and their enrollments with courses.
type StudentDetail struct {
	StudentSummary
	Enrollments []EnrollmentDetail `json:"enrollments"`
}
