package models

import "time"

// Attendance records presence for one enrollment on one calendar date.
// At most one row exists per (enrollment, date).
type Attendance struct {
	ID           int64     `db:"id" json:"id"`
	EnrollmentID int64     `db:"enrollment_id" json:"enrollment_id"`
	Date         time.Time `db:"date" json:"date"`
	IsPresent    bool      `db:"is_present" json:"is_present"`
	Remarks      *string   `db:"remarks" json:"remarks,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
