package models

import "time"

// Mark records a score earned for one exam within an enrollment.
type Mark struct {
	ID           int64     `db:"id" json:"id"`
	EnrollmentID int64     `db:"enrollment_id" json:"enrollment_id"`
	ExamType     string    `db:"exam_type" json:"exam_type"`
	Score        float64   `db:"score" json:"score"`
	MaxScore     float64   `db:"max_score" json:"max_score"`
	Remarks      *string   `db:"remarks" json:"remarks,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
