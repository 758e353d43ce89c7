package models

import "time"

// Patch types implement merge-patch updates: nil means "leave untouched",
// a non-nil pointer overwrites the column. For nullable references a
// supplied zero id clears the column.

// DepartmentPatch selects department fields to overwrite.
type DepartmentPatch struct {
	Name        *string
	Code        *string
	Description *string
}

// FacultyPatch selects faculty fields to overwrite.
type FacultyPatch struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Phone        *string
	DepartmentID *int64
	Designation  *string
	JoinDate     *time.Time
	IsActive     *bool
}

// CoursePatch selects course fields to overwrite.
type CoursePatch struct {
	Code         *string
	Name         *string
	Description  *string
	Credits      *int
	DepartmentID *int64
	FacultyID    *int64
	IsActive     *bool
}

// StudentPatch selects student fields to overwrite.
type StudentPatch struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	DateOfBirth    *time.Time
	Address        *string
	EnrollmentDate *time.Time
	DepartmentID   *int64
	IsActive       *bool
}

// MarkPatch selects mark fields to overwrite.
type MarkPatch struct {
	ExamType *string
	Score    *float64
	MaxScore *float64
	Remarks  *string
}

// AttendancePatch selects attendance fields to overwrite.
type AttendancePatch struct {
	Date      *time.Time
	IsPresent *bool
	Remarks   *string
}
