package models

import "time"

// Semester identifies the academic term of an enrollment.
type Semester string

const (
	SemesterFall   Semester = "Fall"
	SemesterSpring Semester = "Spring"
	SemesterSummer Semester = "Summer"
)

// Valid returns true when the semester is a supported value.
func (s Semester) Valid() bool {
	switch s {
	case SemesterFall, SemesterSpring, SemesterSummer:
		return true
	default:
		return false
	}
}

// Grade is the letter grade awarded for an enrollment.
type Grade string

const (
	GradeA          Grade = "A"
	GradeB          Grade = "B"
	GradeC          Grade = "C"
	GradeD          Grade = "D"
	GradeF          Grade = "F"
	GradeIncomplete Grade = "I"
	GradeWithdrawn  Grade = "W"
)

// Valid returns true when the grade is part of the fixed enumeration.
func (g Grade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeF, GradeIncomplete, GradeWithdrawn:
		return true
	default:
		return false
	}
}

// Enrollment links one student to one course for a semester and year.
// At most one row exists per (student, course, semester, year).
type Enrollment struct {
	ID        int64     `db:"id" json:"id"`
	StudentID int64     `db:"student_id" json:"student_id"`
	CourseID  int64     `db:"course_id" json:"course_id"`
	Semester  Semester  `db:"semester" json:"semester"`
	Year      int       `db:"year" json:"year"`
	Grade     *Grade    `db:"grade" json:"grade,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EnrollmentDetail enriches Enrollment with student and course info.
type EnrollmentDetail struct {
	Enrollment
	StudentName  string `db:"student_name" json:"student_name"`
	StudentEmail string `db:"student_email" json:"student_email"`
	CourseCode   string `db:"course_code" json:"course_code"`
	CourseName   string `db:"course_name" json:"course_name"`
}
