package models

// DashboardStats carries entity counts for the admin landing page.
type DashboardStats struct {
	StudentCount    int `db:"student_count" json:"student_count"`
	FacultyCount    int `db:"faculty_count" json:"faculty_count"`
	CourseCount     int `db:"course_count" json:"course_count"`
	DepartmentCount int `db:"department_count" json:"department_count"`
}
