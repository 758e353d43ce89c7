package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-records-api/internal/models"
)

// StatsRepository reads entity counts for the dashboard.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs a StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Counts returns the number of rows per top-level entity.
func (r *StatsRepository) Counts(ctx context.Context) (*models.DashboardStats, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM students) AS student_count,
        (SELECT COUNT(*) FROM faculties) AS faculty_count,
        (SELECT COUNT(*) FROM courses) AS course_count,
        (SELECT COUNT(*) FROM departments) AS department_count`
	var stats models.DashboardStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("count entities: %w", err)
	}
	return &stats, nil
}
