package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-records-api/internal/models"
)

const markColumns = "m.id, m.enrollment_id, m.exam_type, m.score, m.max_score, m.remarks, m.created_at, m.updated_at"

// MarkRepository manages persistence for exam marks.
type MarkRepository struct {
	db *sqlx.DB
}

// NewMarkRepository constructs a MarkRepository.
func NewMarkRepository(db *sqlx.DB) *MarkRepository {
	return &MarkRepository{db: db}
}

// ListByEnrollment returns all marks for an enrollment ordered by exam type.
func (r *MarkRepository) ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.Mark, error) {
	query := fmt.Sprintf(`SELECT %s FROM marks m WHERE m.enrollment_id = $1 ORDER BY m.exam_type ASC, m.created_at ASC`, markColumns)
	var marks []models.Mark
	if err := r.db.SelectContext(ctx, &marks, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("list marks: %w", err)
	}
	return marks, nil
}

// FindByID returns the mark with the given id.
func (r *MarkRepository) FindByID(ctx context.Context, id int64) (*models.Mark, error) {
	query := fmt.Sprintf("SELECT %s FROM marks m WHERE m.id = $1", markColumns)
	var mark models.Mark
	if err := r.db.GetContext(ctx, &mark, query, id); err != nil {
		return nil, err
	}
	return &mark, nil
}

// Create inserts a mark and returns the stored row.
func (r *MarkRepository) Create(ctx context.Context, mark *models.Mark) (*models.Mark, error) {
	query := fmt.Sprintf(`INSERT INTO marks AS m (enrollment_id, exam_type, score, max_score, remarks)
        VALUES ($1, $2, $3, $4, $5) RETURNING %s`, markColumns)
	var created models.Mark
	if err := r.db.GetContext(ctx, &created, query,
		mark.EnrollmentID, mark.ExamType, mark.Score, mark.MaxScore, mark.Remarks); err != nil {
		return nil, fmt.Errorf("create mark: %w", err)
	}
	return &created, nil
}

// Update applies only the supplied fields and refreshes updated_at.
func (r *MarkRepository) Update(ctx context.Context, id int64, patch models.MarkPatch) (*models.Mark, error) {
	var sets []string
	var args []interface{}

	if patch.ExamType != nil {
		sets = append(sets, fmt.Sprintf("exam_type = $%d", len(args)+1))
		args = append(args, *patch.ExamType)
	}
	if patch.Score != nil {
		sets = append(sets, fmt.Sprintf("score = $%d", len(args)+1))
		args = append(args, *patch.Score)
	}
	if patch.MaxScore != nil {
		sets = append(sets, fmt.Sprintf("max_score = $%d", len(args)+1))
		args = append(args, *patch.MaxScore)
	}
	if patch.Remarks != nil {
		sets = append(sets, fmt.Sprintf("remarks = $%d", len(args)+1))
		args = append(args, *patch.Remarks)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE marks AS m SET %s WHERE m.id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), markColumns)
	var updated models.Mark
	if err := r.db.GetContext(ctx, &updated, query, args...); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the mark and returns its prior state.
func (r *MarkRepository) Delete(ctx context.Context, id int64) (*models.Mark, error) {
	query := fmt.Sprintf("DELETE FROM marks AS m WHERE m.id = $1 RETURNING %s", markColumns)
	var deleted models.Mark
	if err := r.db.GetContext(ctx, &deleted, query, id); err != nil {
		return nil, err
	}
	return &deleted, nil
}
