package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/school-records-api/internal/events"
	"github.com/campushq/school-records-api/internal/models"
	"github.com/campushq/school-records-api/internal/stats"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
)

type markRepository interface {
	ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.Mark, error)
	FindByID(ctx context.Context, id int64) (*models.Mark, error)
	Create(ctx context.Context, mark *models.Mark) (*models.Mark, error)
	Update(ctx context.Context, id int64, patch models.MarkPatch) (*models.Mark, error)
	Delete(ctx context.Context, id int64) (*models.Mark, error)
}

// AddMarkRequest describes mark creation input.
type AddMarkRequest struct {
	EnrollmentID int64   `json:"enrollment_id" validate:"required"`
	ExamType     string  `json:"exam_type" validate:"required"`
	Score        float64 `json:"score" validate:"gte=0"`
	MaxScore     float64 `json:"max_score" validate:"required,gt=0"`
	Remarks      *string `json:"remarks"`
}

// UpdateMarkRequest is a merge-patch: absent fields stay untouched.
type UpdateMarkRequest struct {
	ExamType *string  `json:"exam_type" validate:"omitempty,min=1"`
	Score    *float64 `json:"score" validate:"omitempty,gte=0"`
	MaxScore *float64 `json:"max_score" validate:"omitempty,gt=0"`
	Remarks  *string  `json:"remarks"`
}

// MarkSheet pairs an enrollment's marks with their derived percentage.
type MarkSheet struct {
	Marks             []models.Mark `json:"marks"`
	AveragePercentage float64       `json:"average_percentage"`
}

// MarkService orchestrates exam mark operations. Scores may not exceed
// the maximum score; the schema does not enforce this, so the service
// rejects it before any write.
type MarkService struct {
	repo      markRepository
	validator *validator.Validate
	publisher events.Publisher
	logger    *zap.Logger
}

// NewMarkService constructs MarkService.
func NewMarkService(repo markRepository, validate *validator.Validate, publisher events.Publisher, logger *zap.Logger) *MarkService {
	if validate == nil {
		validate = validator.New()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarkService{repo: repo, validator: validate, publisher: publisher, logger: logger}
}

// ListByEnrollment returns an enrollment's marks with their average percentage.
func (s *MarkService) ListByEnrollment(ctx context.Context, enrollmentID int64) (*MarkSheet, error) {
	marks, err := s.repo.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		s.logger.Error("list marks failed", zap.Int64("enrollment_id", enrollmentID), zap.Error(err))
		return nil, opError("list marks", err)
	}
	return &MarkSheet{
		Marks:             marks,
		AveragePercentage: stats.AverageMarkPercentage(marks, stats.DefaultPrecision),
	}, nil
}

// Get returns the mark with the given id.
func (s *MarkService) Get(ctx context.Context, id int64) (*models.Mark, error) {
	mark, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mark not found")
		}
		s.logger.Error("get mark failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("get mark", err)
	}
	return mark, nil
}

// Create validates and inserts a mark.
func (s *MarkService) Create(ctx context.Context, req AddMarkRequest) (*models.Mark, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mark payload")
	}
	if req.Score > req.MaxScore {
		return nil, appErrors.Clone(appErrors.ErrValidation, "score cannot exceed max score")
	}
	mark := &models.Mark{
		EnrollmentID: req.EnrollmentID,
		ExamType:     req.ExamType,
		Score:        req.Score,
		MaxScore:     req.MaxScore,
		Remarks:      req.Remarks,
	}
	created, err := s.repo.Create(ctx, mark)
	if err != nil {
		s.logger.Error("create mark failed", zap.Int64("enrollment_id", req.EnrollmentID), zap.Error(err))
		return nil, opError("create mark", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityMark, ID: created.ID, Action: events.ActionCreated})
	return created, nil
}

// Update applies a merge-patch to an existing mark. When either side of
// the score pair changes, the resulting pair is re-checked against the
// score-exceeds-max rule.
func (s *MarkService) Update(ctx context.Context, id int64, req UpdateMarkRequest) (*models.Mark, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mark payload")
	}
	if req.Score != nil || req.MaxScore != nil {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "mark not found")
			}
			return nil, opError("update mark", err)
		}
		score := current.Score
		maxScore := current.MaxScore
		if req.Score != nil {
			score = *req.Score
		}
		if req.MaxScore != nil {
			maxScore = *req.MaxScore
		}
		if score > maxScore {
			return nil, appErrors.Clone(appErrors.ErrValidation, "score cannot exceed max score")
		}
	}
	patch := models.MarkPatch{
		ExamType: req.ExamType,
		Score:    req.Score,
		MaxScore: req.MaxScore,
		Remarks:  req.Remarks,
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mark not found")
		}
		s.logger.Error("update mark failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("update mark", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityMark, ID: id, Action: events.ActionUpdated})
	return updated, nil
}

// Delete removes a mark and returns its prior state.
func (s *MarkService) Delete(ctx context.Context, id int64) (*models.Mark, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mark not found")
		}
		s.logger.Error("delete mark failed", zap.Int64("id", id), zap.Error(err))
		return nil, opError("delete mark", err)
	}
	s.publisher.Publish(events.Event{Entity: events.EntityMark, ID: id, Action: events.ActionDeleted})
	return deleted, nil
}
