package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campushq/school-records-api/internal/events"
	"github.com/campushq/school-records-api/internal/models"
)

const dashboardCacheKey = "dashboard:stats"

type statsRepository interface {
	Counts(ctx context.Context) (*models.DashboardStats, error)
}

// DashboardService serves entity counts for the landing page, cached with
// a TTL and invalidated whenever any entity changes.
type DashboardService struct {
	repo   statsRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewDashboardService constructs DashboardService.
func NewDashboardService(repo statsRepository, cache *CacheService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, logger: logger}
}

// Stats returns entity counts. The second return reports a cache hit.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	var cached models.DashboardStats
	if hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	stats, err := s.repo.Counts(ctx)
	if err != nil {
		s.logger.Error("dashboard stats failed", zap.Error(err))
		return nil, false, opError("dashboard stats", err)
	}

	_ = s.cache.Set(ctx, dashboardCacheKey, stats, 0)
	return stats, false, nil
}

// Notify implements events.Subscriber: any entity change invalidates the
// cached counts.
func (s *DashboardService) Notify(events.Event) {
	_ = s.cache.Invalidate(context.Background(), dashboardCacheKey)
}
