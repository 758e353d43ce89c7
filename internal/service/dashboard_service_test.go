package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-records-api/internal/events"
	"github.com/campushq/school-records-api/internal/models"
	appErrors "github.com/campushq/school-records-api/pkg/errors"
)

type mockStatsRepo struct {
	stats models.DashboardStats
	calls int
}

func (m *mockStatsRepo) Counts(ctx context.Context) (*models.DashboardStats, error) {
	m.calls++
	stats := m.stats
	return &stats, nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	payload, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = payload
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	delete(m.entries, pattern)
	return nil
}

func TestDashboardServiceStatsCachesCounts(t *testing.T) {
	repo := &mockStatsRepo{stats: models.DashboardStats{StudentCount: 120, FacultyCount: 15, CourseCount: 30, DepartmentCount: 5}}
	cache := NewCacheService(&memoryCacheRepo{}, nil, time.Minute, nil, true)
	svc := NewDashboardService(repo, cache, nil)

	stats, hit, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 120, stats.StudentCount)
	assert.Equal(t, 1, repo.calls)

	stats, hit, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 120, stats.StudentCount)
	assert.Equal(t, 1, repo.calls)
}

func TestDashboardServiceNotifyInvalidatesCache(t *testing.T) {
	repo := &mockStatsRepo{stats: models.DashboardStats{StudentCount: 120}}
	cache := NewCacheService(&memoryCacheRepo{}, nil, time.Minute, nil, true)
	svc := NewDashboardService(repo, cache, nil)

	_, _, err := svc.Stats(context.Background())
	require.NoError(t, err)

	svc.Notify(events.Event{Entity: events.EntityStudent, ID: 1, Action: events.ActionCreated})

	_, hit, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, repo.calls)
}

func TestDashboardServiceStatsWithoutCache(t *testing.T) {
	repo := &mockStatsRepo{stats: models.DashboardStats{CourseCount: 3}}
	svc := NewDashboardService(repo, nil, nil)

	stats, hit, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, stats.CourseCount)

	_, _, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}
