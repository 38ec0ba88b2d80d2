package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procrastination-tracker/internal/database"
)

var analyticsSteps = []string{
	"TaskTotals",
	"CountDelayedTasks",
	"ReasonBreakdown",
	"EmotionBreakdown",
	"AverageDelay",
	"CategoryDelays",
	"DelayTrends",
}

func newAnalytics(store *fakeStore) *AnalyticsService {
	svc := NewAnalyticsService(store)
	svc.SetClock(func() time.Time { return time.Date(2024, 3, 10, 21, 0, 0, 0, time.UTC) })
	return svc
}

func TestAggregate(t *testing.T) {
	store := newFakeStore()
	store.totals = database.TaskTotals{Total: 12, Completed: 9}
	store.delayed = 4
	store.reasons = []database.ReasonCount{{ReasonText: "Distractions", Count: 3}, {ReasonText: "Fatigue", Count: 1}}
	store.emotions = []database.EmotionCount{{EmotionText: "Tired", Count: 4}}
	store.avgDelay = 42.5
	store.categories = []database.CategoryDelay{{Category: "Study", DelayCount: 3, AvgDelay: 50}}
	store.trends = []database.DelayTrend{{Date: "2024-03-01", DelayCount: 2, AvgDelay: 30}}

	result, err := newAnalytics(store).Aggregate(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, store.totals, result.TotalTasks)
	assert.Equal(t, 4, result.DelayedTasks)
	assert.Equal(t, store.reasons, result.ReasonsBreakdown)
	assert.Equal(t, store.emotions, result.EmotionsBreakdown)
	assert.Equal(t, 42.5, result.AvgDelay)
	assert.Equal(t, store.categories, result.CategoryDelays)
	assert.Equal(t, store.trends, result.DelayTrends)

	require.Len(t, store.windows, 1)
	assert.Equal(t, database.DateRange{Start: "2024-02-10", End: "2024-03-10"}, store.windows[0])
}

func TestAggregateEmptyUser(t *testing.T) {
	store := newFakeStore()
	store.avgDelay = math.NaN()

	result, err := newAnalytics(store).Aggregate(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 0, result.DelayedTasks)
	assert.Equal(t, 0.0, result.AvgDelay)
	assert.NotNil(t, result.ReasonsBreakdown)
	assert.NotNil(t, result.EmotionsBreakdown)
	assert.NotNil(t, result.CategoryDelays)
	assert.NotNil(t, result.DelayTrends)
	assert.Empty(t, result.DelayTrends)
}

func TestAggregateRequiresUser(t *testing.T) {
	store := newFakeStore()
	_, err := newAnalytics(store).Aggregate(context.Background(), 0)

	assert.True(t, errors.Is(err, ErrMissingParameter))
	for _, step := range analyticsSteps {
		assert.Zero(t, store.callCount(step), step)
	}
}

func TestAggregatePropagatesEachFailure(t *testing.T) {
	for _, step := range analyticsSteps {
		t.Run(step, func(t *testing.T) {
			boom := errors.New("disk I/O error")
			store := newFakeStore()
			store.fail[step] = boom

			result, err := newAnalytics(store).Aggregate(context.Background(), 1)

			assert.Nil(t, result)
			assert.True(t, errors.Is(err, ErrDataAccess))
			assert.True(t, errors.Is(err, boom))
			assert.False(t, IsClientError(err))
		})
	}
}

func TestAggregateFailureCancelsSiblings(t *testing.T) {
	store := newFakeStore()
	store.fail["TaskTotals"] = errors.New("locked")
	for _, step := range analyticsSteps[1:] {
		store.block[step] = true
	}

	done := make(chan error, 1)
	go func() {
		_, err := newAnalytics(store).Aggregate(context.Background(), 1)
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "task totals")
	case <-time.After(2 * time.Second):
		t.Fatal("aggregate did not return after a sub-query failed")
	}
}

func TestAggregateHonoursCallerCancellation(t *testing.T) {
	store := newFakeStore()
	store.block["DelayTrends"] = true

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := newAnalytics(store).Aggregate(ctx, 1)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, errors.Is(err, ErrDataAccess))
}

func TestAggregateIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.delayed = 2
	store.reasons = []database.ReasonCount{{ReasonText: "Fear of failure", Count: 2}}
	svc := newAnalytics(store)

	first, err := svc.Aggregate(context.Background(), 3)
	require.NoError(t, err)
	second, err := svc.Aggregate(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregateUsesCache(t *testing.T) {
	store := newFakeStore()
	store.delayed = 5
	cache := newMemoryCache()
	svc := newAnalytics(store)
	svc.SetCache(cache)

	first, err := svc.Aggregate(context.Background(), 2)
	require.NoError(t, err)
	second, err := svc.Aggregate(context.Background(), 2)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, store.callCount("CountDelayedTasks"))
}

func TestAggregateCacheIsScopedToTheDay(t *testing.T) {
	store := newFakeStore()
	cache := newMemoryCache()
	svc := newAnalytics(store)
	svc.SetCache(cache)
	ctx := context.Background()

	_, err := svc.Aggregate(ctx, 2)
	require.NoError(t, err)

	svc.SetClock(func() time.Time { return time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC) })
	_, err = svc.Aggregate(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, store.callCount("CountDelayedTasks"), "a new day recomputes")
	require.Len(t, store.windows, 2)
	assert.Equal(t, database.DateRange{Start: "2024-02-11", End: "2024-03-11"}, store.windows[1])

	require.NoError(t, cache.InvalidateUser(ctx, 2))
	assert.Empty(t, cache.analytics)
}

func TestAggregateBypassesBrokenCache(t *testing.T) {
	store := newFakeStore()
	store.delayed = 1
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	svc := newAnalytics(store)
	svc.SetCache(cache)

	result, err := svc.Aggregate(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, result.DelayedTasks)
}

func TestDashboard(t *testing.T) {
	store := newFakeStore()
	store.dashboard = database.DashboardStats{TotalTasks: 3, CompletedTasks: 1, ProcrastinationLogs: 2, FocusMinutes: 95}

	stats, err := newAnalytics(store).Dashboard(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, store.dashboard, *stats)

	store.fail["DashboardStats"] = errors.New("gone")
	_, err = newAnalytics(store).Dashboard(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrDataAccess))
}
