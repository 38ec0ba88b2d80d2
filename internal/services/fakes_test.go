package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"procrastination-tracker/internal/database"
)

// fakeStore serves canned results. A step listed in fail returns that
// error; a step listed in block waits for cancellation.
type fakeStore struct {
	mu      sync.Mutex
	calls   map[string]int
	windows []database.DateRange
	fail    map[string]error
	block   map[string]bool

	totals     database.TaskTotals
	delayed    int
	reasons    []database.ReasonCount
	emotions   []database.EmotionCount
	avgDelay   float64
	categories []database.CategoryDelay
	trends     []database.DelayTrend
	dashboard  database.DashboardStats

	weekTotal    int
	weekDone     int
	weekDelayed  int
	weekAvgDelay float64
	weekPlanned  float64
	daily        []database.DailyDelay
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		calls: map[string]int{},
		fail:  map[string]error{},
		block: map[string]bool{},
	}
}

func (f *fakeStore) step(ctx context.Context, name string) error {
	f.mu.Lock()
	f.calls[name]++
	err, blocked := f.fail[name], f.block[name]
	f.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (f *fakeStore) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeStore) TaskTotals(ctx context.Context, _ int64) (database.TaskTotals, error) {
	return f.totals, f.step(ctx, "TaskTotals")
}

func (f *fakeStore) CountDelayedTasks(ctx context.Context, _ int64) (int, error) {
	return f.delayed, f.step(ctx, "CountDelayedTasks")
}

func (f *fakeStore) ReasonBreakdown(ctx context.Context, _ int64) ([]database.ReasonCount, error) {
	return f.reasons, f.step(ctx, "ReasonBreakdown")
}

func (f *fakeStore) EmotionBreakdown(ctx context.Context, _ int64) ([]database.EmotionCount, error) {
	return f.emotions, f.step(ctx, "EmotionBreakdown")
}

func (f *fakeStore) AverageDelay(ctx context.Context, _ int64) (float64, error) {
	return f.avgDelay, f.step(ctx, "AverageDelay")
}

func (f *fakeStore) CategoryDelays(ctx context.Context, _ int64) ([]database.CategoryDelay, error) {
	return f.categories, f.step(ctx, "CategoryDelays")
}

func (f *fakeStore) DelayTrends(ctx context.Context, _ int64, window database.DateRange) ([]database.DelayTrend, error) {
	f.mu.Lock()
	f.windows = append(f.windows, window)
	f.mu.Unlock()
	return f.trends, f.step(ctx, "DelayTrends")
}

func (f *fakeStore) DashboardStats(ctx context.Context, _ int64) (database.DashboardStats, error) {
	return f.dashboard, f.step(ctx, "DashboardStats")
}

func (f *fakeStore) CountAssignedTasks(ctx context.Context, _ int64, _ database.DateRange) (int, error) {
	return f.weekTotal, f.step(ctx, "CountAssignedTasks")
}

func (f *fakeStore) CountCompletedTasks(ctx context.Context, _ int64, _ database.DateRange) (int, error) {
	return f.weekDone, f.step(ctx, "CountCompletedTasks")
}

func (f *fakeStore) CountDelayedTasksInRange(ctx context.Context, _ int64, _ database.DateRange) (int, error) {
	return f.weekDelayed, f.step(ctx, "CountDelayedTasksInRange")
}

func (f *fakeStore) AverageDelayInRange(ctx context.Context, _ int64, _ database.DateRange) (float64, error) {
	return f.weekAvgDelay, f.step(ctx, "AverageDelayInRange")
}

func (f *fakeStore) AveragePlannedDuration(ctx context.Context, _ int64, _ database.DateRange) (float64, error) {
	return f.weekPlanned, f.step(ctx, "AveragePlannedDuration")
}

func (f *fakeStore) DailyDelayTrend(ctx context.Context, _ int64, _ database.DateRange) ([]database.DailyDelay, error) {
	return f.daily, f.step(ctx, "DailyDelayTrend")
}

// memoryCache is an in-process ReportCache.
type memoryCache struct {
	mu          sync.Mutex
	analytics   map[string]*AnalyticsResult
	weekly      map[string]*WeeklyReport
	invalidated []int64
	getErr      error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		analytics: map[string]*AnalyticsResult{},
		weekly:    map[string]*WeeklyReport{},
	}
}

func weeklyCacheKey(userID int64, weekStart string) string {
	return fmt.Sprintf("%d/%s", userID, weekStart)
}

func analyticsCacheKey(userID int64, day string) string {
	return fmt.Sprintf("%d/%s", userID, day)
}

func (c *memoryCache) GetAnalytics(_ context.Context, userID int64, day string) (*AnalyticsResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.analytics[analyticsCacheKey(userID, day)], nil
}

func (c *memoryCache) SetAnalytics(_ context.Context, userID int64, day string, result *AnalyticsResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.analytics[analyticsCacheKey(userID, day)] = result
	return nil
}

func (c *memoryCache) GetWeeklyReport(_ context.Context, userID int64, weekStart string) (*WeeklyReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.weekly[weeklyCacheKey(userID, weekStart)], nil
}

func (c *memoryCache) SetWeeklyReport(_ context.Context, userID int64, report *WeeklyReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.weekly[weeklyCacheKey(userID, report.WeekStart)] = report
	return nil
}

func (c *memoryCache) InvalidateUser(_ context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, userID)
	prefix := fmt.Sprintf("%d/", userID)
	for key := range c.analytics {
		if strings.HasPrefix(key, prefix) {
			delete(c.analytics, key)
		}
	}
	for key := range c.weekly {
		if strings.HasPrefix(key, prefix) {
			delete(c.weekly, key)
		}
	}
	return nil
}
