package services

import (
	"context"

	"procrastination-tracker/internal/database"
)

// AnalyticsStore is the all-time read side used by AnalyticsService.
type AnalyticsStore interface {
	TaskTotals(ctx context.Context, userID int64) (database.TaskTotals, error)
	CountDelayedTasks(ctx context.Context, userID int64) (int, error)
	ReasonBreakdown(ctx context.Context, userID int64) ([]database.ReasonCount, error)
	EmotionBreakdown(ctx context.Context, userID int64) ([]database.EmotionCount, error)
	AverageDelay(ctx context.Context, userID int64) (float64, error)
	CategoryDelays(ctx context.Context, userID int64) ([]database.CategoryDelay, error)
	DelayTrends(ctx context.Context, userID int64, window database.DateRange) ([]database.DelayTrend, error)
	DashboardStats(ctx context.Context, userID int64) (database.DashboardStats, error)
}

// ReportStore is the week-scoped read side used by ReportService.
type ReportStore interface {
	CountAssignedTasks(ctx context.Context, userID int64, week database.DateRange) (int, error)
	CountCompletedTasks(ctx context.Context, userID int64, week database.DateRange) (int, error)
	CountDelayedTasksInRange(ctx context.Context, userID int64, week database.DateRange) (int, error)
	AverageDelayInRange(ctx context.Context, userID int64, week database.DateRange) (float64, error)
	AveragePlannedDuration(ctx context.Context, userID int64, week database.DateRange) (float64, error)
	DailyDelayTrend(ctx context.Context, userID int64, week database.DateRange) ([]database.DailyDelay, error)
}

// ReportCache stores computed results. A miss is (nil, nil).
type ReportCache interface {
	// Analytics are keyed by the UTC day they were computed for, since the
	// trend window moves with it.
	GetAnalytics(ctx context.Context, userID int64, day string) (*AnalyticsResult, error)
	SetAnalytics(ctx context.Context, userID int64, day string, result *AnalyticsResult) error
	GetWeeklyReport(ctx context.Context, userID int64, weekStart string) (*WeeklyReport, error)
	SetWeeklyReport(ctx context.Context, userID int64, report *WeeklyReport) error
	InvalidateUser(ctx context.Context, userID int64) error
}
