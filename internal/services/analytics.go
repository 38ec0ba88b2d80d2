package services

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"procrastination-tracker/internal/database"
	"procrastination-tracker/internal/utils"
)

// trendWindowDays is the number of calendar days, today included, covered by delayTrends.
const trendWindowDays = 30

type AnalyticsResult struct {
	TotalTasks        database.TaskTotals      `json:"totalTasks"`
	DelayedTasks      int                      `json:"delayedTasks"`
	ReasonsBreakdown  []database.ReasonCount   `json:"reasonsBreakdown"`
	EmotionsBreakdown []database.EmotionCount  `json:"emotionsBreakdown"`
	AvgDelay          float64                  `json:"avgDelay"`
	CategoryDelays    []database.CategoryDelay `json:"categoryDelays"`
	DelayTrends       []database.DelayTrend    `json:"delayTrends"`
}

type AnalyticsService struct {
	store AnalyticsStore
	cache ReportCache
	now   func() time.Time
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{
		store: store,
		now:   time.Now,
	}
}

func (as *AnalyticsService) SetCache(cache ReportCache) {
	as.cache = cache
}

func (as *AnalyticsService) SetClock(now func() time.Time) {
	as.now = now
}

// Aggregate computes the user's all-time statistics. The reads run
// concurrently and the first failure aborts the rest.
func (as *AnalyticsService) Aggregate(ctx context.Context, userID int64) (*AnalyticsResult, error) {
	if userID <= 0 {
		return nil, missingParameter("user_id")
	}

	today := as.now().UTC()
	day := utils.FormatDate(today)
	if as.cache != nil {
		cached, err := as.cache.GetAnalytics(ctx, userID, day)
		if err != nil {
			log.Printf("⚠️ Analytics cache read failed for user %d: %v", userID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	window := database.DateRange{
		Start: utils.FormatDate(today.AddDate(0, 0, -(trendWindowDays - 1))),
		End:   day,
	}

	result := &AnalyticsResult{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		totals, err := as.store.TaskTotals(gctx, userID)
		if err != nil {
			return dataAccess("task totals", err)
		}
		result.TotalTasks = totals
		return nil
	})
	g.Go(func() error {
		delayed, err := as.store.CountDelayedTasks(gctx, userID)
		if err != nil {
			return dataAccess("delayed tasks", err)
		}
		result.DelayedTasks = delayed
		return nil
	})
	g.Go(func() error {
		reasons, err := as.store.ReasonBreakdown(gctx, userID)
		if err != nil {
			return dataAccess("reasons breakdown", err)
		}
		result.ReasonsBreakdown = reasons
		return nil
	})
	g.Go(func() error {
		emotions, err := as.store.EmotionBreakdown(gctx, userID)
		if err != nil {
			return dataAccess("emotions breakdown", err)
		}
		result.EmotionsBreakdown = emotions
		return nil
	})
	g.Go(func() error {
		avg, err := as.store.AverageDelay(gctx, userID)
		if err != nil {
			return dataAccess("average delay", err)
		}
		result.AvgDelay = finite(avg)
		return nil
	})
	g.Go(func() error {
		categories, err := as.store.CategoryDelays(gctx, userID)
		if err != nil {
			return dataAccess("category delays", err)
		}
		result.CategoryDelays = categories
		return nil
	})
	g.Go(func() error {
		trends, err := as.store.DelayTrends(gctx, userID, window)
		if err != nil {
			return dataAccess("delay trends", err)
		}
		result.DelayTrends = trends
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.normalise()

	if as.cache != nil {
		if err := as.cache.SetAnalytics(ctx, userID, day, result); err != nil {
			log.Printf("⚠️ Analytics cache write failed for user %d: %v", userID, err)
		}
	}

	return result, nil
}

// Dashboard returns the headline counters shown on the home screen.
func (as *AnalyticsService) Dashboard(ctx context.Context, userID int64) (*database.DashboardStats, error) {
	if userID <= 0 {
		return nil, missingParameter("user_id")
	}
	stats, err := as.store.DashboardStats(ctx, userID)
	if err != nil {
		return nil, dataAccess("dashboard stats", err)
	}
	return &stats, nil
}

func (r *AnalyticsResult) normalise() {
	if r.ReasonsBreakdown == nil {
		r.ReasonsBreakdown = []database.ReasonCount{}
	}
	if r.EmotionsBreakdown == nil {
		r.EmotionsBreakdown = []database.EmotionCount{}
	}
	if r.CategoryDelays == nil {
		r.CategoryDelays = []database.CategoryDelay{}
	}
	if r.DelayTrends == nil {
		r.DelayTrends = []database.DelayTrend{}
	}
	for i := range r.CategoryDelays {
		r.CategoryDelays[i].AvgDelay = finite(r.CategoryDelays[i].AvgDelay)
	}
	for i := range r.DelayTrends {
		r.DelayTrends[i].AvgDelay = finite(r.DelayTrends[i].AvgDelay)
	}
}
