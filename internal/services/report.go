package services

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"procrastination-tracker/internal/database"
	"procrastination-tracker/internal/utils"
)

type WeeklyReport struct {
	WeekStart          string                `json:"week_start"`
	WeekEnd            string                `json:"week_end"`
	TotalTasks         int                   `json:"total_tasks"`
	CompletedTasks     int                   `json:"completed_tasks"`
	DelayedTasks       int                   `json:"delayed_tasks"`
	AvgDelay           float64               `json:"avg_delay"`
	AvgPlannedDuration float64               `json:"avg_planned_duration"`
	DailyTrend         []database.DailyDelay `json:"daily_trend"`
	ProductivityScore  float64               `json:"productivity_score"`
	GeneratedAt        string                `json:"generated_at"`
}

type ReportService struct {
	store   ReportStore
	cache   ReportCache
	weights ScoreWeights
	now     func() time.Time
}

func NewReportService(store ReportStore, weights ScoreWeights) *ReportService {
	return &ReportService{
		store:   store,
		weights: weights,
		now:     time.Now,
	}
}

func (rs *ReportService) SetCache(cache ReportCache) {
	rs.cache = cache
}

func (rs *ReportService) SetClock(now func() time.Time) {
	rs.now = now
}

// Generate builds the report for the Monday–Sunday week containing referenceDate.
func (rs *ReportService) Generate(ctx context.Context, userID int64, referenceDate string) (*WeeklyReport, error) {
	if userID <= 0 {
		return nil, missingParameter("user_id")
	}
	week, err := ParseWeek(referenceDate)
	if err != nil {
		return nil, err
	}
	return rs.GenerateForWeek(ctx, userID, week)
}

// CurrentWeek builds the report for the week containing the service clock's today.
func (rs *ReportService) CurrentWeek(ctx context.Context, userID int64) (*WeeklyReport, error) {
	if userID <= 0 {
		return nil, missingParameter("user_id")
	}
	return rs.GenerateForWeek(ctx, userID, rs.CurrentRange())
}

// CurrentRange is the week containing the service clock's UTC date.
func (rs *ReportService) CurrentRange() WeekRange {
	return ResolveWeek(rs.now().UTC())
}

func (rs *ReportService) GenerateForWeek(ctx context.Context, userID int64, week WeekRange) (*WeeklyReport, error) {
	if userID <= 0 {
		return nil, missingParameter("user_id")
	}

	if rs.cache != nil {
		cached, err := rs.cache.GetWeeklyReport(ctx, userID, week.Start)
		if err != nil {
			log.Printf("⚠️ Report cache read failed for user %d week %s: %v", userID, week.Start, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	scope := week.DateRange()
	report := &WeeklyReport{WeekStart: week.Start, WeekEnd: week.End}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := rs.store.CountAssignedTasks(gctx, userID, scope)
		if err != nil {
			return dataAccess("total tasks", err)
		}
		report.TotalTasks = total
		return nil
	})
	g.Go(func() error {
		completed, err := rs.store.CountCompletedTasks(gctx, userID, scope)
		if err != nil {
			return dataAccess("completed tasks", err)
		}
		report.CompletedTasks = completed
		return nil
	})
	g.Go(func() error {
		delayed, err := rs.store.CountDelayedTasksInRange(gctx, userID, scope)
		if err != nil {
			return dataAccess("delayed tasks", err)
		}
		report.DelayedTasks = delayed
		return nil
	})
	g.Go(func() error {
		avg, err := rs.store.AverageDelayInRange(gctx, userID, scope)
		if err != nil {
			return dataAccess("average delay", err)
		}
		report.AvgDelay = finite(avg)
		return nil
	})
	g.Go(func() error {
		avg, err := rs.store.AveragePlannedDuration(gctx, userID, scope)
		if err != nil {
			return dataAccess("average planned duration", err)
		}
		report.AvgPlannedDuration = finite(avg)
		return nil
	})
	g.Go(func() error {
		trend, err := rs.store.DailyDelayTrend(gctx, userID, scope)
		if err != nil {
			return dataAccess("daily trend", err)
		}
		report.DailyTrend = trend
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if report.DailyTrend == nil {
		report.DailyTrend = []database.DailyDelay{}
	}
	for i := range report.DailyTrend {
		report.DailyTrend[i].AvgDelay = finite(report.DailyTrend[i].AvgDelay)
	}

	report.ProductivityScore = ProductivityScore(
		report.TotalTasks,
		report.CompletedTasks,
		report.DelayedTasks,
		report.AvgDelay,
		rs.weights,
	)
	report.GeneratedAt = utils.FormatISO(rs.now())

	if rs.cache != nil {
		if err := rs.cache.SetWeeklyReport(ctx, userID, report); err != nil {
			log.Printf("⚠️ Report cache write failed for user %d week %s: %v", userID, week.Start, err)
		}
	}

	return report, nil
}
