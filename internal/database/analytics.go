package database

import (
	"context"
	"database/sql"
)

// Read-only aggregation queries used by the analytics and weekly report
// services. Every filter value is bound as a parameter.

const delayJoin = `
	FROM procrastination_logs pl
	JOIN procrastination_details pd ON pl.log_id = pd.log_id
`

func (r *Repository) TaskTotals(ctx context.Context, userID int64) (TaskTotals, error) {
	var totals TaskTotals
	err := r.Db.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) AS total_tasks,
			COALESCE(SUM(CASE WHEN t.status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_tasks
		FROM tasks t
		JOIN user_tasks ut ON t.task_id = ut.task_id
		WHERE ut.user_id = ?
	`, userID).Scan(&totals.Total, &totals.Completed)
	return totals, err
}

func (r *Repository) CountDelayedTasks(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.Db.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT task_id) AS delayed_tasks
		FROM procrastination_logs
		WHERE user_id = ?
	`, userID).Scan(&count)
	return count, err
}

func (r *Repository) ReasonBreakdown(ctx context.Context, userID int64) ([]ReasonCount, error) {
	rows, err := r.Db.db.QueryContext(ctx, `
		SELECT r.reason_text, COUNT(*) AS count`+delayJoin+`
		JOIN reasons r ON pd.reason_id = r.reason_id
		WHERE pl.user_id = ?
		GROUP BY r.reason_id, r.reason_text
		ORDER BY count DESC, r.reason_text ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]ReasonCount, 0)
	for rows.Next() {
		var item ReasonCount
		if err := rows.Scan(&item.ReasonText, &item.Count); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *Repository) EmotionBreakdown(ctx context.Context, userID int64) ([]EmotionCount, error) {
	rows, err := r.Db.db.QueryContext(ctx, `
		SELECT e.emotion_text, COUNT(*) AS count`+delayJoin+`
		JOIN emotional_states e ON pd.emotion_id = e.emotion_id
		WHERE pl.user_id = ?
		GROUP BY e.emotion_id, e.emotion_text
		ORDER BY count DESC, e.emotion_text ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]EmotionCount, 0)
	for rows.Next() {
		var item EmotionCount
		if err := rows.Scan(&item.EmotionText, &item.Count); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *Repository) AverageDelay(ctx context.Context, userID int64) (float64, error) {
	var avg sql.NullFloat64
	err := r.Db.db.QueryRowContext(ctx, `
		SELECT AVG(pd.delay_duration) AS avg_delay`+delayJoin+`
		WHERE pl.user_id = ?
	`, userID).Scan(&avg)
	return avg.Float64, err
}

func (r *Repository) CategoryDelays(ctx context.Context, userID int64) ([]CategoryDelay, error) {
	rows, err := r.Db.db.QueryContext(ctx, `
		SELECT t.category, COUNT(*) AS delay_count, AVG(pd.delay_duration) AS avg_delay`+delayJoin+`
		JOIN tasks t ON t.task_id = pl.task_id
		WHERE pl.user_id = ?
		GROUP BY t.category
		ORDER BY delay_count DESC, t.category ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]CategoryDelay, 0)
	for rows.Next() {
		var item CategoryDelay
		var avg sql.NullFloat64
		if err := rows.Scan(&item.Category, &item.DelayCount, &avg); err != nil {
			return nil, err
		}
		item.AvgDelay = avg.Float64
		result = append(result, item)
	}
	return result, rows.Err()
}

// DelayTrends groups the user's delays per logged day inside window.
func (r *Repository) DelayTrends(ctx context.Context, userID int64, window DateRange) ([]DelayTrend, error) {
	rows, err := r.Db.db.QueryContext(ctx, `
		SELECT DATE(pd.logged_date) AS date, COUNT(*) AS delay_count, AVG(pd.delay_duration) AS avg_delay`+delayJoin+`
		WHERE pl.user_id = ? AND DATE(pd.logged_date) BETWEEN ? AND ?
		GROUP BY DATE(pd.logged_date)
		ORDER BY date ASC
	`, userID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]DelayTrend, 0)
	for rows.Next() {
		var item DelayTrend
		var avg sql.NullFloat64
		if err := rows.Scan(&item.Date, &item.DelayCount, &avg); err != nil {
			return nil, err
		}
		item.AvgDelay = avg.Float64
		result = append(result, item)
	}
	return result, rows.Err()
}

// Weekly report queries. Tasks are scoped by assignment date, delays by
// logged date.

func (r *Repository) CountAssignedTasks(ctx context.Context, userID int64, week DateRange) (int, error) {
	var count int
	err := r.Db.db.QueryRowContext(ctx, `
		SELECT COUNT(*) AS total_tasks
		FROM tasks t
		JOIN user_tasks ut ON t.task_id = ut.task_id
		WHERE ut.user_id = ? AND DATE(ut.date_of_assigned) BETWEEN ? AND ?
	`, userID, week.Start, week.End).Scan(&count)
	return count, err
}

func (r *Repository) CountCompletedTasks(ctx context.Context, userID int64, week DateRange) (int, error) {
	var count int
	err := r.Db.db.QueryRowContext(ctx, `
		SELECT COUNT(*) AS completed_tasks
		FROM tasks t
		JOIN user_tasks ut ON t.task_id = ut.task_id
		WHERE ut.user_id = ? AND DATE(ut.date_of_assigned) BETWEEN ? AND ?
			AND t.status = 'completed'
	`, userID, week.Start, week.End).Scan(&count)
	return count, err
}

// CountDelayedTasksInRange counts tasks both assigned and logged late inside week.
func (r *Repository) CountDelayedTasksInRange(ctx context.Context, userID int64, week DateRange) (int, error) {
	var count int
	err := r.Db.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT pl.task_id) AS delayed_tasks`+delayJoin+`
		JOIN user_tasks ut ON ut.task_id = pl.task_id AND ut.user_id = pl.user_id
		WHERE pl.user_id = ?
			AND DATE(pd.logged_date) BETWEEN ? AND ?
			AND DATE(ut.date_of_assigned) BETWEEN ? AND ?
	`, userID, week.Start, week.End, week.Start, week.End).Scan(&count)
	return count, err
}

func (r *Repository) AverageDelayInRange(ctx context.Context, userID int64, week DateRange) (float64, error) {
	var avg sql.NullFloat64
	err := r.Db.db.QueryRowContext(ctx, `
		SELECT AVG(pd.delay_duration) AS avg_delay`+delayJoin+`
		WHERE pl.user_id = ? AND DATE(pd.logged_date) BETWEEN ? AND ?
	`, userID, week.Start, week.End).Scan(&avg)
	return avg.Float64, err
}

// AveragePlannedDuration averages whole planned minutes per task.
func (r *Repository) AveragePlannedDuration(ctx context.Context, userID int64, week DateRange) (float64, error) {
	var avg sql.NullFloat64
	err := r.Db.db.QueryRowContext(ctx, `
		SELECT AVG((strftime('%s', t.planned_end) - strftime('%s', t.planned_start)) / 60) AS avg_planned_duration
		FROM tasks t
		JOIN user_tasks ut ON t.task_id = ut.task_id
		WHERE ut.user_id = ? AND DATE(ut.date_of_assigned) BETWEEN ? AND ?
	`, userID, week.Start, week.End).Scan(&avg)
	return avg.Float64, err
}

func (r *Repository) DailyDelayTrend(ctx context.Context, userID int64, week DateRange) ([]DailyDelay, error) {
	rows, err := r.Db.db.QueryContext(ctx, `
		SELECT DATE(pd.logged_date) AS day, COUNT(*) AS delay_count, AVG(pd.delay_duration) AS avg_delay`+delayJoin+`
		WHERE pl.user_id = ? AND DATE(pd.logged_date) BETWEEN ? AND ?
		GROUP BY DATE(pd.logged_date)
		ORDER BY day ASC
	`, userID, week.Start, week.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]DailyDelay, 0)
	for rows.Next() {
		var item DailyDelay
		var avg sql.NullFloat64
		if err := rows.Scan(&item.Day, &item.DelayCount, &avg); err != nil {
			return nil, err
		}
		item.AvgDelay = avg.Float64
		result = append(result, item)
	}
	return result, rows.Err()
}

// DashboardStats summarises tasks and logs; focus time sums actual work
// minutes over tasks that were both started and finished.
func (r *Repository) DashboardStats(ctx context.Context, userID int64) (DashboardStats, error) {
	var stats DashboardStats
	var focus sql.NullFloat64
	err := r.Db.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN t.status = 'completed' THEN 1 ELSE 0 END), 0),
			SUM(CASE WHEN t.actual_start IS NOT NULL AND t.actual_end IS NOT NULL
				THEN (julianday(t.actual_end) - julianday(t.actual_start)) * 1440.0 END)
		FROM tasks t
		JOIN user_tasks ut ON t.task_id = ut.task_id
		WHERE ut.user_id = ?
	`, userID).Scan(&stats.TotalTasks, &stats.CompletedTasks, &focus)
	if err != nil {
		return DashboardStats{}, err
	}
	stats.FocusMinutes = int(focus.Float64 + 0.5)

	err = r.Db.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM procrastination_logs WHERE user_id = ?
	`, userID).Scan(&stats.ProcrastinationLogs)
	if err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}
