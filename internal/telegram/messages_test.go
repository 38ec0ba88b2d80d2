package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"procrastination-tracker/internal/database"
	"procrastination-tracker/internal/services"
)

func TestFormatWeeklyReport(t *testing.T) {
	report := &services.WeeklyReport{
		WeekStart:          "2024-01-01",
		WeekEnd:            "2024-01-07",
		TotalTasks:         10,
		CompletedTasks:     8,
		DelayedTasks:       2,
		AvgDelay:           60,
		AvgPlannedDuration: 90,
		DailyTrend: []database.DailyDelay{
			{Day: "2024-01-02", DelayCount: 1, AvgDelay: 10},
			{Day: "2024-01-04", DelayCount: 1, AvgDelay: 110},
		},
		ProductivityScore: 54,
	}

	text := FormatWeeklyReport(report)

	assert.Contains(t, text, "2024-01-01 - 2024-01-07")
	assert.Contains(t, text, "👍 Productivity score: <b>54/100</b>")
	assert.Contains(t, text, "Completed: 8/10 (80%)")
	assert.Contains(t, text, "🟡 Average delay: 1h")
	assert.Contains(t, text, "Average planned duration: 1h 30m")
	assert.Contains(t, text, "🟢 2024-01-02: 1 × 10 min")
	assert.Contains(t, text, "🔴 2024-01-04: 1 × 1h 50m")
}

func TestFormatWeeklyReportEmptyWeek(t *testing.T) {
	text := FormatWeeklyReport(&services.WeeklyReport{WeekStart: "2024-01-01", WeekEnd: "2024-01-07"})

	assert.Contains(t, text, "Completed: 0/0 (0%)")
	assert.Contains(t, text, "⚠️ Productivity score: <b>0/100</b>")
	assert.NotContains(t, text, "Delays by day")
	assert.NotContains(t, text, "No delays")
}

func TestFormatAnalyticsEscapesUserText(t *testing.T) {
	result := &services.AnalyticsResult{
		TotalTasks:        database.TaskTotals{Total: 4, Completed: 3},
		DelayedTasks:      2,
		AvgDelay:          30,
		ReasonsBreakdown:  []database.ReasonCount{{ReasonText: "Distractions", Count: 2}},
		EmotionsBreakdown: []database.EmotionCount{{EmotionText: "Stressed", Count: 2}},
		CategoryDelays:    []database.CategoryDelay{{Category: "R&D <core>", DelayCount: 2, AvgDelay: 30}},
	}

	text := FormatAnalytics(result)

	assert.Contains(t, text, "Completed: 3/4")
	assert.Contains(t, text, "• Distractions: 2")
	assert.Contains(t, text, "😰 Stressed: 2")
	assert.Contains(t, text, "R&amp;D &lt;core&gt;")
}

func TestFormatRecommendations(t *testing.T) {
	assert.Contains(t, FormatRecommendations(nil), "Not enough data")

	text := FormatRecommendations([]services.Recommendation{
		{Icon: "🎯", Title: "Focus Area", Message: `"Work" tasks are your most delayed category.`},
	})
	assert.Contains(t, text, "🎯 <b>Focus Area</b>")
	assert.Contains(t, text, `"Work" tasks`)
}

func TestWeekKeyboard(t *testing.T) {
	keyboard := weekKeyboard("2024-01-01")

	row := keyboard.InlineKeyboard[0]
	assert.Equal(t, "week_2023-12-25", *row[0].CallbackData)
	assert.Equal(t, "week_2024-01-08", *row[1].CallbackData)
}
