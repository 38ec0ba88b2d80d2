package telegram

import (
	"fmt"
	"log"
	"strings"

	"procrastination-tracker/internal/services"
	"procrastination-tracker/internal/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpMessage = `📚 <b>Commands</b>

/week - Report for the current week
/week [YYYY-MM-DD] - Report for the week containing that date
/analytics - All-time procrastination analytics
/tips - Recommendations based on your delays
/help - This help`

func (b *Bot) SendMessageOrLogError(message string) {
	if err := b.SendMessage(message); err != nil {
		log.Printf("⚠️ Telegram send failed: %v", err)
	}
}

// FormatWeeklyReport renders a weekly report as Telegram HTML.
func FormatWeeklyReport(report *services.WeeklyReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📈 <b>Weekly report</b>\n📅 %s - %s\n\n", report.WeekStart, report.WeekEnd)
	fmt.Fprintf(&sb, "%s Productivity score: <b>%.0f/100</b>\n\n", scoreEmoji(report.ProductivityScore), report.ProductivityScore)

	completion := 0.0
	if report.TotalTasks > 0 {
		completion = float64(report.CompletedTasks) / float64(report.TotalTasks) * 100
	}
	fmt.Fprintf(&sb, "✅ Completed: %d/%d (%.0f%%)\n", report.CompletedTasks, report.TotalTasks, completion)
	fmt.Fprintf(&sb, "⏰ Delayed: %d\n", report.DelayedTasks)
	fmt.Fprintf(&sb, "%s Average delay: %s\n", utils.GetDelaySeverityEmoji(report.AvgDelay), utils.FormatDuration(report.AvgDelay))
	fmt.Fprintf(&sb, "🗓 Average planned duration: %s\n", utils.FormatDuration(report.AvgPlannedDuration))

	if len(report.DailyTrend) > 0 {
		sb.WriteString("\n<b>Delays by day:</b>\n")
		for _, day := range report.DailyTrend {
			fmt.Fprintf(&sb, "%s %s: %d × %s\n",
				utils.GetDelaySeverityEmoji(day.AvgDelay), day.Day, day.DelayCount, utils.FormatDuration(day.AvgDelay))
		}
	} else if report.TotalTasks > 0 {
		sb.WriteString("\n🎉 No delays logged this week.\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatAnalytics renders the all-time analytics summary as Telegram HTML.
func FormatAnalytics(result *services.AnalyticsResult) string {
	var sb strings.Builder

	sb.WriteString("📊 <b>Procrastination analytics</b>\n\n")
	fmt.Fprintf(&sb, "✅ Completed: %d/%d\n", result.TotalTasks.Completed, result.TotalTasks.Total)
	fmt.Fprintf(&sb, "⏰ Delayed tasks: %d\n", result.DelayedTasks)
	fmt.Fprintf(&sb, "%s Average delay: %s\n", utils.GetDelaySeverityEmoji(result.AvgDelay), utils.FormatDuration(result.AvgDelay))

	if len(result.ReasonsBreakdown) > 0 {
		sb.WriteString("\n<b>Reasons:</b>\n")
		for _, r := range result.ReasonsBreakdown {
			fmt.Fprintf(&sb, "• %s: %d\n", escape(r.ReasonText), r.Count)
		}
	}

	if len(result.EmotionsBreakdown) > 0 {
		sb.WriteString("\n<b>Emotions:</b>\n")
		for _, e := range result.EmotionsBreakdown {
			fmt.Fprintf(&sb, "%s %s: %d\n", utils.GetEmotionEmoji(e.EmotionText), escape(e.EmotionText), e.Count)
		}
	}

	if len(result.CategoryDelays) > 0 {
		sb.WriteString("\n<b>Categories:</b>\n")
		for _, c := range result.CategoryDelays {
			fmt.Fprintf(&sb, "%s %s: %d × %s\n",
				utils.GetDelaySeverityEmoji(c.AvgDelay), escape(c.Category), c.DelayCount, utils.FormatDuration(c.AvgDelay))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func FormatRecommendations(recommendations []services.Recommendation) string {
	if len(recommendations) == 0 {
		return "💡 Not enough data yet. Log a few delays and check back."
	}

	var sb strings.Builder
	sb.WriteString("💡 <b>Recommendations</b>\n")
	for _, r := range recommendations {
		fmt.Fprintf(&sb, "\n%s <b>%s</b>\n%s\n", r.Icon, escape(r.Title), escape(r.Message))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func scoreEmoji(score float64) string {
	switch {
	case score >= 80:
		return "🏆"
	case score >= 50:
		return "👍"
	default:
		return "⚠️"
	}
}

func escape(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, text)
}
