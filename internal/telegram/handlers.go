package telegram

import (
	"context"
	"log"
	"strings"

	"procrastination-tracker/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	b.SendMessageOrLogError("🎯 <b>Procrastination Tracker</b>\n\nEvery Sunday evening you will get a weekly report here.\n\n" + helpMessage)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	b.SendMessageOrLogError(helpMessage)
}

// handleWeek serves /week and /week YYYY-MM-DD.
func (b *Bot) handleWeek(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	args := strings.Fields(msg.Text)
	if len(args) < 2 {
		report, err := b.services.Reports.CurrentWeek(ctx, b.userID)
		if err != nil {
			log.Printf("❌ Weekly report failed: %v", err)
			b.SendMessageOrLogError("❌ Could not build the weekly report")
			return
		}
		b.sendReport(report)
		return
	}

	b.sendWeek(ctx, args[1])
}

func (b *Bot) sendWeek(ctx context.Context, date string) {
	report, err := b.services.Reports.Generate(ctx, b.userID, date)
	if err != nil {
		if services.IsClientError(err) {
			b.SendMessageOrLogError("❌ Use a date like /week 2024-01-15")
			return
		}
		log.Printf("❌ Weekly report for %s failed: %v", date, err)
		b.SendMessageOrLogError("❌ Could not build the weekly report")
		return
	}
	b.sendReport(report)
}

func (b *Bot) sendReport(report *services.WeeklyReport) {
	if err := b.SendWeeklyReport(report); err != nil {
		log.Printf("⚠️ Telegram send failed: %v", err)
	}
}

func (b *Bot) handleAnalytics(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := b.services.Analytics.Aggregate(ctx, b.userID)
	if err != nil {
		log.Printf("❌ Analytics failed: %v", err)
		b.SendMessageOrLogError("❌ Could not load analytics")
		return
	}
	b.SendMessageOrLogError(FormatAnalytics(result))
}

func (b *Bot) handleTips(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := b.services.Analytics.Aggregate(ctx, b.userID)
	if err != nil {
		log.Printf("❌ Analytics failed: %v", err)
		b.SendMessageOrLogError("❌ Could not load analytics")
		return
	}
	b.SendMessageOrLogError(FormatRecommendations(services.Recommendations(result)))
}
