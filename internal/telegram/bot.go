package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"procrastination-tracker/internal/services"
	"procrastination-tracker/internal/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	requestTimeout = 15 * time.Second
	weekCallback   = "week_"
)

type Bot struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	userID   int64
	services *services.ServiceManager
	handlers map[string]func(*tgbotapi.Message)
}

// NewBot connects to Telegram. Reports are generated for userID and only
// chatID may talk to the bot.
func NewBot(token string, chatID, userID int64, serviceManager *services.ServiceManager) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	bot := &Bot{
		bot:      botAPI,
		chatID:   chatID,
		userID:   userID,
		services: serviceManager,
		handlers: make(map[string]func(*tgbotapi.Message)),
	}

	bot.registerHandlers()
	log.Printf("🤖 Bot initialised: %s", botAPI.Self.UserName)
	return bot, nil
}

func (b *Bot) registerHandlers() {
	b.handlers["/start"] = b.handleStart
	b.handlers["/week"] = b.handleWeek
	b.handlers["/analytics"] = b.handleAnalytics
	b.handlers["/tips"] = b.handleTips
	b.handlers["/help"] = b.handleHelp
}

func (b *Bot) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = "HTML"
	_, err := b.bot.Send(msg)
	return err
}

// SendWeeklyReport delivers a report with buttons to page through weeks.
func (b *Bot) SendWeeklyReport(report *services.WeeklyReport) error {
	msg := tgbotapi.NewMessage(b.chatID, FormatWeeklyReport(report))
	msg.ParseMode = "HTML"
	msg.ReplyMarkup = weekKeyboard(report.WeekStart)
	_, err := b.bot.Send(msg)
	return err
}

func weekKeyboard(weekStart string) tgbotapi.InlineKeyboardMarkup {
	start, err := utils.ParseDate(weekStart)
	if err != nil {
		return tgbotapi.NewInlineKeyboardMarkup()
	}
	prev := utils.FormatDate(start.AddDate(0, 0, -7))
	next := utils.FormatDate(start.AddDate(0, 0, 7))

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Previous week", weekCallback+prev),
			tgbotapi.NewInlineKeyboardButtonData("Next week ▶️", weekCallback+next),
		),
	)
}

func (b *Bot) GetUsername() string {
	return b.bot.Self.UserName
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.bot.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	if update.Message.Chat.ID != b.chatID {
		reply := tgbotapi.NewMessage(update.Message.Chat.ID, "⛔ Access denied")
		if _, err := b.bot.Send(reply); err != nil {
			log.Printf("⚠️ Telegram send failed: %v", err)
		}
		return
	}

	b.handleMessage(update.Message)
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return
	}

	command := strings.Fields(text)[0]
	// strip the @botname suffix used in group chats
	if i := strings.Index(command, "@"); i > 0 {
		command = command[:i]
	}

	if handler, exists := b.handlers[command]; exists {
		handler(msg)
	} else {
		b.SendMessageOrLogError("❌ Unknown command. Use /help")
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	defer func() {
		if _, err := b.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
			log.Printf("⚠️ Telegram callback ack failed: %v", err)
		}
	}()

	if callback.Message == nil || callback.Message.Chat.ID != b.chatID {
		return
	}

	data := callback.Data
	log.Printf("Received callback: %s", data)

	if date, ok := strings.CutPrefix(data, weekCallback); ok {
		b.sendWeek(ctx, date)
	}
}
