package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"procrastination-tracker/internal/api"
	"procrastination-tracker/internal/cache"
	"procrastination-tracker/internal/config"
	"procrastination-tracker/internal/database"
	"procrastination-tracker/internal/distlock"
	"procrastination-tracker/internal/services"
	"procrastination-tracker/internal/telegram"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

const (
	weeklyReportLock = "weekly-report"
	// a delivered week stays locked past its own end so later runs skip it
	weeklyReportLockTTL = 8 * 24 * time.Hour
	weeklyReportTimeout = 10 * time.Minute
	shutdownTimeout     = 10 * time.Second
)

type Application struct {
	config     *config.Config
	db         *database.Database
	redis      *redis.Client
	bot        *telegram.Bot
	services   *services.ServiceManager
	server     *http.Server
	cron       *cron.Cron
	locker     distlock.Locker
	cancelFunc context.CancelFunc
	ctx        context.Context
}

func New(cfg *config.Config) (*Application, error) {
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	serviceManager := services.NewServiceManager(db, services.ScoreWeights{
		DelayFrequencyCap:    cfg.Score.DelayFrequencyCap,
		SeverityCap:          cfg.Score.SeverityCap,
		SeverityScaleMinutes: cfg.Score.SeverityScaleMinutes,
	})

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = connectRedis(cfg)
		if err != nil {
			db.Close()
			return nil, err
		}
		serviceManager.SetCache(cache.New(redisClient, cfg.Redis.CacheTTL))
		log.Printf("✅ Redis cache enabled: %s (ttl %s)", cfg.Redis.Addr, cfg.Redis.CacheTTL)
	}

	var bot *telegram.Bot
	if cfg.TelegramEnabled() {
		bot, err = telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.ReportUserID(), serviceManager)
		if err != nil {
			closeRedis(redisClient)
			db.Close()
			return nil, err
		}
		serviceManager.SetNotificationSender(bot)
	} else {
		log.Println("⚠️ Telegram is not configured, weekly reports will not be delivered")
	}

	ctx, cancel := context.WithCancel(context.Background())

	app := &Application{
		config:   cfg,
		db:       db,
		redis:    redisClient,
		bot:      bot,
		services: serviceManager,
		server: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           api.NewRouter(serviceManager, cfg.Server.CORSOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		},
		cron:       cron.New(cron.WithLocation(time.UTC)),
		locker:     distlock.NewLocker(redisClient),
		cancelFunc: cancel,
		ctx:        ctx,
	}

	if err := app.setupCronJobs(); err != nil {
		cancel()
		closeRedis(redisClient)
		db.Close()
		return nil, err
	}

	return app, nil
}

func connectRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
	}
	return client, nil
}

func closeRedis(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Printf("⚠️ Redis close error: %v", err)
	}
}

func (a *Application) Start() error {
	log.Println("🚀 Starting application...")

	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("❌ HTTP server error: %v", err)
		}
	}()

	if a.bot != nil {
		go a.bot.Start(a.ctx)
		log.Printf("🤖 Bot: @%s", a.bot.GetUsername())
	}

	a.cron.Start()

	log.Printf("🌐 API listening on port %s", a.config.Server.Port)
	return nil
}

func (a *Application) Stop() error {
	log.Println("🛑 Stopping application...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ HTTP shutdown error: %v", err)
	}

	a.cancelFunc()
	<-a.cron.Stop().Done()

	closeRedis(a.redis)
	if err := a.db.Close(); err != nil {
		log.Printf("⚠️ Database close error: %v", err)
	}

	log.Println("✅ Application stopped")
	return nil
}

func (a *Application) setupCronJobs() error {
	spec := a.config.Reports.WeeklyCron
	if _, err := a.cron.AddFunc(spec, a.deliverWeeklyReport); err != nil {
		return fmt.Errorf("invalid weekly report schedule %q: %w", spec, err)
	}
	log.Printf("⏰ Weekly report scheduled: %s (UTC)", spec)
	return nil
}

// deliverWeeklyReport sends the current week's report at most once per
// user and week. The lock is keyed by week and kept after a successful send,
// so other replicas and later runs in the same week skip. A failed send
// releases it for a retry.
func (a *Application) deliverWeeklyReport() {
	if a.services.Notification == nil {
		return
	}

	runID := uuid.NewString()
	ctx, cancel := context.WithTimeout(a.ctx, weeklyReportTimeout)
	defer cancel()

	userID := a.config.ReportUserID()
	week := a.services.Reports.CurrentRange()
	lock := a.locker.Lock(weeklyReportKey(userID, week), weeklyReportLockTTL)

	acquired, err := lock.Acquire(ctx)
	if err != nil {
		log.Printf("❌ [%s] weekly report lock error: %v", runID, err)
		return
	}
	if !acquired {
		log.Printf("⏭ [%s] weekly report %s for user %d already handled elsewhere", runID, week.Start, userID)
		return
	}

	if err := a.services.Notification.SendWeeklyReportFor(ctx, userID, week); err != nil {
		log.Printf("❌ [%s] weekly report for user %d: %v", runID, userID, err)
		if err := lock.Release(context.Background()); err != nil {
			log.Printf("⚠️ [%s] weekly report lock release: %v", runID, err)
		}
		return
	}
	log.Printf("✅ [%s] weekly report %s delivered to user %d", runID, week.Start, userID)
}

func weeklyReportKey(userID int64, week services.WeekRange) string {
	return fmt.Sprintf("%s:%d:%s", weeklyReportLock, userID, week.Start)
}
