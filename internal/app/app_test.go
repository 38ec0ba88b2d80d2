package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procrastination-tracker/internal/config"
	"procrastination-tracker/internal/database"
	"procrastination-tracker/internal/distlock"
	"procrastination-tracker/internal/services"
)

type fakeSender struct {
	reports []*services.WeeklyReport
	fail    error
}

func (f *fakeSender) SendMessage(string) error { return nil }

func (f *fakeSender) SendWeeklyReport(report *services.WeeklyReport) error {
	if f.fail != nil {
		return f.fail
	}
	f.reports = append(f.reports, report)
	return nil
}

var sundayEvening = time.Date(2024, 1, 7, 18, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, locker distlock.Locker) (*Application, *fakeSender) {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Default()
	cfg.Telegram.UserID = 3

	sm := services.NewServiceManager(db, services.DefaultScoreWeights())
	sm.Reports.SetClock(func() time.Time { return sundayEvening })
	sender := &fakeSender{}
	sm.SetNotificationSender(sender)

	return &Application{
		config:   cfg,
		db:       db,
		services: sm,
		locker:   locker,
		ctx:      context.Background(),
	}, sender
}

func newRedisLocker(t *testing.T) (distlock.Locker, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return distlock.NewLocker(client), client, mr
}

func TestDeliverWeeklyReportOncePerWeek(t *testing.T) {
	a, sender := newTestApp(t, distlock.NewLocker(nil))

	a.deliverWeeklyReport()

	require.Len(t, sender.reports, 1)
	assert.Equal(t, "2024-01-01", sender.reports[0].WeekStart)
	assert.Equal(t, "2024-01-07", sender.reports[0].WeekEnd)

	a.deliverWeeklyReport()
	assert.Len(t, sender.reports, 1, "a delivered week is not sent again")

	a.services.Reports.SetClock(func() time.Time { return sundayEvening.AddDate(0, 0, 7) })
	a.deliverWeeklyReport()
	require.Len(t, sender.reports, 2)
	assert.Equal(t, "2024-01-08", sender.reports[1].WeekStart)
}

func TestReplicasDeliverEachWeekOnce(t *testing.T) {
	_, client, mr := newRedisLocker(t)

	first, firstSender := newTestApp(t, distlock.NewLocker(client))
	second, secondSender := newTestApp(t, distlock.NewLocker(client))

	first.deliverWeeklyReport()
	second.deliverWeeklyReport()

	assert.Len(t, firstSender.reports, 1)
	assert.Empty(t, secondSender.reports)

	key := "lock:weekly-report:3:2024-01-01"
	require.True(t, mr.Exists(key))
	assert.Greater(t, mr.TTL(key), 7*24*time.Hour)
}

func TestFailedDeliveryReleasesWeeklyLock(t *testing.T) {
	locker, _, mr := newRedisLocker(t)
	a, sender := newTestApp(t, locker)

	sender.fail = errors.New("telegram unavailable")
	a.deliverWeeklyReport()
	assert.Empty(t, sender.reports)
	assert.False(t, mr.Exists("lock:weekly-report:3:2024-01-01"))

	sender.fail = nil
	a.deliverWeeklyReport()
	assert.Len(t, sender.reports, 1)
	assert.True(t, mr.Exists("lock:weekly-report:3:2024-01-01"))
}

func TestDeliverWeeklyReportSkipsWhenLockHeld(t *testing.T) {
	locker, client, mr := newRedisLocker(t)

	holder := distlock.NewRedisLock(client, "weekly-report:3:2024-01-01", time.Minute)
	ok, err := holder.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	a, sender := newTestApp(t, locker)
	a.deliverWeeklyReport()

	assert.Empty(t, sender.reports)
	assert.True(t, mr.Exists("lock:weekly-report:3:2024-01-01"))
}

func TestDeliverWeeklyReportWithoutSender(t *testing.T) {
	a, _ := newTestApp(t, distlock.NewLocker(nil))
	a.services.Notification = nil

	assert.NotPanics(t, a.deliverWeeklyReport)
}

func TestInvalidScheduleIsRejected(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = ":memory:"
	cfg.Reports.WeeklyCron = "every sunday"

	_, err := New(cfg)
	assert.ErrorContains(t, err, "invalid weekly report schedule")
}
