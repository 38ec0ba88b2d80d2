// Package cache keeps computed analytics and weekly reports in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"procrastination-tracker/internal/services"
)

const keyPrefix = "report"

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func analyticsKey(userID int64, day string) string {
	return fmt.Sprintf("%s:analytics:%d:%s", keyPrefix, userID, day)
}

func weeklyKey(userID int64, weekStart string) string {
	return fmt.Sprintf("%s:weekly:%d:%s", keyPrefix, userID, weekStart)
}

func (c *RedisCache) GetAnalytics(ctx context.Context, userID int64, day string) (*services.AnalyticsResult, error) {
	var result services.AnalyticsResult
	found, err := c.get(ctx, analyticsKey(userID, day), &result)
	if err != nil || !found {
		return nil, err
	}
	return &result, nil
}

func (c *RedisCache) SetAnalytics(ctx context.Context, userID int64, day string, result *services.AnalyticsResult) error {
	return c.set(ctx, analyticsKey(userID, day), result)
}

func (c *RedisCache) GetWeeklyReport(ctx context.Context, userID int64, weekStart string) (*services.WeeklyReport, error) {
	var report services.WeeklyReport
	found, err := c.get(ctx, weeklyKey(userID, weekStart), &report)
	if err != nil || !found {
		return nil, err
	}
	return &report, nil
}

func (c *RedisCache) SetWeeklyReport(ctx context.Context, userID int64, report *services.WeeklyReport) error {
	return c.set(ctx, weeklyKey(userID, report.WeekStart), report)
}

// InvalidateUser drops every cached day of analytics and every cached week.
func (c *RedisCache) InvalidateUser(ctx context.Context, userID int64) error {
	var keys []string
	for _, kind := range []string{"analytics", "weekly"} {
		iter := c.client.Scan(ctx, 0, fmt.Sprintf("%s:%s:%d:*", keyPrefix, kind, userID), 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan cached %s: %w", kind, err)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
