// Package distlock guards scheduled jobs so that only one instance runs them.
package distlock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Lock interface {
	// Acquire returns true when the caller now holds the lock.
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Locker hands out locks by key. Locks from one Locker share their state,
// so two locks on the same key exclude each other.
type Locker interface {
	Lock(key string, ttl time.Duration) Lock
}

// NewLocker returns a Redis-backed locker when a client is configured and an
// in-process one otherwise.
func NewLocker(client *redis.Client) Locker {
	if client != nil {
		return &redisLocker{client: client}
	}
	return &localLocker{holds: make(map[string]localHold), now: time.Now}
}

// New returns a single lock on key.
func New(client *redis.Client, key string, ttl time.Duration) Lock {
	return NewLocker(client).Lock(key, ttl)
}

type redisLocker struct {
	client *redis.Client
}

func (l *redisLocker) Lock(key string, ttl time.Duration) Lock {
	return NewRedisLock(l.client, key, ttl)
}

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

type RedisLock struct {
	client *redis.Client
	key    string
	token  string
	ttl    time.Duration
}

func NewRedisLock(client *redis.Client, key string, ttl time.Duration) *RedisLock {
	return &RedisLock{
		client: client,
		key:    fmt.Sprintf("lock:%s", key),
		token:  uuid.NewString(),
		ttl:    ttl,
	}
}

func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", l.key, err)
	}
	return ok, nil
}

// Release deletes the key only while it still carries this lock's token.
func (l *RedisLock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.key, err)
	}
	return nil
}

type localHold struct {
	token   string
	expires time.Time
}

type localLocker struct {
	mu    sync.Mutex
	holds map[string]localHold
	now   func() time.Time
}

func (l *localLocker) Lock(key string, ttl time.Duration) Lock {
	return &localLock{locker: l, key: key, token: uuid.NewString(), ttl: ttl}
}

// localLock mirrors RedisLock inside one process, expiry included.
type localLock struct {
	locker *localLocker
	key    string
	token  string
	ttl    time.Duration
}

func (l *localLock) Acquire(context.Context) (bool, error) {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()

	now := l.locker.now()
	if hold, ok := l.locker.holds[l.key]; ok && now.Before(hold.expires) {
		return false, nil
	}
	l.locker.holds[l.key] = localHold{token: l.token, expires: now.Add(l.ttl)}
	return true, nil
}

func (l *localLock) Release(context.Context) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()

	if hold, ok := l.locker.holds[l.key]; ok && hold.token == l.token {
		delete(l.locker.holds, l.key)
	}
	return nil
}
