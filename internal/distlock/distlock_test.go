package distlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestRedisLockIsExclusive(t *testing.T) {
	client, mr := newClient(t)
	ctx := context.Background()

	first := NewRedisLock(client, "weekly-report", time.Minute)
	second := NewRedisLock(client, "weekly-report", time.Minute)

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// a foreign release must not free the lock
	require.NoError(t, second.Release(ctx))
	assert.True(t, mr.Exists("lock:weekly-report"))

	require.NoError(t, first.Release(ctx))
	assert.False(t, mr.Exists("lock:weekly-report"))

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLockExpires(t *testing.T) {
	client, mr := newClient(t)
	ctx := context.Background()

	first := NewRedisLock(client, "job", 30*time.Second)
	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(31 * time.Second)

	ok, err = NewRedisLock(client, "job", 30*time.Second).Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewFallsBackToLocalLock(t *testing.T) {
	lock := New(nil, "job", time.Minute)
	ctx := context.Background()

	ok, _ := lock.Acquire(ctx)
	assert.True(t, ok)
	ok, _ = lock.Acquire(ctx)
	assert.False(t, ok)

	require.NoError(t, lock.Release(ctx))
	ok, _ = lock.Acquire(ctx)
	assert.True(t, ok)
}

func TestRedisLockerSharesKeys(t *testing.T) {
	client, mr := newClient(t)
	ctx := context.Background()
	locker := NewLocker(client)

	ok, err := locker.Lock("weekly-report:3:2024-01-01", time.Hour).Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("lock:weekly-report:3:2024-01-01"))

	ok, err = locker.Lock("weekly-report:3:2024-01-01", time.Hour).Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = locker.Lock("weekly-report:3:2024-01-08", time.Hour).Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalLockerHonoursKeysAndExpiry(t *testing.T) {
	now := time.Date(2024, 1, 7, 18, 0, 0, 0, time.UTC)
	locker := &localLocker{holds: make(map[string]localHold), now: func() time.Time { return now }}
	ctx := context.Background()

	first := locker.Lock("job", time.Minute)
	second := locker.Lock("job", time.Minute)

	ok, _ := first.Acquire(ctx)
	assert.True(t, ok)
	ok, _ = second.Acquire(ctx)
	assert.False(t, ok)
	ok, _ = locker.Lock("other", time.Minute).Acquire(ctx)
	assert.True(t, ok)

	// a foreign release must not free the key
	require.NoError(t, second.Release(ctx))
	ok, _ = second.Acquire(ctx)
	assert.False(t, ok)

	now = now.Add(61 * time.Second)
	ok, _ = second.Acquire(ctx)
	assert.True(t, ok)
}
