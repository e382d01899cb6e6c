package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLocker_Exclusion(t *testing.T) {
	_, client := newRedis(t)
	exerciseExclusion(t, NewRedisLocker(client, time.Minute))
}

func TestRedisLocker_LockSetsTTLAndUnlockDeletes(t *testing.T) {
	mr, client := newRedis(t)
	l := NewRedisLocker(client, 30*time.Second)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "k")
	require.NoError(t, err)
	assert.True(t, mr.Exists("k"))
	assert.Equal(t, 30*time.Second, mr.TTL("k"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("k"))
}

func TestRedisLocker_BusyIsErrLocked(t *testing.T) {
	_, client := newRedis(t)
	l := NewRedisLocker(client, time.Minute)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	require.ErrorIs(t, err, common.ErrLocked)
}

func TestRedisLocker_StaleUnlockKeepsNewHolder(t *testing.T) {
	mr, client := newRedis(t)
	l := NewRedisLocker(client, time.Second)
	ctx := context.Background()

	stale, err := l.Lock(ctx, "k")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	require.False(t, mr.Exists("k"))

	fresh, err := l.Lock(ctx, "k")
	require.NoError(t, err)

	require.NoError(t, stale(ctx))
	assert.True(t, mr.Exists("k"), "stale holder must not release the new lock")

	require.NoError(t, fresh(ctx))
	assert.False(t, mr.Exists("k"))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestRedisLocker_HolderKeepsLockAlive(t *testing.T) {
	mr, client := newRedis(t)
	l := NewRedisLocker(client, 150*time.Millisecond)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "k")
	require.NoError(t, err)

	mr.FastForward(140 * time.Millisecond)
	require.Eventually(t, func() bool { return mr.TTL("k") > 100*time.Millisecond }, time.Second, 10*time.Millisecond)

	mr.FastForward(140 * time.Millisecond)
	require.Eventually(t, func() bool { return mr.TTL("k") > 100*time.Millisecond }, time.Second, 10*time.Millisecond)
	assert.True(t, mr.Exists("k"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("k"))

	time.Sleep(120 * time.Millisecond)
	assert.False(t, mr.Exists("k"), "no renewal after unlock")
}

func TestRedisLocker_StopsRenewingLostLock(t *testing.T) {
	mr, client := newRedis(t)
	l := NewRedisLocker(client, 90*time.Millisecond)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "k")
	require.NoError(t, err)

	require.NoError(t, mr.Set("k", "someone-else"))
	time.Sleep(100 * time.Millisecond)

	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
	assert.Zero(t, mr.TTL("k"), "foreign key must not get our TTL")

	require.NoError(t, unlock(ctx))
	assert.True(t, mr.Exists("k"))
}
