package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseExclusion(t *testing.T, l Locker) {
	t.Helper()
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, ImportKey("alice"))
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			assert.NoError(t, unlock(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestMemoryLocker_Exclusion(t *testing.T) {
	exerciseExclusion(t, NewMemoryLocker())
}

func TestMemoryLocker_TimeoutIsErrLocked(t *testing.T) {
	l := NewMemoryLocker()
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	require.ErrorIs(t, err, common.ErrLocked)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryLocker_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLocker()
	u1, err := l.Lock(context.Background(), ImportKey("alice"))
	require.NoError(t, err)
	defer u1(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	u2, err := l.Lock(ctx, ImportKey("bob"))
	require.NoError(t, err)
	require.NoError(t, u2(ctx))
}

func TestMemoryLocker_DoubleUnlockIsSafe(t *testing.T) {
	l := NewMemoryLocker()
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	require.NoError(t, unlock(context.Background()))
	require.NoError(t, unlock(context.Background()))

	u, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	require.NoError(t, u(context.Background()))
}
