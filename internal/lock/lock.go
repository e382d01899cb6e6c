// Package lock provides the per-user serialization point around an import:
// two reconciliation passes for the same user never overlap.
package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophjournal/internal/common"
)

// Unlock releases a lock obtained from a Locker.
type Unlock func(ctx context.Context) error

type Locker interface {
	// Lock blocks until key is held or ctx is done. A lock that could not be
	// taken yields an error matching common.ErrLocked.
	Lock(ctx context.Context, key string) (Unlock, error)
}

// MemoryLocker serializes callers inside one process.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: map[string]chan struct{}{}}
}

func (m *MemoryLocker) slot(key string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locks[key] = ch
	}
	return ch
}

func (m *MemoryLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	ch := m.slot(key)
	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func(context.Context) error {
			once.Do(func() { <-ch })
			return nil
		}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", common.ErrLocked, key, ctx.Err())
	}
}

// ImportKey is the lock key for a user's import.
func ImportKey(userID string) string {
	return "gophjournal:import:" + userID
}
