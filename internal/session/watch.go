package session

import (
	"context"
	"time"
)

// Source reports the identity currently signed in. ok is false when nobody is.
type Source interface {
	Current(ctx context.Context) (id Identity, ok bool, err error)
}

// apply re-keys the session when id differs from what it holds.
func (s *Session) apply(ctx context.Context, id Identity) {
	if id.IsZero() {
		if s.state.Load().userID != "" {
			s.Clear()
			s.logger.Info(ctx, "session cleared")
		}
		return
	}
	if s.state.Load().idSum == id.sum() {
		return
	}
	if err := s.Init(ctx, id); err != nil {
		return
	}
	s.logger.Info(ctx, "session re-keyed", "user", id.UserID)
}

// Watch re-keys the session on every identity published to ids. A zero
// Identity clears it. Watch returns when ids is closed or ctx is done.
func (s *Session) Watch(ctx context.Context, ids <-chan Identity) {
	for {
		select {
		case id, ok := <-ids:
			if !ok {
				return
			}
			s.apply(ctx, id)
		case <-ctx.Done():
			return
		}
	}
}

// Poll asks src for the current identity right away and then every interval,
// re-keying on change. It is the fallback for sources that cannot publish
// events.
func (s *Session) Poll(ctx context.Context, src Source, interval time.Duration) {
	check := func() {
		id, ok, err := src.Current(ctx)
		if err != nil {
			s.logger.Warn(ctx, "identity poll failed", "error", err)
			return
		}
		if !ok {
			id = Identity{}
		}
		s.apply(ctx, id)
	}

	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}
