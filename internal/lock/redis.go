package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// releaseScript deletes the key only if it still holds our token, so an
// expired lock re-acquired by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript resets the TTL only while the key still holds our token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker serializes callers across processes with SET NX PX. The TTL
// bounds how long a crashed holder can block others; a live holder keeps
// extending it every ttl/3 until it unlocks, so a long import is never
// overlapped.
type RedisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	retry  time.Duration
	renew  time.Duration
}

func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, retry: 50 * time.Millisecond, renew: ttl / 3}
}

// keepAlive extends key until ctx is done or the lock is lost.
func (r *RedisLocker) keepAlive(ctx context.Context, key, token string, done chan<- struct{}) {
	defer close(done)
	if r.renew <= 0 {
		return
	}
	ticker := time.NewTicker(r.renew)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := extendScript.Run(ctx, r.client, []string{key}, token, r.ttl.Milliseconds()).Int()
			if err != nil && ctx.Err() != nil {
				return
			}
			if err == nil && n == 0 {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	token, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %w", common.ErrLocked, key, ctx.Err())
			}
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			renewCtx, stop := context.WithCancel(context.Background())
			done := make(chan struct{})
			go r.keepAlive(renewCtx, key, token, done)

			return func(ctx context.Context) error {
				stop()
				<-done
				return releaseScript.Run(ctx, r.client, []string{key}, token).Err()
			}, nil
		}

		select {
		case <-time.After(r.retry):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %w", common.ErrLocked, key, ctx.Err())
		}
	}
}
