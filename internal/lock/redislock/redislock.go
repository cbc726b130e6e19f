package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"claimos/internal/domain"
	"claimos/internal/port"
)

// releaseScript deletes the lock key only when the stored token matches, so
// a holder whose lock already expired cannot release someone else's lock.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

type redisLock struct {
	client *redis.Client
}

// NewRedisLock creates a Redis-backed per-session lock.
func NewRedisLock(client *redis.Client) port.SessionLock {
	return &redisLock{client: client}
}

func (l *redisLock) Acquire(ctx context.Context, sessionID string, ttl time.Duration) (func(context.Context) error, error) {
	key := lockKey(sessionID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redisLock.Acquire: %w", err)
	}
	if !ok {
		return nil, domain.ErrSessionBusy
	}

	release := func(ctx context.Context) error {
		if err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("redisLock.release: %w", err)
		}
		return nil
	}
	return release, nil
}

func lockKey(sessionID string) string {
	return "claimos:session_lock:" + sessionID
}
