package port

import (
	"context"
	"time"
)

// SessionLock serializes message processing per intake session. Acquire
// returns a release function on success and domain.ErrSessionBusy when
// another holder is active.
type SessionLock interface {
	Acquire(ctx context.Context, sessionID string, ttl time.Duration) (release func(context.Context) error, err error)
}
