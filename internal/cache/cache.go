package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// SessionLocker serializes turn creation/mutation per session. Attaching an
// answer and writing the next turn is a read-modify-write sequence that is not
// safe under concurrent requests for the same session id.
type SessionLocker interface {
	Lock(ctx context.Context, sessionID string, ttl time.Duration) (release func(), ok bool, err error)
}
