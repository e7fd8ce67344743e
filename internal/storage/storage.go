package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore persists uploaded resume files. Objects are private; access
// goes through time-limited signed URLs.
type ObjectStore interface {
	Put(ctx context.Context, objectKey string, contentType string, r io.Reader) error
	SignedGetURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error)
}
