package cache

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("cache entry not found")

// Entry is one cached upstream response. The payload is opaque to the
// cache; freshness is judged against StoredAt by the caller-supplied TTL.
type Entry struct {
	Payload  []byte
	StoredAt time.Time
}

type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Put(ctx context.Context, key string, ent Entry) error
	Delete(ctx context.Context, key string) error
}
