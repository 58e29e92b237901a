package cache

import (
	"context"
	"time"

	"github.com/apex/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/mingj7235/fc-strategy-sub001/internal/lock"
)

// releaser is the held half of the cross-replica refresh lock.
type releaser interface {
	Release(ctx context.Context) error
}

// acquireFunc attempts to take the refresh lock for a key. ok is false
// when another holder has it.
type acquireFunc func(ctx context.Context, key string, ttl time.Duration) (releaser, bool, error)

// Fetcher answers "give me the payload for this key, at most this stale"
// by serving from the store when fresh and calling the producer otherwise.
// Concurrent misses for the same key share one producer call. When a Redis
// client is configured the dedup extends across replicas sharing a store.
type Fetcher struct {
	store       Store
	sf          singleflight.Group
	acquire     acquireFunc // nil when no shared lock is configured
	lockTTL     time.Duration
	maxLockWait time.Duration
	now         func() time.Time
}

type FetcherConfig struct {
	// Redis enables the cross-replica refresh lock. Nil keeps dedup
	// in-process only, which is all a private store needs.
	Redis       *redis.Client
	LockTTL     time.Duration
	MaxLockWait time.Duration
	// Now overrides the clock in tests.
	Now func() time.Time
}

func NewFetcher(store Store, cfg FetcherConfig) *Fetcher {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	f := &Fetcher{
		store:       store,
		lockTTL:     cfg.LockTTL,
		maxLockWait: cfg.MaxLockWait,
		now:         now,
	}
	if cfg.Redis != nil {
		client := cfg.Redis
		f.acquire = func(ctx context.Context, key string, ttl time.Duration) (releaser, bool, error) {
			l, ok, err := lock.Acquire(ctx, client, key, ttl)
			if !ok || err != nil {
				return nil, ok, err
			}
			return l, true, nil
		}
	}
	return f
}

// GetOrFetch returns the cached payload for key if it is younger than ttl,
// otherwise invokes produce, stores the result and returns it. A ttl <= 0
// disables caching entirely. Producer failures are never stored; any
// previous entry stays in place so the next call retries. The producer
// runs detached from the initiating caller's context: cancelling one
// caller does not fail the others sharing the flight.
func (f *Fetcher) GetOrFetch(ctx context.Context, key string, ttl time.Duration, produce func(context.Context) ([]byte, error)) ([]byte, error) {
	if ttl <= 0 {
		return produce(ctx)
	}

	if ent, err := f.store.Get(ctx, key); err == nil && f.fresh(ent, ttl) {
		return ent.Payload, nil
	}

	v, err, _ := f.sf.Do(key, func() (any, error) {
		// the flight serves every piled-up caller, so it must not die
		// with the caller that happened to start it
		ctx := context.WithoutCancel(ctx)

		// another flight may have refreshed the entry while we queued
		if ent, err := f.store.Get(ctx, key); err == nil && f.fresh(ent, ttl) {
			return ent.Payload, nil
		}
		return f.refresh(ctx, key, ttl, produce)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (f *Fetcher) refresh(ctx context.Context, key string, ttl time.Duration, produce func(context.Context) ([]byte, error)) ([]byte, error) {
	if f.acquire == nil {
		return f.produceAndStore(ctx, key, produce)
	}

	lockKey := "lock:" + key
	deadline := f.now().Add(f.maxLockWait)

	for {
		l, ok, err := f.acquire(ctx, lockKey, f.lockTTL)
		if err != nil {
			// lock trouble must not block reads
			log.WithError(err).Warnf("refresh lock unavailable for %s", key)
			return f.produceAndStore(ctx, key, produce)
		}
		if ok {
			defer l.Release(ctx)
			if ent, err := f.store.Get(ctx, key); err == nil && f.fresh(ent, ttl) {
				return ent.Payload, nil
			}
			return f.produceAndStore(ctx, key, produce)
		}

		// someone else is refreshing; watch for their write
		if ent, err := f.store.Get(ctx, key); err == nil && f.fresh(ent, ttl) {
			return ent.Payload, nil
		}
		if f.now().After(deadline) {
			return f.produceAndStore(ctx, key, produce)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func (f *Fetcher) produceAndStore(ctx context.Context, key string, produce func(context.Context) ([]byte, error)) ([]byte, error) {
	payload, err := produce(ctx)
	if err != nil {
		return nil, err
	}
	ent := Entry{Payload: payload, StoredAt: f.now()}
	if err := f.store.Put(ctx, key, ent); err != nil {
		// serve the fetched payload even if the write-back failed
		log.WithError(err).Warnf("cache write failed for %s", key)
	}
	return payload, nil
}

func (f *Fetcher) fresh(ent Entry, ttl time.Duration) bool {
	if ent.StoredAt.IsZero() {
		return false
	}
	return f.now().Sub(ent.StoredAt) < ttl
}
