package sieve

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TTL adds per-entry expiration to any Cache.
//
// Expiration is lazy: an expired entry keeps its slot until a Get finds it,
// evicts it from the backend and reports a miss. Len therefore counts expired
// entries that have not been read since they expired.
type TTL[K comparable, V any] struct {
	backend Cache[K, Expiring[V]]
	cfg     ttlConfig[K, V]
	stats   Stats

	// single-flight for GetOrLoad
	loading sync.Map // K -> *loadCall[V]
}

type loadCall[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// NewTTL wraps backend with expiration.
func NewTTL[K comparable, V any](backend Cache[K, Expiring[V]], opts ...TTLOption[K, V]) *TTL[K, V] {
	cfg := defaultTTLConfig[K, V]()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &TTL[K, V]{
		backend: backend,
		cfg:     cfg,
	}
}

// NewTTLWith builds the backend with ctor and wraps it.
//
//	c, err := sieve.NewTTLWith(1000, sieve.Factory[string, sieve.Expiring[[]byte]]())
func NewTTLWith[K comparable, V any](capacity int, ctor Constructor[K, Expiring[V]], opts ...TTLOption[K, V]) (*TTL[K, V], error) {
	backend, err := ctor(capacity)
	if err != nil {
		return nil, err
	}
	return NewTTL(backend, opts...), nil
}

// Get returns the value for key if it is present and not expired.
// An expired entry is evicted from the backend.
func (t *TTL[K, V]) Get(key K) (V, bool) {
	var zero V

	ent, ok := t.backend.Get(key)
	if !ok {
		t.stats.miss()
		return zero, false
	}

	now := t.cfg.clock.Now()
	if ent.Expired(now) {
		t.stats.miss()
		if t.evictExpired(key, now) {
			t.stats.expire()
			if t.cfg.onExpire != nil {
				t.cfg.onExpire(key, ent.Value)
			}
		}
		return zero, false
	}

	t.stats.hit()
	return ent.Value, true
}

// evictExpired removes key if its entry is still expired at now. A value
// written after the expired read survives when the backend can evict
// conditionally.
func (t *TTL[K, V]) evictExpired(key K, now time.Time) bool {
	ce, ok := t.backend.(ConditionalEvicter[K, Expiring[V]])
	if !ok {
		t.backend.Evict(key)
		return true
	}
	return ce.EvictIf(key, func(ent Expiring[V]) bool {
		return ent.Expired(now)
	})
}

// Set stores value under key for ttl. A ttl of zero or less never expires.
func (t *TTL[K, V]) Set(key K, value V, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = t.cfg.clock.Now().Add(ttl)
	}
	t.backend.Set(key, Expiring[V]{Value: value, ExpiresAt: expiresAt})
}

// Evict removes key.
func (t *TTL[K, V]) Evict(key K) {
	t.backend.Evict(key)
}

// Len returns the backend's entry count, including expired entries that have
// not been read yet.
func (t *TTL[K, V]) Len() int {
	return t.backend.Len()
}

// Stats returns a snapshot of the decorator's statistics.
// Evictions made by the backend are reported by the backend.
func (t *TTL[K, V]) Stats() Snapshot {
	return t.stats.Snapshot()
}

// GetOrLoad returns the cached value for key, calling loader on a miss and
// caching its result for ttl. Concurrent misses on the same key share one
// loader call. Loader errors are returned and not cached. If loader panics,
// waiting callers get ErrLoaderPanic and the panic propagates to the caller
// that ran it.
func (t *TTL[K, V]) GetOrLoad(ctx context.Context, key K, ttl time.Duration, loader func(context.Context, K) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, ErrNilLoader
	}

	if v, ok := t.Get(key); ok {
		return v, nil
	}

	call := &loadCall[V]{done: make(chan struct{})}
	actual, loaded := t.loading.LoadOrStore(key, call)
	if loaded {
		// another goroutine is loading
		existing := actual.(*loadCall[V])
		select {
		case <-existing.done:
			return existing.value, existing.err
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	defer t.loading.Delete(key)
	defer func() {
		if r := recover(); r != nil {
			call.err = fmt.Errorf("%w: %v", ErrLoaderPanic, r)
			t.stats.loadFailed()
			close(call.done)
			panic(r)
		}
	}()

	t.stats.load()
	v, err := loader(ctx, key)
	if err != nil {
		t.stats.loadFailed()
	} else {
		t.Set(key, v, ttl)
	}

	call.value = v
	call.err = err
	close(call.done)

	if err != nil {
		return zero, err
	}
	return v, nil
}

// WithDefault returns a view of t that satisfies Cache, storing every value
// for ttl.
func (t *TTL[K, V]) WithDefault(ttl time.Duration) Cache[K, V] {
	return &fixedTTL[K, V]{t: t, ttl: ttl}
}

type fixedTTL[K comparable, V any] struct {
	t   *TTL[K, V]
	ttl time.Duration
}

var _ Cache[string, int] = (*fixedTTL[string, int])(nil)

func (f *fixedTTL[K, V]) Get(key K) (V, bool) { return f.t.Get(key) }
func (f *fixedTTL[K, V]) Set(key K, value V) { f.t.Set(key, value, f.ttl) }
func (f *fixedTTL[K, V]) Evict(key K) { f.t.Evict(key) }
func (f *fixedTTL[K, V]) Len() int { return f.t.Len() }
