package sieve

import (
	"fmt"
	"sync"
)

// Bounded is a concurrency-safe cache holding at most Capacity entries.
//
// Values live in a map behind a sync.RWMutex. Recency metadata lives in an
// evictor behind a separate sync.Mutex, so readers share the value lock and
// only contend on the evictor when recording a hit. Writers take the value
// lock and then the evictor lock, always in that order.
type Bounded[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V

	emu     sync.Mutex
	evictor evictor[K]

	capacity int
	cfg      config[K, V]
	stats    Stats
}

// Compile-time interface assertion.
var (
	_ Cache[string, int]              = (*Bounded[string, int])(nil)
	_ ConditionalEvicter[string, int] = (*Bounded[string, int])(nil)
)

// New creates a Bounded cache for capacity entries.
// It returns ErrInvalidCapacity when capacity is not positive.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Bounded[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	cfg := defaultConfig[K, V]()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Bounded[K, V]{
		data:     make(map[K]V, capacity),
		evictor:  newEvictor[K](cfg.policy, capacity),
		capacity: capacity,
		cfg:      cfg,
	}, nil
}

// Get returns the value for key and records the hit with the evictor.
//
// Under the Eventual read policy the hit is recorded only if the evictor lock
// is free; Get never waits for it.
func (c *Bounded[K, V]) Get(key K) (V, bool) {
	v, ok := c.get(key)
	if !ok {
		c.stats.miss()
		return v, false
	}
	c.stats.hit()
	return v, true
}

func (c *Bounded[K, V]) get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.data[key]
	if ok {
		c.markLocked(key)
	}
	return v, ok
}

// markLocked requires c.mu to be held for reading.
func (c *Bounded[K, V]) markLocked(key K) {
	if c.cfg.readPolicy == Consistent {
		c.emu.Lock()
	} else if !c.emu.TryLock() {
		c.stats.skipTouch()
		return
	}
	defer c.emu.Unlock()

	c.evictor.mark(key)
}

// Set inserts or overwrites the value for key. When key is new and the cache
// is full, the evictor picks one other entry to drop first.
func (c *Bounded[K, V]) Set(key K, value V) {
	victim, old, evicted := c.set(key, value)
	if !evicted {
		return
	}
	c.stats.evict()
	if c.cfg.onEvict != nil {
		c.cfg.onEvict(victim, old)
	}
}

func (c *Bounded[K, V]) set(key K, value V) (victim K, old V, evicted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = value

	c.emu.Lock()
	defer c.emu.Unlock()

	victim, evicted = c.evictor.touch(key)
	if evicted {
		old = c.data[victim]
		delete(c.data, victim)
	}
	return victim, old, evicted
}

// Evict removes key from the cache. It is a no-op if key is absent.
func (c *Bounded[K, V]) Evict(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)

	c.emu.Lock()
	defer c.emu.Unlock()

	c.evictor.remove(key)
}

// EvictIf removes key if it is present and pred reports true for its current
// value. pred runs with the cache locks held and must not call back into c.
func (c *Bounded[K, V]) EvictIf(key K, pred func(V) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[key]
	if !ok || !pred(v) {
		return false
	}
	delete(c.data, key)

	c.emu.Lock()
	defer c.emu.Unlock()

	c.evictor.remove(key)
	return true
}

// Has reports whether key is stored, without recording an access.
func (c *Bounded[K, V]) Has(key K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.data[key]
	return ok
}

// Len returns the number of entries in the cache.
func (c *Bounded[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}

// Capacity returns the maximum number of entries.
func (c *Bounded[K, V]) Capacity() int {
	return c.capacity
}

// Keys returns the keys in evictor order, newest first.
// It is meant for diagnostics.
func (c *Bounded[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.emu.Lock()
	defer c.emu.Unlock()

	return c.evictor.keys()
}

// Clear removes all entries.
func (c *Bounded[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emu.Lock()
	defer c.emu.Unlock()

	clear(c.data)
	c.evictor.reset()
}

// Stats returns a snapshot of cache statistics.
func (c *Bounded[K, V]) Stats() Snapshot {
	return c.stats.Snapshot()
}
