package sieve

// Policy selects the eviction algorithm of a Bounded cache.
type Policy int

const (
	// SIEVE evicts the first unvisited entry found by a circular scan. It is
	// the default.
	SIEVE Policy = iota
	// LRU evicts the least recently used entry. Every hit reorders the queue.
	LRU
	// FIFO evicts the oldest inserted entry. Hits are ignored.
	FIFO
)

func (p Policy) String() string {
	switch p {
	case SIEVE:
		return "sieve"
	case LRU:
		return "lru"
	case FIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a policy name as returned by String back to its Policy.
func ParsePolicy(s string) (Policy, bool) {
	for _, p := range []Policy{SIEVE, LRU, FIFO} {
		if p.String() == s {
			return p, true
		}
	}
	return SIEVE, false
}

// ReadPolicy controls how Get records recency.
type ReadPolicy int

const (
	// Eventual makes Get try the evictor lock without blocking. Under
	// contention the visited mark is dropped; values are never affected.
	Eventual ReadPolicy = iota
	// Consistent makes Get wait for the evictor lock so every hit is recorded.
	Consistent
)

// evictor tracks recency for a bounded set of keys.
//
// touch records a write: it inserts key, evicting one other key first when
// full, or marks an existing key as used. mark records a read and never
// inserts.
type evictor[K comparable] interface {
	touch(key K) (victim K, evicted bool)
	mark(key K)
	evict() (K, bool)
	remove(key K)
	keys() []K
	len() int
	reset()
}

// Compile-time interface assertions.
var (
	_ evictor[string] = (*sieveEvictor[string])(nil)
	_ evictor[string] = (*lruEvictor[string])(nil)
	_ evictor[string] = (*fifoEvictor[string])(nil)
)

// lruEvictor moves an entry to the front on every access and evicts from the
// back.
type lruEvictor[K comparable] struct {
	q        *queue[K]
	capacity int
}

func newLRUEvictor[K comparable](capacity int) *lruEvictor[K] {
	return &lruEvictor[K]{q: newQueue[K](capacity), capacity: capacity}
}

func (e *lruEvictor[K]) touch(key K) (K, bool) {
	var victim K
	if h, ok := e.q.lookup(key); ok {
		e.q.moveToFront(h)
		return victim, false
	}
	evicted := false
	if e.q.len() >= e.capacity {
		victim, evicted = e.evict()
	}
	e.q.pushFront(key)
	return victim, evicted
}

func (e *lruEvictor[K]) mark(key K) {
	if h, ok := e.q.lookup(key); ok {
		e.q.moveToFront(h)
	}
}

func (e *lruEvictor[K]) evict() (K, bool) {
	if e.q.tail == nilHandle {
		var zero K
		return zero, false
	}
	return e.q.unlink(e.q.tail), true
}

func (e *lruEvictor[K]) remove(key K) {
	if h, ok := e.q.lookup(key); ok {
		e.q.unlink(h)
	}
}

func (e *lruEvictor[K]) keys() []K { return e.q.keys() }
func (e *lruEvictor[K]) len() int { return e.q.len() }
func (e *lruEvictor[K]) reset() { e.q.reset() }

// fifoEvictor evicts in insertion order. Updates and reads do not reorder.
type fifoEvictor[K comparable] struct {
	q        *queue[K]
	capacity int
}

func newFIFOEvictor[K comparable](capacity int) *fifoEvictor[K] {
	return &fifoEvictor[K]{q: newQueue[K](capacity), capacity: capacity}
}

func (e *fifoEvictor[K]) touch(key K) (K, bool) {
	var victim K
	if _, ok := e.q.lookup(key); ok {
		return victim, false
	}
	evicted := false
	if e.q.len() >= e.capacity {
		victim, evicted = e.evict()
	}
	e.q.pushFront(key)
	return victim, evicted
}

func (e *fifoEvictor[K]) mark(K) {}

func (e *fifoEvictor[K]) evict() (K, bool) {
	if e.q.tail == nilHandle {
		var zero K
		return zero, false
	}
	return e.q.unlink(e.q.tail), true
}

func (e *fifoEvictor[K]) remove(key K) {
	if h, ok := e.q.lookup(key); ok {
		e.q.unlink(h)
	}
}

func (e *fifoEvictor[K]) keys() []K { return e.q.keys() }
func (e *fifoEvictor[K]) len() int { return e.q.len() }
func (e *fifoEvictor[K]) reset() { e.q.reset() }

func newEvictor[K comparable](p Policy, capacity int) evictor[K] {
	switch p {
	case LRU:
		return newLRUEvictor[K](capacity)
	case FIFO:
		return newFIFOEvictor[K](capacity)
	default:
		return newSieveEvictor[K](capacity)
	}
}
