package sieve

// sieveEvictor implements SIEVE eviction.
//
// Entries never move on access; a hit only sets the entry's visited bit. The
// hand remembers where the previous eviction scan stopped. Each scan walks from
// the hand toward the front of the queue, wrapping to the tail, clearing
// visited bits until it reaches an unvisited entry, which it removes. An entry
// therefore survives one scan per access.
//
// See https://cachemon.github.io/SIEVE-website/ for the algorithm.
type sieveEvictor[K comparable] struct {
	q        *queue[K]
	capacity int

	// hand is nilHandle until the first eviction and whenever the previous
	// scan removed the front entry. A nil hand starts the next scan at the
	// tail.
	hand handle
}

func newSieveEvictor[K comparable](capacity int) *sieveEvictor[K] {
	return &sieveEvictor[K]{
		q:        newQueue[K](capacity),
		capacity: capacity,
		hand:     nilHandle,
	}
}

func (e *sieveEvictor[K]) touch(key K) (K, bool) {
	var victim K
	if h, ok := e.q.lookup(key); ok {
		e.q.at(h).visited = true
		return victim, false
	}

	evicted := false
	if e.q.len() >= e.capacity {
		victim, evicted = e.evict()
	}
	if e.q.len() == 0 {
		e.hand = nilHandle
	}
	e.q.pushFront(key)
	return victim, evicted
}

func (e *sieveEvictor[K]) mark(key K) {
	if h, ok := e.q.lookup(key); ok {
		e.q.at(h).visited = true
	}
}

func (e *sieveEvictor[K]) evict() (K, bool) {
	if e.q.len() == 0 {
		e.hand = nilHandle
		var zero K
		return zero, false
	}

	h := e.hand
	if h == nilHandle {
		h = e.q.tail
	}
	for {
		n := e.q.at(h)
		if !n.visited {
			break
		}
		n.visited = false
		h = n.prev
		if h == nilHandle {
			h = e.q.tail
		}
	}

	e.hand = e.q.at(h).prev
	return e.q.unlink(h), true
}

func (e *sieveEvictor[K]) remove(key K) {
	h, ok := e.q.lookup(key)
	if !ok {
		return
	}
	if e.hand == h {
		e.hand = e.q.at(h).prev
	}
	e.q.unlink(h)
	if e.q.len() == 0 {
		e.hand = nilHandle
	}
}

func (e *sieveEvictor[K]) keys() []K {
	return e.q.keys()
}

func (e *sieveEvictor[K]) len() int {
	return e.q.len()
}

func (e *sieveEvictor[K]) reset() {
	e.q.reset()
	e.hand = nilHandle
}
