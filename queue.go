package sieve

// handle addresses a slot in the queue arena.
type handle int32

const nilHandle handle = -1

// node is a queue slot. prev points toward the front (newer entries), next
// toward the back (older entries).
type node[K comparable] struct {
	key     K
	prev    handle
	next    handle
	visited bool
}

// queue is an insertion-ordered list of keys kept in an arena of slots with an
// intrusive doubly-linked list threaded through it. The front is the newest
// entry. A handle stays valid until its entry is unlinked; freed slots are
// recycled by later pushes.
type queue[K comparable] struct {
	nodes []node[K]
	free  []handle
	index map[K]handle
	head  handle
	tail  handle
}

func newQueue[K comparable](capacity int) *queue[K] {
	return &queue[K]{
		nodes: make([]node[K], 0, capacity),
		index: make(map[K]handle, capacity),
		head:  nilHandle,
		tail:  nilHandle,
	}
}

func (q *queue[K]) len() int {
	return len(q.index)
}

func (q *queue[K]) lookup(key K) (handle, bool) {
	h, ok := q.index[key]
	return h, ok
}

func (q *queue[K]) at(h handle) *node[K] {
	return &q.nodes[h]
}

// pushFront inserts key as the newest entry, unvisited.
func (q *queue[K]) pushFront(key K) handle {
	var h handle
	if n := len(q.free); n > 0 {
		h = q.free[n-1]
		q.free = q.free[:n-1]
		q.nodes[h] = node[K]{key: key}
	} else {
		h = handle(len(q.nodes))
		q.nodes = append(q.nodes, node[K]{key: key})
	}
	q.attachFront(h)
	q.index[key] = h
	return h
}

// unlink removes the entry at h and returns its key. The slot goes back to
// the free list.
func (q *queue[K]) unlink(h handle) K {
	q.detach(h)
	key := q.nodes[h].key
	delete(q.index, key)
	q.nodes[h] = node[K]{prev: nilHandle, next: nilHandle}
	q.free = append(q.free, h)
	return key
}

// moveToFront relinks h as the newest entry without touching its visited bit.
func (q *queue[K]) moveToFront(h handle) {
	if q.head == h {
		return
	}
	q.detach(h)
	q.attachFront(h)
}

func (q *queue[K]) attachFront(h handle) {
	n := &q.nodes[h]
	n.prev = nilHandle
	n.next = q.head
	if q.head != nilHandle {
		q.nodes[q.head].prev = h
	} else {
		q.tail = h
	}
	q.head = h
}

func (q *queue[K]) detach(h handle) {
	n := &q.nodes[h]
	if n.prev != nilHandle {
		q.nodes[n.prev].next = n.next
	} else {
		q.head = n.next
	}
	if n.next != nilHandle {
		q.nodes[n.next].prev = n.prev
	} else {
		q.tail = n.prev
	}
	n.prev = nilHandle
	n.next = nilHandle
}

// keys returns the keys front to back.
func (q *queue[K]) keys() []K {
	out := make([]K, 0, q.len())
	for h := q.head; h != nilHandle; h = q.nodes[h].next {
		out = append(out, q.nodes[h].key)
	}
	return out
}

// visited returns the visited bits front to back.
func (q *queue[K]) visited() []bool {
	out := make([]bool, 0, q.len())
	for h := q.head; h != nilHandle; h = q.nodes[h].next {
		out = append(out, q.nodes[h].visited)
	}
	return out
}

func (q *queue[K]) reset() {
	clear(q.index)
	q.nodes = q.nodes[:0]
	q.free = q.free[:0]
	q.head = nilHandle
	q.tail = nilHandle
}
