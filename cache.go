package sieve

import "errors"

var (
	// ErrInvalidCapacity is returned when a cache is constructed with a
	// capacity below one.
	ErrInvalidCapacity = errors.New("sieve: capacity must be positive")
	// ErrNilLoader is returned by GetOrLoad when no loader is given.
	ErrNilLoader = errors.New("sieve: nil loader")
	// ErrLoaderPanic is returned to callers waiting on a GetOrLoad call whose
	// loader panicked.
	ErrLoaderPanic = errors.New("sieve: loader panicked")
)

// Cache is the set of operations every bounded cache backend provides.
// Callers written against Cache can switch eviction policies, or stack
// decorators such as TTL, without changes.
type Cache[K comparable, V any] interface {
	// Get returns a copy of the value stored for key. It may record the
	// access for the eviction policy.
	Get(key K) (V, bool)

	// Set inserts or overwrites the value for key. Inserting a new key into
	// a full cache evicts exactly one other key.
	Set(key K, value V)

	// Evict removes key. It is a no-op when key is absent.
	Evict(key K)

	// Len returns the number of stored entries.
	Len() int
}

// ConditionalEvicter is implemented by backends that can remove an entry
// only if its current value still satisfies pred. The check and the removal
// happen atomically.
type ConditionalEvicter[K comparable, V any] interface {
	EvictIf(key K, pred func(V) bool) bool
}

// Constructor builds an empty Cache sized for capacity entries.
// It returns ErrInvalidCapacity when capacity is not positive.
type Constructor[K comparable, V any] func(capacity int) (Cache[K, V], error)

// Factory returns a Constructor that builds Bounded caches with opts.
func Factory[K comparable, V any](opts ...Option[K, V]) Constructor[K, V] {
	return func(capacity int) (Cache[K, V], error) {
		c, err := New[K, V](capacity, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
