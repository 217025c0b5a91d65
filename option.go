package sieve

type config[K comparable, V any] struct {
	policy     Policy
	readPolicy ReadPolicy
	onEvict    func(K, V)
}

func defaultConfig[K comparable, V any]() config[K, V] {
	return config[K, V]{
		policy:     SIEVE,
		readPolicy: Eventual,
	}
}

// Option configures a Bounded cache.
type Option[K comparable, V any] func(*config[K, V])

// WithPolicy sets the eviction policy.
func WithPolicy[K comparable, V any](p Policy) Option[K, V] {
	return func(c *config[K, V]) {
		c.policy = p
	}
}

// WithReadPolicy sets how Get records recency.
func WithReadPolicy[K comparable, V any](p ReadPolicy) Option[K, V] {
	return func(c *config[K, V]) {
		c.readPolicy = p
	}
}

// OnEvict sets a callback invoked when an entry is evicted to make room for
// a new key. Explicit Evict calls do not trigger it.
// The callback runs after the cache locks are released.
func OnEvict[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(c *config[K, V]) {
		c.onEvict = fn
	}
}

type ttlConfig[K comparable, V any] struct {
	clock    Clock
	onExpire func(K, V)
}

func defaultTTLConfig[K comparable, V any]() ttlConfig[K, V] {
	return ttlConfig[K, V]{
		clock: realClock{},
	}
}

// TTLOption configures a TTL cache.
type TTLOption[K comparable, V any] func(*ttlConfig[K, V])

// WithClock sets a custom clock for time operations.
// Useful for testing TTL behavior.
func WithClock[K comparable, V any](clk Clock) TTLOption[K, V] {
	return func(c *ttlConfig[K, V]) {
		c.clock = clk
	}
}

// OnExpire sets a callback invoked when Get discovers and removes an expired
// entry.
func OnExpire[K comparable, V any](fn func(K, V)) TTLOption[K, V] {
	return func(c *ttlConfig[K, V]) {
		c.onExpire = fn
	}
}
