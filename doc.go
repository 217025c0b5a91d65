// Package sieve provides a bounded, generic in-memory cache with SIEVE
// eviction and an optional time-to-live decorator.
//
// # Overview
//
// Bounded is a concurrency-safe cache of fixed capacity. When a new key is
// inserted into a full cache, one entry is evicted. The default policy is
// SIEVE: entries keep their insertion position forever and a hit only sets a
// per-entry visited bit. Eviction scans from a persistent hand, clearing
// visited bits until it finds an entry that has not been used since the last
// scan. Reads never reorder anything, which keeps the hot path cheap.
//
// # Basic Usage
//
//	cache, err := sieve.New[string, int](1000)
//	if err != nil {
//		return err
//	}
//
//	cache.Set("key", 42)
//
//	if v, ok := cache.Get("key"); ok {
//		fmt.Println(v)
//	}
//
//	cache.Evict("key")
//
// # Eviction Policies
//
// Policies are interchangeable behind the same cache:
//
//	// SIEVE - approximate recency, no reordering on reads (default)
//	cache, _ := sieve.New[string, int](100, sieve.WithPolicy[string, int](sieve.SIEVE))
//
//	// LRU - Least Recently Used
//	cache, _ := sieve.New[string, int](100, sieve.WithPolicy[string, int](sieve.LRU))
//
//	// FIFO - First In, First Out
//	cache, _ := sieve.New[string, int](100, sieve.WithPolicy[string, int](sieve.FIFO))
//
// # Read Policy
//
// A hit records itself with the evictor under a second lock. By default Get
// only tries that lock and drops the visited mark if another goroutine holds
// it (Eventual). Lost marks can make eviction choose a recently used entry;
// they never affect the value returned. Consistent makes Get wait instead:
//
//	cache, _ := sieve.New[string, int](100,
//		sieve.WithReadPolicy[string, int](sieve.Consistent),
//	)
//
// Stats().SkippedTouches counts the dropped marks.
//
// # Expiration
//
// TTL wraps any Cache whose values are Expiring and stamps each entry with an
// expiry instant. Expired entries are removed when a Get finds them:
//
//	backend, _ := sieve.New[string, sieve.Expiring[[]byte]](1000)
//	cache := sieve.NewTTL[string, []byte](backend)
//
//	cache.Set("session", []byte("alice"), 5*time.Minute)
//	v, ok := cache.Get("session")
//
// The backend can be any Cache implementation, so the decorator works with
// every policy and with caches defined outside this package.
//
// # Automatic Loading
//
// GetOrLoad fills misses from a loader. Concurrent misses for the same key
// share one loader call:
//
//	user, err := cache.GetOrLoad(ctx, "user:123", time.Minute,
//		func(ctx context.Context, id string) ([]byte, error) {
//			return db.GetUser(ctx, id)
//		},
//	)
//
// # Lifecycle Hooks
//
//	backend, _ := sieve.New[string, int](100,
//		sieve.OnEvict(func(key string, value int) {
//			logger.Debug("evicted", "key", key)
//		}),
//	)
//
// # Testing
//
// Inject a custom clock to control time in tests:
//
//	clock := &fakeClock{now: time.Now()}
//	cache := sieve.NewTTL[string, int](backend,
//		sieve.WithClock[string, int](clock),
//	)
//
//	cache.Set("key", 42, time.Minute)
//	clock.now = clock.now.Add(2 * time.Minute) // TTL expired
//	_, ok := cache.Get("key")                  // ok == false
//
// # Thread Safety
//
// All Bounded and TTL methods are safe for concurrent use.
package sieve
