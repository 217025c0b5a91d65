package sieve

import "sync/atomic"

// Stats holds cache statistics using atomic counters for lock-free updates.
type Stats struct {
	hits           atomic.Int64
	misses         atomic.Int64
	evictions      atomic.Int64
	expirations    atomic.Int64
	skippedTouches atomic.Int64
	loads          atomic.Int64
	loadErrors     atomic.Int64
}

func (s *Stats) hit() { s.hits.Add(1) }
func (s *Stats) miss() { s.misses.Add(1) }
func (s *Stats) evict() { s.evictions.Add(1) }
func (s *Stats) expire() { s.expirations.Add(1) }
func (s *Stats) skipTouch() { s.skippedTouches.Add(1) }
func (s *Stats) load() { s.loads.Add(1) }
func (s *Stats) loadFailed() { s.loadErrors.Add(1) }

// Snapshot is a point-in-time copy of cache statistics.
type Snapshot struct {
	Hits      int64
	Misses    int64
	Evictions int64
	// Expirations counts entries removed by Get because their TTL passed.
	Expirations int64
	// SkippedTouches counts hits whose visited mark was dropped because the
	// evictor lock was busy.
	SkippedTouches int64
	Loads          int64
	LoadErrors     int64
}

// HitRate returns the cache hit rate as a value between 0 and 1.
// Returns 0 if there have been no accesses.
func (s Snapshot) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Snapshot returns a point-in-time copy of the stats.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Hits:           s.hits.Load(),
		Misses:         s.misses.Load(),
		Evictions:      s.evictions.Load(),
		Expirations:    s.expirations.Load(),
		SkippedTouches: s.skippedTouches.Load(),
		Loads:          s.loads.Load(),
		LoadErrors:     s.loadErrors.Load(),
	}
}
