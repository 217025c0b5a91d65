package sieve

import "time"

// Expiring is a value stamped with the instant it stops being served.
// A zero ExpiresAt never expires.
type Expiring[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// Expired reports whether the value is dead at now.
func (e Expiring[V]) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}
