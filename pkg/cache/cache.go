// Package cache implements the cache-aside store that memoizes merged
// result sets per query fingerprint.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ticketscope/ticketscope/pkg/listing"
)

// DefaultTTL is how long a computed result set stays fresh.
const DefaultTTL = 15 * time.Minute

type entry struct {
	value      []listing.Merged
	computedAt time.Time
}

// Store maps query fingerprints to merged result sets with time-based
// expiry. Expiry is checked lazily at read time; there is no background
// sweep. Concurrent misses for the same fingerprint collapse into a single
// computation shared by all waiters.
//
// Construct one Store per process and pass it by reference; tests build
// isolated instances with a fake clock.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
	group   singleflight.Group
}

func New(ttl time.Duration) *Store {
	return NewWithClock(ttl, time.Now)
}

// NewWithClock injects the clock used for expiry checks.
func NewWithClock(ttl time.Duration, now func() time.Time) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     now,
	}
}

// GetOrCompute returns the cached result set for key when it is still
// fresh. Otherwise it runs compute, stores the outcome under key, and
// returns it. The returned bool reports whether the call was served from
// cache without waiting on a computation.
//
// A compute error is propagated to every concurrent waiter and nothing is
// cached, so the next call retries. Returned slices are deep copies: the
// caller may sort and slice them freely.
func (s *Store) GetOrCompute(key string, compute func() ([]listing.Merged, error)) ([]listing.Merged, bool, error) {
	if v, ok := s.lookup(key); ok {
		return v, true, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have stored the entry between our miss
		// and acquiring the flight.
		if v, ok := s.lookup(key); ok {
			return v, nil
		}
		result, err := compute()
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.entries[key] = entry{value: listing.CloneAll(result), computedAt: s.now()}
		s.mu.Unlock()
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return listing.CloneAll(v.([]listing.Merged)), false, nil
}

// lookup returns a fresh entry's value (copied out) and evicts expired
// entries as a side effect.
func (s *Store) lookup(key string) ([]listing.Merged, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.computedAt) >= s.ttl {
		s.mu.Lock()
		// Re-check: a recompute may have replaced the entry meanwhile.
		if cur, ok := s.entries[key]; ok && s.now().Sub(cur.computedAt) >= s.ttl {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return listing.CloneAll(e.value), true
}

// Invalidate drops the entry for key, forcing the next call to recompute.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// ClearAll wipes every cached entry. Used by manual refresh endpoints and
// the scheduled cold refresh.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// Len reports the number of cached entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
