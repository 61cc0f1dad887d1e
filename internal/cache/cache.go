package cache

import (
	"sync"
	"time"

	"country-voting/internal/metrics"
)

// DefaultTTL is applied by callers that do not pick their own expiry.
const DefaultTTL = 300 * time.Second

type entry struct {
	value  any
	expiry time.Time
}

// Store is an in-memory key/value store with per-entry TTLs.
// Expired entries are evicted lazily on access; there is no background sweep
// beyond what Stats performs.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
}

func New() *Store {
	return &Store{entries: make(map[string]entry)}
}

// Set stores value under key, overwriting any prior entry.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expiry: time.Now().Add(ttl)}
}

// Get returns the value for key, or false if the key is absent or expired.
// An expired entry is removed as part of the lookup.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(key)
}

func (s *Store) getLocked(key string) (any, bool) {
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiry) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

// Has reports whether key holds a fresh entry.
func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

// GetOrSet returns the cached value for key if fresh. On a miss it invokes fn
// exactly once, stores the result with the given ttl and returns it. If fn
// fails, nothing is cached and the error is returned, so the next call retries.
//
// Concurrent misses on the same key are not coalesced: both callers may invoke
// fn and the last write wins. Lookups are idempotent, so this is tolerated
// rather than serialized.
func (s *Store) GetOrSet(key string, ttl time.Duration, fn func() (any, error)) (any, error) {
	s.mu.Lock()
	if v, ok := s.getLocked(key); ok {
		s.mu.Unlock()
		metrics.IncCacheHit()
		return v, nil
	}
	s.mu.Unlock()
	metrics.IncCacheMiss()

	v, err := fn()
	if err != nil {
		return nil, err
	}

	s.Set(key, v, ttl)
	return v, nil
}

type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// Stats sweeps all expired entries, then reports the remaining entry count
// and key list.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if now.After(e.expiry) {
			delete(s.entries, key)
		}
	}

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return Stats{Size: len(s.entries), Keys: keys}
}
