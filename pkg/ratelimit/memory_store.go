package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements an in-memory sliding window store. Suitable for
// single-instance deployments and tests; multi-instance deployments should
// use RedisStore so all replicas share the same window.
type MemoryStore struct {
	mu      sync.RWMutex
	windows map[string]*slidingWindowEntry

	cleanupInterval time.Duration
	initialCapacity int
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
}

type slidingWindowEntry struct {
	timestamps []time.Time
	mu         sync.Mutex
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets the cleanup interval for expired entries.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.cleanupInterval = interval
		}
	}
}

// WithInitialCapacity sets the initial capacity for sliding window timestamps.
func WithInitialCapacity(capacity int) MemoryStoreOption {
	return func(s *MemoryStore) {
		if capacity > 0 {
			s.initialCapacity = capacity
		}
	}
}

// NewMemoryStore creates a new in-memory store with automatic cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		windows:         make(map[string]*slidingWindowEntry),
		cleanupInterval: 1 * time.Minute,
		initialCapacity: 100,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.cleanupLoop()

	return s
}

// RecordTimestampIfAllowed atomically prunes expired timestamps, checks the
// limit, and records n new timestamps when the request fits the window.
func (s *MemoryStore) RecordTimestampIfAllowed(ctx context.Context, key string, timestamp time.Time, window time.Duration, limit int, n int) (bool, int64, error) {
	s.mu.Lock()
	sw, exists := s.windows[key]
	if !exists {
		sw = &slidingWindowEntry{
			timestamps: make([]time.Time, 0, s.initialCapacity),
		}
		s.windows[key] = sw
	}
	s.mu.Unlock()

	sw.mu.Lock()
	defer sw.mu.Unlock()

	cutoff := timestamp.Add(-window)
	validTimestamps := make([]time.Time, 0, len(sw.timestamps)+n)
	for _, ts := range sw.timestamps {
		if ts.After(cutoff) {
			validTimestamps = append(validTimestamps, ts)
		}
	}

	if len(validTimestamps)+n > limit {
		sw.timestamps = validTimestamps
		return false, int64(len(validTimestamps)), nil
	}

	for range n {
		validTimestamps = append(validTimestamps, timestamp)
	}
	sw.timestamps = validTimestamps

	return true, int64(len(validTimestamps)), nil
}

// CountInWindow returns the number of timestamps within the sliding window.
func (s *MemoryStore) CountInWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	s.mu.RLock()
	sw, exists := s.windows[key]
	s.mu.RUnlock()

	if !exists {
		return 0, nil
	}

	sw.mu.Lock()
	defer sw.mu.Unlock()

	cutoff := time.Now().Add(-window)
	count := int64(0)

	// Count timestamps within window and clean up expired ones
	validTimestamps := make([]time.Time, 0, len(sw.timestamps))
	for _, ts := range sw.timestamps {
		if ts.After(cutoff) {
			count++
			validTimestamps = append(validTimestamps, ts)
		}
	}

	sw.timestamps = validTimestamps
	return count, nil
}

// Delete removes the given key from the store.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)
	return nil
}

// cleanupLoop runs periodically to remove empty windows.
func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, sw := range s.windows {
		sw.mu.Lock()
		if len(sw.timestamps) == 0 {
			delete(s.windows, key)
		}
		sw.mu.Unlock()
	}
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.cleanupOnce.Do(func() {
		close(s.stopCleanup)
	})
	return nil
}
