package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ticker-kit/risk-api/internal/common"
	"github.com/ticker-kit/risk-api/internal/interfaces"
)

// Verify interface compliance
var _ interfaces.CacheStore = (*MemoryStore)(nil)

// sweepInterval is how often the background sweeper evicts expired entries.
const sweepInterval = time.Minute

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is the in-process cache backend used in development and tests.
// Expired entries are dropped lazily on read and swept periodically.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	logger  *common.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates an in-memory cache store and starts its sweeper.
func NewMemoryStore(logger *common.Logger) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		logger:  logger,
		stop:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Get implements interfaces.CacheStore.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if entry.expired(time.Now()) {
		s.mu.Lock()
		// Re-check under the write lock: a Set may have replaced the entry.
		if cur, ok := s.entries[key]; ok && cur.expired(time.Now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return "", false, nil
	}
	return entry.value, true, nil
}

// Set implements interfaces.CacheStore.
func (s *MemoryStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

// Delete implements interfaces.CacheStore.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Close stops the sweeper. The store remains usable but no longer evicts in
// the background.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// Len returns the live entry count, counting unexpired entries only.
func (s *MemoryStore) Len() int {
	now := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, entry := range s.entries {
		if !entry.expired(now) {
			n++
		}
	}
	return n
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for key, entry := range s.entries {
				if entry.expired(now) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
