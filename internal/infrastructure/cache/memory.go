package cache

import (
	"context"
	"sync"
	"time"

	"mix-and-munch/internal/infrastructure/config"
	"mix-and-munch/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryStore is an in-process Store used when Redis is disabled or
// unreachable. Entries carry their own TTL; a background goroutine sweeps
// expired ones and an LRU pass runs when the store is full.
type MemoryStore struct {
	mu      sync.RWMutex
	store   map[string]memoryEntry
	maxSize int
	stats   memoryStats
	done    chan struct{}
}

type memoryEntry struct {
	value       string
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

type memoryStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewMemoryStore creates a memory-backed cache and starts its sweeper.
func NewMemoryStore(cfg *config.CacheConfig) *MemoryStore {
	m := &MemoryStore{
		store:   make(map[string]memoryEntry),
		maxSize: cfg.MaxSize,
		done:    make(chan struct{}),
	}

	go m.startCleanup(cfg.CleanupInterval)

	common.LogInfo("memory cache initialized",
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)

	return m
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[key]
	if !exists {
		m.stats.misses++
		return "", common.ErrCacheMiss
	}

	if time.Now().After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		return "", common.ErrCacheMiss
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	m.store[key] = entry
	m.stats.hits++

	return entry.value, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.store) >= m.maxSize {
		evicted := m.sweepLocked()
		if evicted > 0 {
			common.LogDebug("memory cache sweep", zap.Int("evicted", evicted))
		}
		if len(m.store) >= m.maxSize {
			m.evictLRULocked()
		}
		if len(m.store) >= m.maxSize {
			common.LogWarn("memory cache full", zap.Int("size", len(m.store)))
			return common.ErrCacheFull
		}
	}

	now := time.Now()
	m.store[key] = memoryEntry{
		value:      value,
		expiresAt:  now.Add(ttl),
		lastAccess: now,
	}
	return nil
}

func (m *MemoryStore) Close() error {
	close(m.done)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]memoryEntry)
	common.LogInfo("memory cache closed",
		zap.Int64("hits", m.stats.hits),
		zap.Int64("misses", m.stats.misses),
		zap.Int64("evictions", m.stats.evictions),
	)
	return nil
}

// Stats reports counters for the health endpoint.
func (m *MemoryStore) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.stats.hits + m.stats.misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(m.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"size":      len(m.store),
		"max_size":  m.maxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"hit_ratio": ratio,
	}
}

func (m *MemoryStore) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.sweepLocked()
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

// sweepLocked deletes expired entries. Caller holds the write lock.
func (m *MemoryStore) sweepLocked() int {
	now := time.Now()
	count := 0
	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}
	return count
}

// evictLRULocked removes the least recently used entry. Caller holds the
// write lock.
func (m *MemoryStore) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestCount int

	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestCount ||
			(entry.accessCount == lowestCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
	}
}
