package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"mix-and-munch/internal/infrastructure/config"
	"mix-and-munch/internal/pkg/common"
)

func newTestMemoryStore(t *testing.T, maxSize int) *MemoryStore {
	t.Helper()
	m := NewMemoryStore(&config.CacheConfig{
		MaxSize:         maxSize,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(func() { m.Close() })
	return m
}

func TestMemoryStoreGetSet(t *testing.T) {
	m := newTestMemoryStore(t, 10)
	ctx := context.Background()

	if _, err := m.Get(ctx, "missing"); !errors.Is(err, common.ErrCacheMiss) {
		t.Errorf("err = %v, want ErrCacheMiss", err)
	}

	if err := m.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	m := newTestMemoryStore(t, 10)
	ctx := context.Background()

	if err := m.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	time.Sleep(25 * time.Millisecond)

	if _, err := m.Get(ctx, "k"); !errors.Is(err, common.ErrCacheMiss) {
		t.Errorf("err after expiry = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryStoreEvictsWhenFull(t *testing.T) {
	m := newTestMemoryStore(t, 2)
	ctx := context.Background()

	if err := m.Set(ctx, "a", "1", time.Minute); err != nil {
		t.Fatalf("Set a: %v", err)
	}
	if err := m.Set(ctx, "b", "2", time.Minute); err != nil {
		t.Fatalf("Set b: %v", err)
	}

	// Touch "a" so "b" becomes the LRU victim.
	if _, err := m.Get(ctx, "a"); err != nil {
		t.Fatalf("Get a: %v", err)
	}

	if err := m.Set(ctx, "c", "3", time.Minute); err != nil {
		t.Fatalf("Set c with full store: %v", err)
	}

	if _, err := m.Get(ctx, "a"); err != nil {
		t.Error("recently used entry was evicted")
	}
	if _, err := m.Get(ctx, "c"); err != nil {
		t.Error("new entry missing after eviction")
	}
	if _, err := m.Get(ctx, "b"); !errors.Is(err, common.ErrCacheMiss) {
		t.Errorf("LRU entry: err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryStoreStats(t *testing.T) {
	m := newTestMemoryStore(t, 10)
	ctx := context.Background()

	m.Set(ctx, "k", "v", time.Minute)
	m.Get(ctx, "k")       // hit
	m.Get(ctx, "absent")  // miss
	m.Get(ctx, "absent2") // miss

	stats := m.Stats()
	if stats["hits"].(int64) != 1 {
		t.Errorf("hits = %v, want 1", stats["hits"])
	}
	if stats["misses"].(int64) != 2 {
		t.Errorf("misses = %v, want 2", stats["misses"])
	}
	if stats["size"].(int) != 1 {
		t.Errorf("size = %v, want 1", stats["size"])
	}
}

func TestCacheKeys(t *testing.T) {
	if got := FilterKey("tomato"); got != "filter:tomato" {
		t.Errorf("FilterKey = %q", got)
	}
	if got := DetailKey("52804"); got != "detail:52804" {
		t.Errorf("DetailKey = %q", got)
	}
}

func TestNoopStore(t *testing.T) {
	s := NewNoopStore()
	ctx := context.Background()

	if err := s.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("noop Set returned error: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, common.ErrCacheDisabled) {
		t.Errorf("noop Get err = %v, want ErrCacheDisabled", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("noop Close returned error: %v", err)
	}
}
