package services

import (
	"context"
	"testing"
	"time"
)

func TestMemorySummaryCache(t *testing.T) {
	ctx := context.Background()
	current := time.Now()
	cache := NewMemorySummaryCache(time.Hour)
	cache.now = func() time.Time { return current }

	if _, ok := cache.Get(ctx, "unknown content"); ok {
		t.Error("expected a miss for content never cached")
	}

	cache.Set(ctx, "some note content", "a short summary")

	summary, ok := cache.Get(ctx, "some note content")
	if !ok {
		t.Fatal("expected a hit for cached content")
	}
	if summary != "a short summary" {
		t.Errorf("expected cached summary, got %q", summary)
	}

	// A different content string is a different key
	if _, ok := cache.Get(ctx, "some other content"); ok {
		t.Error("expected a miss for different content")
	}
}

func TestMemorySummaryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	current := time.Now()
	cache := NewMemorySummaryCache(time.Hour)
	cache.now = func() time.Time { return current }

	cache.Set(ctx, "content", "summary")

	current = current.Add(59 * time.Minute)
	if _, ok := cache.Get(ctx, "content"); !ok {
		t.Error("entry should still be valid before the TTL elapses")
	}

	current = current.Add(2 * time.Minute)
	if _, ok := cache.Get(ctx, "content"); ok {
		t.Error("expired entry must never be returned")
	}

	cache.mu.Lock()
	defer cache.mu.Unlock()
	if len(cache.entries) != 0 {
		t.Error("expired entry should be evicted on access")
	}
}

func TestMemorySummaryCacheOverwriteRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	current := time.Now()
	cache := NewMemorySummaryCache(time.Hour)
	cache.now = func() time.Time { return current }

	cache.Set(ctx, "content", "old summary")
	current = current.Add(50 * time.Minute)
	cache.Set(ctx, "content", "new summary")

	current = current.Add(30 * time.Minute)
	summary, ok := cache.Get(ctx, "content")
	if !ok {
		t.Fatal("rewritten entry should be valid for a full TTL")
	}
	if summary != "new summary" {
		t.Errorf("expected new summary, got %q", summary)
	}
}
