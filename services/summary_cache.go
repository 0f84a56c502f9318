package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SummaryTTL is how long a generated summary stays valid for reuse.
const SummaryTTL = time.Hour

// summaryKeyPrefix namespaces cache keys so note content cannot collide
// with other cache uses sharing the same backend.
const summaryKeyPrefix = "summary:"

// SummaryCache memoizes provider-generated summaries keyed by the exact
// note content. It is a best-effort optimization: a miss or a wiped cache
// never changes a submission's outcome, only its provider call count.
type SummaryCache interface {
	Get(ctx context.Context, content string) (string, bool)
	Set(ctx context.Context, content string, summary string)
}

func summaryKey(content string) string {
	return summaryKeyPrefix + content
}

// MemorySummaryCache is the process-local default backend.
type MemorySummaryCache struct {
	mu      sync.Mutex
	entries map[string]memoryCacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryCacheEntry struct {
	summary   string
	expiresAt time.Time
}

func NewMemorySummaryCache(ttl time.Duration) *MemorySummaryCache {
	return &MemorySummaryCache{
		entries: make(map[string]memoryCacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached summary for content. Expired entries read as
// misses and are evicted lazily.
func (mc *MemorySummaryCache) Get(ctx context.Context, content string) (string, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	key := summaryKey(content)
	entry, ok := mc.entries[key]
	if !ok {
		return "", false
	}
	if !mc.now().Before(entry.expiresAt) {
		delete(mc.entries, key)
		return "", false
	}
	return entry.summary, true
}

func (mc *MemorySummaryCache) Set(ctx context.Context, content string, summary string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.entries[summaryKey(content)] = memoryCacheEntry{
		summary:   summary,
		expiresAt: mc.now().Add(mc.ttl),
	}
}

// RedisSummaryCache shares summaries across processes when REDIS_URL is
// configured. Redis errors degrade to cache misses.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(redisURL string, ttl time.Duration) (*RedisSummaryCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &RedisSummaryCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func (rc *RedisSummaryCache) Get(ctx context.Context, content string) (string, bool) {
	summary, err := rc.client.Get(ctx, summaryKey(content)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.Printf("summary cache read failed: %v", err)
		return "", false
	}
	return summary, true
}

func (rc *RedisSummaryCache) Set(ctx context.Context, content string, summary string) {
	if err := rc.client.Set(ctx, summaryKey(content), summary, rc.ttl).Err(); err != nil {
		log.Printf("summary cache write failed: %v", err)
	}
}
