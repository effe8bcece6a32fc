package engine

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result cache, 2-tier: L1 in-memory + optional L2 Redis. L1 is fast
// but lost on restart; L2 survives restarts. Entries are TTL-bounded —
// this is a cache, not a persistence layer; the markdown artifact on
// disk remains the only persisted output.
var metaCache *tieredCache

// Cache metrics — atomic counters for thread-safe access.
var (
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
)

type tieredCache struct {
	l1              sync.Map      // key → *cacheEntry
	rdb             *redis.Client // nil if Redis unavailable
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	stop            chan struct{} // closed when this cache is replaced
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// InitCache sets up the 2-tier cache. Call after Init().
// redisURL can be empty to disable L2.
func InitCache(redisURL string, ttl time.Duration, maxEntries int, cleanupInterval time.Duration) {
	c := &tieredCache{ttl: ttl, maxEntries: maxEntries, cleanupInterval: cleanupInterval, stop: make(chan struct{})}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			slog.Warn("cache: invalid redis URL, L2 disabled", slog.Any("error", err))
		} else {
			rdb := redis.NewClient(opts)
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				slog.Warn("cache: redis unreachable, L2 disabled", slog.Any("error", err))
			} else {
				c.rdb = rdb
				slog.Info("cache: L2 redis connected", slog.String("addr", opts.Addr))
			}
		}
	}

	// Re-init retires the previous cache's cleanup goroutine.
	if metaCache != nil {
		close(metaCache.stop)
	}
	metaCache = c
	slog.Info("cache: initialized", slog.Duration("ttl", ttl), slog.Bool("redis", c.rdb != nil), slog.Int("max_entries", maxEntries))

	go c.cleanupLoop()
}

// CacheKey builds a deterministic cache key from parts.
func CacheKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("ym:%x", hash[:12])
}

// CacheGet tries L1, then L2. On L2 hit, populates L1.
func CacheGet(ctx context.Context, key string) (Result, bool) {
	if metaCache == nil {
		cacheMisses.Add(1)
		return Result{}, false
	}

	if val, ok := metaCache.l1.Load(key); ok {
		entry := val.(*cacheEntry)
		if time.Now().Before(entry.expiresAt) {
			var res Result
			if json.Unmarshal(entry.data, &res) == nil {
				cacheHits.Add(1)
				return res, true
			}
		}
		metaCache.l1.Delete(key) // expired or corrupt
	}

	if metaCache.rdb != nil {
		data, err := metaCache.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var res Result
			if json.Unmarshal(data, &res) == nil {
				cacheHits.Add(1)
				metaCache.l1.Store(key, &cacheEntry{
					data:      data,
					expiresAt: time.Now().Add(metaCache.ttl),
				})
				return res, true
			}
		}
	}

	cacheMisses.Add(1)
	return Result{}, false
}

// CacheSet stores a result in both L1 and L2.
func CacheSet(ctx context.Context, key string, res Result) {
	if metaCache == nil {
		return
	}

	data, err := json.Marshal(res)
	if err != nil {
		return
	}

	metaCache.evictIfNeeded()

	metaCache.l1.Store(key, &cacheEntry{
		data:      data,
		expiresAt: time.Now().Add(metaCache.ttl),
	})

	if metaCache.rdb != nil {
		if err := metaCache.rdb.Set(ctx, key, data, metaCache.ttl).Err(); err != nil {
			slog.Debug("cache: L2 set failed", slog.Any("error", err))
		}
	}
}

// CacheStats returns current cache hit/miss counters.
func CacheStats() (hits, misses int64) {
	return cacheHits.Load(), cacheMisses.Load()
}

// evictIfNeeded removes entries when L1 exceeds maxEntries:
// expired entries first, then oldest until under the limit.
func (c *tieredCache) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}

	count := 0
	c.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count < c.maxEntries {
		return
	}

	now := time.Now()
	c.l1.Range(func(key, val any) bool {
		if entry, ok := val.(*cacheEntry); ok && now.After(entry.expiresAt) {
			c.l1.Delete(key)
			count--
		}
		return count >= c.maxEntries
	})
	if count < c.maxEntries {
		return
	}

	// Earlier expiry = older entry, since expiry = createdAt + ttl.
	var oldest struct {
		key any
		at  time.Time
	}
	for count >= c.maxEntries {
		oldest.key = nil
		oldest.at = time.Now().Add(time.Hour)
		c.l1.Range(func(key, val any) bool {
			if entry, ok := val.(*cacheEntry); ok && entry.expiresAt.Before(oldest.at) {
				oldest.key = key
				oldest.at = entry.expiresAt
			}
			return true
		})
		if oldest.key == nil {
			break
		}
		c.l1.Delete(oldest.key)
		count--
	}
}

// cleanupLoop periodically removes expired L1 entries until the cache
// is replaced.
func (c *tieredCache) cleanupLoop() {
	interval := c.cleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.l1.Range(func(key, val any) bool {
				if entry, ok := val.(*cacheEntry); ok && now.After(entry.expiresAt) {
					c.l1.Delete(key)
				}
				return true
			})
		}
	}
}
