package engine

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		k1 := CacheKey("meta", "dQw4w9WgXcQ", "en")
		k2 := CacheKey("meta", "dQw4w9WgXcQ", "en")
		if k1 != k2 {
			t.Errorf("CacheKey not deterministic: %q != %q", k1, k2)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		k1 := CacheKey("meta", "dQw4w9WgXcQ", "en")
		k2 := CacheKey("meta", "dQw4w9WgXcQ", "de")
		if k1 == k2 {
			t.Errorf("different inputs produced same key: %q", k1)
		}
	})

	t.Run("has prefix", func(t *testing.T) {
		k := CacheKey("test")
		if k[:3] != "ym:" {
			t.Errorf("expected ym: prefix, got %q", k[:3])
		}
	})
}

func TestCacheGetSet(t *testing.T) {
	// Minimal cache, no Redis.
	InitCache("", 1*time.Minute, 100, 5*time.Minute)

	ctx := context.Background()
	key := CacheKey("test", "round-trip")

	_, ok := CacheGet(ctx, key)
	if ok {
		t.Error("expected cache miss on empty cache")
	}

	val := Result{VideoID: "dQw4w9WgXcQ", Title: "Cached Title", FilePath: "/tmp/x.md"}
	CacheSet(ctx, key, val)

	got, ok := CacheGet(ctx, key)
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if got.Title != "Cached Title" || got.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("got %+v, want %+v", got, val)
	}
}

func TestCacheExpiry(t *testing.T) {
	InitCache("", 10*time.Millisecond, 100, 5*time.Minute)

	ctx := context.Background()
	key := CacheKey("test", "expiry")
	CacheSet(ctx, key, Result{VideoID: "x"})

	if _, ok := CacheGet(ctx, key); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := CacheGet(ctx, key); ok {
		t.Error("expected miss after expiry")
	}
}

func TestCacheEviction(t *testing.T) {
	InitCache("", 1*time.Minute, 5, 5*time.Minute)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		CacheSet(ctx, CacheKey("evict", fmt.Sprintf("%d", i)), Result{VideoID: fmt.Sprintf("v%d", i)})
	}

	count := 0
	metaCache.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count > 5 {
		t.Errorf("L1 holds %d entries, want <= 5", count)
	}
}

func TestInitCacheRetiresPreviousCleanup(t *testing.T) {
	InitCache("", time.Minute, 10, time.Minute)
	old := metaCache

	InitCache("", time.Minute, 10, time.Minute)

	select {
	case <-old.stop:
	default:
		t.Error("previous cleanup goroutine was not signalled to stop")
	}
}

func TestCacheUninitializedSafe(t *testing.T) {
	old := metaCache
	t.Cleanup(func() { metaCache = old })
	metaCache = nil

	ctx := context.Background()
	CacheSet(ctx, "k", Result{})
	if _, ok := CacheGet(ctx, "k"); ok {
		t.Error("nil cache must always miss")
	}
}
