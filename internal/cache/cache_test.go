// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"

	"folio/internal/models"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		deletePattern(ctx, client, pageKeyPrefix+"*")
		deletePattern(ctx, client, listingKeyPrefix+"*")
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	if _, err := ConnectValkey("127.0.0.1", "1", ""); err == nil {
		t.Error("expected error for unreachable Valkey")
	}
}

func TestNilCachesAreNoOps(t *testing.T) {
	ctx := context.Background()

	var pc *PageCache
	pc.Set(ctx, "blog:/blog", []byte("x"))
	if _, ok := pc.Get(ctx, "blog:/blog"); ok {
		t.Error("nil PageCache should always miss")
	}
	pc.InvalidateVertical(ctx, "blog")
	pc.InvalidateAll(ctx)

	var lc *ListingCache
	lc.SetCategories(ctx, "blog", []models.Category{{Slug: "a"}})
	if _, ok := lc.Categories(ctx, "blog"); ok {
		t.Error("nil ListingCache should always miss")
	}
	lc.InvalidateVertical(ctx, "blog")
}

func TestPageCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()

	// Miss.
	data, ok := pc.Get(ctx, "blog:/blog")
	if ok {
		t.Error("expected cache miss")
	}
	if data != nil {
		t.Error("expected nil data on miss")
	}

	html := []byte("<html><body>Blog</body></html>")
	pc.Set(ctx, "blog:/blog", html)

	data, ok = pc.Get(ctx, "blog:/blog")
	if !ok {
		t.Error("expected cache hit")
	}
	if string(data) != string(html) {
		t.Errorf("data mismatch: got %q, want %q", data, html)
	}
}

func TestPageCacheInvalidateVertical(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()

	pc.Set(ctx, PageKey("blog", "/blog"), []byte("a"))
	pc.Set(ctx, PageKey("blog", "/blog/category/travel"), []byte("b"))
	pc.Set(ctx, PageKey("notes", "/notes"), []byte("c"))

	pc.InvalidateVertical(ctx, "blog")

	for _, key := range []string{PageKey("blog", "/blog"), PageKey("blog", "/blog/category/travel")} {
		if _, ok := pc.Get(ctx, key); ok {
			t.Errorf("expected miss for %q after InvalidateVertical", key)
		}
	}
	if _, ok := pc.Get(ctx, PageKey("notes", "/notes")); !ok {
		t.Error("other verticals should stay cached")
	}
}

func TestPageCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()

	pc.Set(ctx, "page-a", []byte("a"))
	pc.Set(ctx, "page-b", []byte("b"))
	pc.Set(ctx, "page-c", []byte("c"))

	pc.InvalidateAll(ctx)

	for _, key := range []string{"page-a", "page-b", "page-c"} {
		if _, ok := pc.Get(ctx, key); ok {
			t.Errorf("expected miss for %q after InvalidateAll", key)
		}
	}
}

func TestListingCacheRoundTrip(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListingCache(client, 1*time.Minute)

	ctx := context.Background()
	want := []models.Category{
		{Slug: "travel", Title: "Travel", Importance: 5},
		{Slug: "food", Title: "Food", Date: "2023-01-01"},
	}

	if _, ok := lc.Categories(ctx, "blog"); ok {
		t.Fatal("expected miss before set")
	}
	lc.SetCategories(ctx, "blog", want)

	got, ok := lc.Categories(ctx, "blog")
	if !ok {
		t.Fatal("expected hit after set")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}

	lc.InvalidateVertical(ctx, "blog")
	if _, ok := lc.Categories(ctx, "blog"); ok {
		t.Error("expected miss after invalidation")
	}
}

func TestListingCacheEmptyList(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListingCache(client, 1*time.Minute)

	ctx := context.Background()
	lc.SetCategories(ctx, "blog", []models.Category{})

	got, ok := lc.Categories(ctx, "blog")
	if !ok {
		t.Fatal("an empty listing is a valid cached value")
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestKeys(t *testing.T) {
	if got := ListingKey("blog"); got != "listing:blog:reconciled" {
		t.Errorf("ListingKey: got %q", got)
	}
	if got := PageKey("blog", "/blog?q=x"); got != "blog:/blog?q=x" {
		t.Errorf("PageKey: got %q", got)
	}
}

func TestNewPageCacheDefaultTTL(t *testing.T) {
	pc := NewPageCache(nil, 0)
	if pc.ttl != DefaultPageTTL {
		t.Errorf("expected DefaultPageTTL (%v), got %v", DefaultPageTTL, pc.ttl)
	}
	lc := NewListingCache(nil, 0)
	if lc.ttl != DefaultPageTTL {
		t.Errorf("expected DefaultPageTTL (%v), got %v", DefaultPageTTL, lc.ttl)
	}
}
