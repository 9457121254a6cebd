// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed full-page HTML cache.
// Rendered listing and detail pages are stored per vertical so a change to
// one vertical's data files only drops that vertical's pages.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages full-page HTML caching in Valkey. A nil *PageCache is
// valid and behaves as an always-empty cache.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get retrieves cached HTML for a page key. Returns false on miss.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for a page key with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, html []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, pageKeyPrefix+key, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidateVertical removes every cached page of one vertical.
func (pc *PageCache) InvalidateVertical(ctx context.Context, vertical string) {
	if pc == nil {
		return
	}
	deleted, err := deletePattern(ctx, pc.client, pageKeyPrefix+vertical+":*")
	if err != nil {
		slog.Warn("page cache invalidate vertical error", "vertical", vertical, "error", err)
	}
	slog.Debug("page cache vertical cleared", "vertical", vertical, "deleted", deleted)
}

// InvalidateAll removes all cached pages by scanning for the prefix. An
// import of every vertical uses it in place of per-vertical invalidation.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	if pc == nil {
		return
	}
	deleted, err := deletePattern(ctx, pc.client, pageKeyPrefix+"*")
	if err != nil {
		slog.Warn("page cache scan error", "error", err)
	}
	if deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
}

// PageKey returns the cache key for a request path within a vertical. The
// query string is part of the key because search results differ per query.
func PageKey(vertical, requestURI string) string {
	return vertical + ":" + requestURI
}
