// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"folio/internal/models"
)

// listingKeyPrefix is the Valkey key prefix for cached listings.
const listingKeyPrefix = "listing:"

// ListingCache stores a vertical's reconciled, sorted category list as JSON
// so the reconcile step is skipped while the data is unchanged. A nil
// *ListingCache is valid and always misses.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache creates a listing cache backed by the given Valkey client.
func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &ListingCache{client: client, ttl: ttl}
}

// ListingKey returns the key holding a vertical's reconciled listing.
func ListingKey(vertical string) string {
	return listingKeyPrefix + vertical + ":reconciled"
}

// Categories returns the cached listing for a vertical.
func (lc *ListingCache) Categories(ctx context.Context, vertical string) ([]models.Category, bool) {
	if lc == nil {
		return nil, false
	}
	raw, err := lc.client.Get(ctx, ListingKey(vertical)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("listing cache get error", "vertical", vertical, "error", err)
		return nil, false
	}

	var cats []models.Category
	if err := json.Unmarshal(raw, &cats); err != nil {
		slog.Warn("listing cache decode error", "vertical", vertical, "error", err)
		return nil, false
	}
	if cats == nil {
		cats = []models.Category{}
	}
	return cats, true
}

// SetCategories stores a vertical's listing with the configured TTL.
func (lc *ListingCache) SetCategories(ctx context.Context, vertical string, cats []models.Category) {
	if lc == nil {
		return
	}
	raw, err := json.Marshal(cats)
	if err != nil {
		slog.Warn("listing cache encode error", "vertical", vertical, "error", err)
		return
	}
	if err := lc.client.Set(ctx, ListingKey(vertical), raw, lc.ttl).Err(); err != nil {
		slog.Warn("listing cache set error", "vertical", vertical, "error", err)
	}
}

// InvalidateVertical drops every listing entry of one vertical.
func (lc *ListingCache) InvalidateVertical(ctx context.Context, vertical string) {
	if lc == nil {
		return
	}
	if _, err := deletePattern(ctx, lc.client, listingKeyPrefix+vertical+":*"); err != nil {
		slog.Warn("listing cache invalidate error", "vertical", vertical, "error", err)
	}
}
