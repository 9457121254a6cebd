// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package listing composes a content store with the catalog functions. It
// is the only place that decides how read failures surface: a collection
// that cannot be read is logged and treated as empty, so pages render a
// placeholder instead of an error. Such a degraded result is good for the
// current request only and is never cached.
package listing

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"folio/internal/cache"
	"folio/internal/catalog"
	"folio/internal/models"
	"folio/internal/store"
)

// Service answers the read queries behind every public page and API route.
type Service struct {
	reader    store.Reader
	verticals []models.Vertical
	byName    map[string]models.Vertical
	cache     *cache.ListingCache
}

// NewService creates a Service over the configured verticals. lc may be nil.
func NewService(reader store.Reader, verticals []models.Vertical, lc *cache.ListingCache) *Service {
	byName := make(map[string]models.Vertical, len(verticals))
	for _, v := range verticals {
		byName[v.Name] = v
	}
	return &Service{
		reader:    reader,
		verticals: verticals,
		byName:    byName,
		cache:     lc,
	}
}

type degradedKey struct{}

// Track returns a context that records whether any read made under it fell
// back to an empty collection. See Degraded.
func Track(ctx context.Context) context.Context {
	return context.WithValue(ctx, degradedKey{}, new(atomic.Bool))
}

// Degraded reports whether a read made under a Track context failed. Pages
// built from such reads must not be cached.
func Degraded(ctx context.Context) bool {
	flag, _ := ctx.Value(degradedKey{}).(*atomic.Bool)
	return flag != nil && flag.Load()
}

func markDegraded(ctx context.Context) {
	if flag, _ := ctx.Value(degradedKey{}).(*atomic.Bool); flag != nil {
		flag.Store(true)
	}
}

// Verticals returns the configured verticals in configuration order.
func (s *Service) Verticals() []models.Vertical {
	return s.verticals
}

// Vertical looks up a configured vertical by name.
func (s *Service) Vertical(name string) (models.Vertical, error) {
	v, ok := s.byName[name]
	if !ok {
		return models.Vertical{}, fmt.Errorf("vertical %q: %w", name, store.ErrUnknownVertical)
	}
	return v, nil
}

// Categories returns the vertical's reconciled listing: descriptors used by
// at least one active item, ordered by importance descending.
func (s *Service) Categories(ctx context.Context, v models.Vertical) []models.Category {
	if cats, ok := s.cache.Categories(ctx, v.Name); ok {
		return cats
	}

	items, cats, ok := s.load(ctx, v)
	listing := catalog.SortByImportance(catalog.Reconcile(items, cats))

	if ok {
		s.cache.SetCategories(ctx, v.Name, listing)
	}
	return listing
}

// AllCategories returns the full registry, used or not, in registry order.
func (s *Service) AllCategories(ctx context.Context, v models.Vertical) []models.Category {
	cats, _ := s.readCategories(ctx, v)
	return cats
}

func (s *Service) readCategories(ctx context.Context, v models.Vertical) ([]models.Category, bool) {
	cats, err := s.reader.Categories(ctx, v)
	if err != nil {
		slog.Warn("category registry unavailable", "vertical", v.Name, "error", err)
		markDegraded(ctx)
		return []models.Category{}, false
	}
	return cats, true
}

// Items returns every item of the vertical, hidden ones included.
func (s *Service) Items(ctx context.Context, v models.Vertical) []models.ContentItem {
	items, _ := s.readItems(ctx, v)
	return items
}

func (s *Service) readItems(ctx context.Context, v models.Vertical) ([]models.ContentItem, bool) {
	items, err := s.reader.Items(ctx, v)
	if err != nil {
		slog.Warn("content items unavailable", "vertical", v.Name, "error", err)
		markDegraded(ctx)
		return []models.ContentItem{}, false
	}
	return items, true
}

// ActiveItems returns the vertical's active items in stored order.
func (s *Service) ActiveItems(ctx context.Context, v models.Vertical) []models.ContentItem {
	return activeOnly(s.Items(ctx, v))
}

// Category looks up a descriptor in the full registry and returns it with
// its active items, newest first. The descriptor is nil when the slug is not
// registered; a registered category with no items returns an empty slice.
func (s *Service) Category(ctx context.Context, v models.Vertical, categorySlug string) (*models.Category, []models.ContentItem) {
	items, cats, _ := s.load(ctx, v)
	d := catalog.FindCategory(cats, categorySlug)
	if d == nil {
		return nil, nil
	}
	return d, catalog.ItemsInCategory(items, *d)
}

// CategoryItems returns the active items matching d, newest first.
func (s *Service) CategoryItems(ctx context.Context, v models.Vertical, d models.Category) []models.ContentItem {
	return catalog.ItemsInCategory(s.Items(ctx, v), d)
}

// Item returns the active item with the given slug, or nil.
func (s *Service) Item(ctx context.Context, v models.Vertical, itemSlug string) *models.ContentItem {
	return catalog.FindItem(s.Items(ctx, v), itemSlug)
}

// ItemInCategory returns the active item with the given slug when it also
// belongs to the registered category categorySlug. Nested verticals use it
// so every item has exactly one canonical URL.
func (s *Service) ItemInCategory(ctx context.Context, v models.Vertical, categorySlug, itemSlug string) (*models.Category, *models.ContentItem) {
	items, cats, _ := s.load(ctx, v)
	d := catalog.FindCategory(cats, categorySlug)
	if d == nil {
		return nil, nil
	}
	it := catalog.FindItem(items, itemSlug)
	if it == nil || !catalog.Matches(it.Category, *d) {
		return d, nil
	}
	return d, it
}

// load reads items and registry concurrently. Either collection degrades to
// empty on error; the two reads never fail each other. ok is false when
// either read degraded.
func (s *Service) load(ctx context.Context, v models.Vertical) (items []models.ContentItem, cats []models.Category, ok bool) {
	var itemsOK, catsOK bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, itemsOK = s.readItems(gctx, v)
		return nil
	})
	g.Go(func() error {
		cats, catsOK = s.readCategories(gctx, v)
		return nil
	})
	_ = g.Wait() // both goroutines always return nil

	return items, cats, itemsOK && catsOK
}

func activeOnly(items []models.ContentItem) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(items))
	for _, it := range items {
		if it.IsActive() {
			out = append(out, it)
		}
	}
	return out
}
