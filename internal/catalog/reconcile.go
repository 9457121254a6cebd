// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog narrows a vertical's curated category registry down to the
// categories its active content actually uses, orders them, and filters them
// by search text. Every function is pure: inputs are never modified.
package catalog

import (
	"folio/internal/models"
	"folio/internal/slug"
)

// UsedCategories returns the distinct category strings of all active items.
func UsedCategories(items []models.ContentItem) map[string]struct{} {
	used := make(map[string]struct{})
	for i := range items {
		if !items[i].IsActive() {
			continue
		}
		used[items[i].Category] = struct{}{}
	}
	return used
}

// Matches reports whether a free-text item category refers to the descriptor.
// The first two rules are case-sensitive; only the slugified comparison
// ignores case.
func Matches(category string, d models.Category) bool {
	return category == d.Title ||
		category == d.Slug ||
		slug.Slugify(category) == d.Slug
}

// usage indexes the category strings of active items for matching.
type usage struct {
	raw     map[string]struct{}
	slugged map[string]struct{}
}

func newUsage(items []models.ContentItem) usage {
	u := usage{raw: UsedCategories(items)}
	u.slugged = make(map[string]struct{}, len(u.raw))
	for c := range u.raw {
		u.slugged[slug.Slugify(c)] = struct{}{}
	}
	return u
}

// references applies the three-way match of Matches against every used
// category at once.
func (u usage) references(d models.Category) bool {
	if _, ok := u.raw[d.Title]; ok {
		return true
	}
	if _, ok := u.raw[d.Slug]; ok {
		return true
	}
	_, ok := u.slugged[d.Slug]
	return ok
}

// Reconcile returns the descriptors referenced by at least one active item,
// in registry order. The result never contains a descriptor that is not in
// cats.
func Reconcile(items []models.ContentItem, cats []models.Category) []models.Category {
	u := newUsage(items)
	result := make([]models.Category, 0, len(cats))
	if len(u.raw) == 0 {
		return result
	}
	for _, d := range cats {
		if u.references(d) {
			result = append(result, d)
		}
	}
	return result
}

// Unused returns the descriptors no active item refers to, in registry order.
// Reconcile and Unused partition cats.
func Unused(items []models.ContentItem, cats []models.Category) []models.Category {
	u := newUsage(items)
	result := make([]models.Category, 0)
	for _, d := range cats {
		if !u.references(d) {
			result = append(result, d)
		}
	}
	return result
}

// Referenced reports, for each descriptor in cats, whether an active item
// refers to it.
func Referenced(items []models.ContentItem, cats []models.Category) []bool {
	u := newUsage(items)
	out := make([]bool, len(cats))
	for i, d := range cats {
		out[i] = u.references(d)
	}
	return out
}

// FindCategory returns the first descriptor with the given slug, or nil.
func FindCategory(cats []models.Category, categorySlug string) *models.Category {
	for i := range cats {
		if cats[i].Slug == categorySlug {
			c := cats[i]
			return &c
		}
	}
	return nil
}

// ItemsInCategory returns the active items whose category matches d,
// ordered by effective date, newest first. Items with equal or unparseable
// dates keep their incoming order.
func ItemsInCategory(items []models.ContentItem, d models.Category) []models.ContentItem {
	result := make([]models.ContentItem, 0)
	for _, it := range items {
		if it.IsActive() && Matches(it.Category, d) {
			result = append(result, it)
		}
	}
	return SortByDate(result)
}

// FindItem returns the active item with the given slug, or nil. Hidden
// items are never returned.
func FindItem(items []models.ContentItem, itemSlug string) *models.ContentItem {
	for i := range items {
		if items[i].Slug == itemSlug && items[i].IsActive() {
			it := items[i]
			return &it
		}
	}
	return nil
}
