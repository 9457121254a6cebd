// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"slices"

	"folio/internal/models"
)

// SortByImportance returns a copy of cats ordered by importance, highest
// first. The sort is stable and has no secondary key, so equal importances
// keep their incoming relative order.
func SortByImportance(cats []models.Category) []models.Category {
	sorted := slices.Clone(cats)
	if sorted == nil {
		sorted = []models.Category{}
	}
	slices.SortStableFunc(sorted, func(a, b models.Category) int {
		switch {
		case a.Importance > b.Importance:
			return -1
		case a.Importance < b.Importance:
			return 1
		default:
			return 0
		}
	})
	return sorted
}

// SortByDate returns a copy of items ordered by effective date, newest first.
// Items without a parseable date sort after dated ones.
func SortByDate(items []models.ContentItem) []models.ContentItem {
	sorted := slices.Clone(items)
	if sorted == nil {
		sorted = []models.ContentItem{}
	}
	slices.SortStableFunc(sorted, func(a, b models.ContentItem) int {
		ta, okA := models.ParseDate(a.EffectiveDate())
		tb, okB := models.ParseDate(b.EffectiveDate())
		switch {
		case okA && !okB:
			return -1
		case !okA && okB:
			return 1
		case !okA && !okB:
			return 0
		}
		return tb.Compare(ta)
	})
	return sorted
}
