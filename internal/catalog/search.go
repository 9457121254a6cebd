// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"folio/internal/models"
)

// Search returns the descriptors whose title, preview or status contains
// query, ignoring case. An empty query returns cats unchanged. The relative
// order of cats is preserved; nothing is re-sorted.
func Search(cats []models.Category, query string) []models.Category {
	if query == "" {
		return cats
	}

	// A Caser carries state and is not safe for concurrent use, so each
	// call gets its own.
	fold := cases.Fold()
	needle := fold.String(query)

	result := make([]models.Category, 0, len(cats))
	for _, d := range cats {
		if strings.Contains(fold.String(d.Title), needle) ||
			strings.Contains(fold.String(d.Preview), needle) ||
			strings.Contains(fold.String(d.Status), needle) {
			result = append(result, d)
		}
	}
	return result
}
