// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"strings"

	"folio/internal/models"
)

// DisplayDateLayout is the format dates are shown in, e.g. "March 01, 2024".
const DisplayDateLayout = "January 02, 2006"

// EmptyMessage is shown in the placeholder row of an empty table.
const EmptyMessage = "No results."

// Row is one clickable table row.
type Row struct {
	Title   string
	Preview string
	Date    string
	URL     string
}

// Table is a list of rows plus the text shown when there are none.
type Table struct {
	Rows  []Row
	Empty string
}

// CategoryRows builds the listing table for reconciled categories. Row order
// follows cats.
func CategoryRows(v models.Vertical, cats []models.Category) Table {
	rows := make([]Row, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, Row{
			Title:   c.Title,
			Preview: c.Preview,
			Date:    FormatDate(c.Date),
			URL:     v.CategoryURL(c.Slug),
		})
	}
	return Table{Rows: rows, Empty: EmptyMessage}
}

// ItemRows builds the table of a category's items. categorySlug is only used
// in nested verticals, where item URLs sit under the category.
func ItemRows(v models.Vertical, categorySlug string, items []models.ContentItem) Table {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, Row{
			Title:   it.Title,
			Preview: it.Preview,
			Date:    FormatDate(it.EffectiveDate()),
			URL:     v.ItemURL(categorySlug, it.Slug),
		})
	}
	return Table{Rows: rows, Empty: EmptyMessage}
}

// FormatDate renders an ISO date as DisplayDateLayout. Dates that do not
// parse are returned unchanged; empty stays empty.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t, ok := models.ParseDate(s)
	if !ok {
		return s
	}
	return t.Format(DisplayDateLayout)
}
