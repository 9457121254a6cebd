// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "net/url"

// Layout determines how a vertical's category and item URLs are built.
type Layout string

const (
	// LayoutFlat serves items at /{vertical}/{slug} and categories at
	// /{vertical}/category/{slug}.
	LayoutFlat Layout = "flat"
	// LayoutNested serves categories at /{vertical}/{categorySlug} and items
	// beneath them at /{vertical}/{categorySlug}/{slug}.
	LayoutNested Layout = "nested"
)

// Vertical is one content grouping (blog, essays, notes, ...) with its own
// data files and routes.
type Vertical struct {
	Name        string `json:"name" yaml:"name"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description"`
	ItemsKey    string `json:"items_key,omitempty" yaml:"items_key"`
	Layout      Layout `json:"layout" yaml:"layout"`
}

// IsNested reports whether items live under their category's path.
func (v Vertical) IsNested() bool {
	return v.Layout == LayoutNested
}

// ListingURL returns the path of the vertical's category listing.
func (v Vertical) ListingURL() string {
	return "/" + v.Name + "/categories"
}

// CategoryURL returns the path of a category detail page.
func (v Vertical) CategoryURL(categorySlug string) string {
	if v.IsNested() {
		return "/" + v.Name + "/" + url.PathEscape(categorySlug)
	}
	return "/" + v.Name + "/category/" + url.PathEscape(categorySlug)
}

// ItemURL returns the path of an item detail page. categorySlug is ignored
// for flat verticals.
func (v Vertical) ItemURL(categorySlug, itemSlug string) string {
	if v.IsNested() {
		return "/" + v.Name + "/" + url.PathEscape(categorySlug) + "/" + url.PathEscape(itemSlug)
	}
	return "/" + v.Name + "/" + url.PathEscape(itemSlug)
}
