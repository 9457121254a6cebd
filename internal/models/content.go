// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the content types shared by the stores, the
// catalog functions and the HTTP handlers.
package models

import (
	"strings"
	"time"
)

// ItemState controls whether a content item is visible anywhere on the site.
type ItemState string

const (
	ItemStateActive ItemState = "active"
	ItemStateHidden ItemState = "hidden"
)

// ContentItem is a single post, essay, note or paper within a vertical.
// Items are written out of band (JSON files or database rows) and are
// read-only while the server runs.
type ContentItem struct {
	Slug       string     `json:"slug"`
	Title      string     `json:"title"`
	Category   string     `json:"category"`
	State      ItemState  `json:"state,omitempty"`
	StartDate  string     `json:"start_date,omitempty"`
	EndDate    string     `json:"end_date,omitempty"`
	Preview    string     `json:"preview,omitempty"`
	Status     string     `json:"status,omitempty"`
	Confidence string     `json:"confidence,omitempty"`
	Importance Importance `json:"importance,omitempty"`
	Body       string     `json:"body,omitempty"`
}

// IsActive reports whether the item counts as published. Verticals whose
// data carries no state field treat every item as active.
func (c *ContentItem) IsActive() bool {
	return c.State == "" || c.State == ItemStateActive
}

// EffectiveDate returns the end date when present, otherwise the start date.
func (c *ContentItem) EffectiveDate() string {
	if end := strings.TrimSpace(c.EndDate); end != "" {
		return end
	}
	return strings.TrimSpace(c.StartDate)
}

// dateLayouts lists the date formats found in content files, most specific last.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01",
}

// ParseDate parses an ISO-style date string. The zero time and false are
// returned when the string is empty or in an unknown format.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
