// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category is a curated category descriptor from a vertical's registry.
// Descriptors are matched to content items by loose textual comparison at
// read time; there is no foreign key between the two.
type Category struct {
	Slug       string     `json:"slug"`
	Title      string     `json:"title"`
	Preview    string     `json:"preview,omitempty"`
	Date       string     `json:"date,omitempty"`
	Status     string     `json:"status,omitempty"`
	Confidence string     `json:"confidence,omitempty"`
	Importance Importance `json:"importance"`
}
