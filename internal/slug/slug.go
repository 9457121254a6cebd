// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns titles into URL identifiers.
//
// Two variants exist. Generate produces the canonical slug written into
// category registries by the maintenance commands. Slugify is the looser
// transform used when matching free-text item categories against registry
// slugs: it only lowercases and hyphenates whitespace, so punctuation
// survives and "C++ Tricks" becomes "c++-tricks".
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// whitespaceRun matches one or more whitespace characters, including
	// vertical tab, no-break and other Unicode spaces, and the BOM.
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{feff}]+`)
)

// Generate creates a canonical URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Slugify lowercases s and replaces every run of whitespace with a single
// hyphen. Nothing is trimmed or stripped, so leading whitespace yields a
// leading hyphen.
// Example: "Computer  Science" → "computer-science"
func Slugify(s string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(s), "-")
}
