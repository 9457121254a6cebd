// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"folio/internal/models"
)

// verticalName restricts vertical names to safe URL segments and directory names.
var verticalName = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// reservedNames cannot be used as verticals because they collide with
// top-level routes.
var reservedNames = map[string]bool{
	"api":    true,
	"static": true,
	"health": true,
}

// verticalsFile is the YAML document shape of VERTICALS_FILE.
type verticalsFile struct {
	Verticals []models.Vertical `yaml:"verticals"`
}

// DefaultVerticals returns the built-in vertical set used when no
// VERTICALS_FILE is configured.
func DefaultVerticals() []models.Vertical {
	return []models.Vertical{
		{Name: "blog", Title: "Blog", Description: "Posts and updates.", Layout: models.LayoutFlat},
		{Name: "essays", Title: "Essays", Description: "Longer arguments.", Layout: models.LayoutFlat},
		{Name: "notes", Title: "Notes", Description: "Working notes by topic.", Layout: models.LayoutNested},
		{Name: "papers", Title: "Papers", Description: "Reading notes on papers.", Layout: models.LayoutNested},
		{Name: "lectures", Title: "Lectures", Description: "Lecture notes.", Layout: models.LayoutNested},
		{Name: "reviews", Title: "Reviews", Description: "Books, films and things.", Layout: models.LayoutFlat},
		{Name: "news", Title: "News", Description: "Short news items.", Layout: models.LayoutFlat},
		{Name: "research", Title: "Research", Description: "Ongoing research.", Layout: models.LayoutNested},
	}
}

// LoadVerticals reads vertical definitions from a YAML file. An empty path
// returns DefaultVerticals. Missing titles, items keys and layouts are
// filled with defaults.
func LoadVerticals(path string) ([]models.Vertical, error) {
	if path == "" {
		return normalizeVerticals(DefaultVerticals())
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read verticals file: %w", err)
	}

	var doc verticalsFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse verticals file %s: %w", path, err)
	}
	if len(doc.Verticals) == 0 {
		return nil, errors.New("verticals file defines no verticals")
	}

	return normalizeVerticals(doc.Verticals)
}

func normalizeVerticals(in []models.Vertical) ([]models.Vertical, error) {
	seen := make(map[string]bool, len(in))
	out := make([]models.Vertical, 0, len(in))

	for _, v := range in {
		if !verticalName.MatchString(v.Name) {
			return nil, fmt.Errorf("invalid vertical name %q", v.Name)
		}
		if reservedNames[v.Name] {
			return nil, fmt.Errorf("vertical name %q is reserved", v.Name)
		}
		if seen[v.Name] {
			return nil, fmt.Errorf("duplicate vertical %q", v.Name)
		}
		seen[v.Name] = true

		if v.Title == "" {
			v.Title = v.Name
		}
		if v.ItemsKey == "" {
			v.ItemsKey = v.Name
		}
		switch v.Layout {
		case "":
			v.Layout = models.LayoutFlat
		case models.LayoutFlat, models.LayoutNested:
		default:
			return nil, fmt.Errorf("vertical %q: unknown layout %q", v.Name, v.Layout)
		}
		out = append(out, v)
	}
	return out, nil
}
