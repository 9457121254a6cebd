// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"folio/internal/models"
)

// categoriesFile is the registry file name inside each vertical directory.
const categoriesFile = "categories.json"

// JSONStore reads collections from <dir>/<vertical>/<vertical>.json and
// <dir>/<vertical>/categories.json. Files are read on every call so that
// edits show up without a restart.
type JSONStore struct {
	dir string
}

var _ ReadWriter = (*JSONStore)(nil)

// NewJSONStore returns a JSONStore rooted at dir.
func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

// Dir returns the root data directory.
func (s *JSONStore) Dir() string {
	return s.dir
}

// ItemsPath returns the path of a vertical's item file.
func (s *JSONStore) ItemsPath(v models.Vertical) string {
	return filepath.Join(s.dir, v.Name, v.Name+".json")
}

// CategoriesPath returns the path of a vertical's category registry.
func (s *JSONStore) CategoriesPath(v models.Vertical) string {
	return filepath.Join(s.dir, v.Name, categoriesFile)
}

// Items decodes the vertical's item file. The file may hold a bare array or
// an object keyed by the vertical's items key, "items" or "posts".
func (s *JSONStore) Items(_ context.Context, v models.Vertical) ([]models.ContentItem, error) {
	path := s.ItemsPath(v)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}

	items, err := decodeCollection[models.ContentItem](raw, itemKeys(v)...)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}

// Categories decodes the vertical's registry, either {"categories": [...]}
// or a bare array.
func (s *JSONStore) Categories(_ context.Context, v models.Vertical) ([]models.Category, error) {
	path := s.CategoriesPath(v)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}

	cats, err := decodeCollection[models.Category](raw, "categories")
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return cats, nil
}

// ReplaceItems rewrites the item file as {"<items key>": [...]}.
func (s *JSONStore) ReplaceItems(_ context.Context, v models.Vertical, items []models.ContentItem) error {
	if items == nil {
		items = []models.ContentItem{}
	}
	return writeJSONAtomic(s.ItemsPath(v), map[string]any{itemKeys(v)[0]: items})
}

// ReplaceCategories rewrites the registry as {"categories": [...]}.
func (s *JSONStore) ReplaceCategories(_ context.Context, v models.Vertical, cats []models.Category) error {
	if cats == nil {
		cats = []models.Category{}
	}
	return writeJSONAtomic(s.CategoriesPath(v), map[string]any{"categories": cats})
}

// EditCategories rewrites the registry in place. edit receives the decoded
// entries and returns, for each one, whether to keep it; it may change Slug,
// which is the only field written back. Entries are otherwise copied
// verbatim, so fields Category does not model and other top-level keys
// survive, and the file keeps its object or bare-array shape. Nothing is
// written when every entry is kept unchanged.
func (s *JSONStore) EditCategories(_ context.Context, v models.Vertical, edit func(cats []models.Category) []bool) error {
	path := s.CategoriesPath(v)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read categories: %w", err)
	}
	data = bytes.TrimSpace(data)

	var (
		top     map[string]json.RawMessage
		entries []json.RawMessage
	)
	if len(data) > 0 && data[0] == '{' {
		if err := json.Unmarshal(data, &top); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		field, ok := top["categories"]
		if !ok {
			return fmt.Errorf("decode %s: expected categories: %w", path, ErrNoCollection)
		}
		if err := json.Unmarshal(field, &entries); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	} else if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	cats := make([]models.Category, len(entries))
	for i, e := range entries {
		if err := json.Unmarshal(e, &cats[i]); err != nil {
			return fmt.Errorf("decode %s entry %d: %w", path, i, err)
		}
	}
	slugs := make([]string, len(cats))
	for i, c := range cats {
		slugs[i] = c.Slug
	}

	keep := edit(cats)
	if len(keep) != len(entries) {
		return fmt.Errorf("edit %s: got %d decisions for %d entries", path, len(keep), len(entries))
	}

	changed := false
	out := make([]json.RawMessage, 0, len(entries))
	for i, e := range entries {
		if !keep[i] {
			changed = true
			continue
		}
		if cats[i].Slug != slugs[i] {
			changed = true
			if e, err = withSlug(e, cats[i].Slug); err != nil {
				return fmt.Errorf("edit %s entry %d: %w", path, i, err)
			}
		}
		out = append(out, e)
	}
	if !changed {
		return nil
	}

	if top == nil {
		return writeJSONAtomic(path, out)
	}
	field, err := marshal(out)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	top["categories"] = field
	return writeJSONAtomic(path, top)
}

// withSlug sets the slug key of a raw registry entry.
func withSlug(entry json.RawMessage, value string) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	encoded, err := marshal(value)
	if err != nil {
		return nil, err
	}
	fields["slug"] = encoded
	return marshal(fields)
}

// marshal encodes v compactly without HTML escaping, so "&" in a title stays
// readable in hand-edited files.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// itemKeys lists the object keys that may hold a vertical's items, in
// lookup order.
func itemKeys(v models.Vertical) []string {
	key := v.ItemsKey
	if key == "" {
		key = v.Name
	}
	return []string{key, "items", "posts"}
}

// decodeCollection accepts either a bare JSON array or an object holding
// the array under the first present key.
func decodeCollection[T any](raw []byte, keys ...string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty file: %w", ErrNoCollection)
	}

	var out []T
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
		return nonNil(out), nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	for _, k := range keys {
		field, ok := obj[k]
		if !ok {
			continue
		}
		if err := json.Unmarshal(field, &out); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		return nonNil(out), nil
	}
	return nil, fmt.Errorf("expected one of %v: %w", keys, ErrNoCollection)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// writeJSONAtomic writes v as indented JSON to a temp file next to path and
// renames it into place, so readers never observe a partial file.
func writeJSONAtomic(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	data := buf.Bytes()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
