// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"folio/internal/models"
)

// Source reads a vertical's collections, typically from JSON files.
type Source interface {
	Items(ctx context.Context, v models.Vertical) ([]models.ContentItem, error)
	Categories(ctx context.Context, v models.Vertical) ([]models.Category, error)
}

// Sink replaces a vertical's collections, typically in the SQL store.
type Sink interface {
	ReplaceItems(ctx context.Context, v models.Vertical, items []models.ContentItem) error
	ReplaceCategories(ctx context.Context, v models.Vertical, cats []models.Category) error
}

// CopyResult counts what Copy wrote for one vertical.
type CopyResult struct {
	Vertical   string
	Items      int
	Categories int
}

// Copy replaces the contents of each vertical in dst with what src returns.
// A vertical whose source cannot be read is reported as an error; nothing
// is written for it.
func Copy(ctx context.Context, verticals []models.Vertical, src Source, dst Sink) ([]CopyResult, error) {
	results := make([]CopyResult, 0, len(verticals))
	for _, v := range verticals {
		items, err := src.Items(ctx, v)
		if err != nil {
			return results, fmt.Errorf("copy %s items: %w", v.Name, err)
		}
		cats, err := src.Categories(ctx, v)
		if err != nil {
			return results, fmt.Errorf("copy %s categories: %w", v.Name, err)
		}

		if err := dst.ReplaceItems(ctx, v, items); err != nil {
			return results, fmt.Errorf("copy %s items: %w", v.Name, err)
		}
		if err := dst.ReplaceCategories(ctx, v, cats); err != nil {
			return results, fmt.Errorf("copy %s categories: %w", v.Name, err)
		}

		results = append(results, CopyResult{Vertical: v.Name, Items: len(items), Categories: len(cats)})
	}
	return results, nil
}

// Seed populates an empty database from src in development. Verticals whose
// source files are missing are skipped with a warning. It is a no-op if any
// content row already exists. The returned results cover the verticals
// that were copied.
func Seed(ctx context.Context, db *sql.DB, verticals []models.Vertical, src Source, dst Sink) ([]CopyResult, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM content_items").Scan(&count); err != nil {
		return nil, fmt.Errorf("seed check content: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil, nil
	}

	var seeded []CopyResult
	for _, v := range verticals {
		results, err := Copy(ctx, []models.Vertical{v}, src, dst)
		if err != nil {
			slog.Warn("seed skipped vertical", "vertical", v.Name, "error", err)
			continue
		}
		for _, r := range results {
			slog.Info("database seeded", "vertical", r.Vertical, "items", r.Items, "categories", r.Categories)
		}
		seeded = append(seeded, results...)
	}
	return seeded, nil
}
