// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store reads and writes the per-vertical content and category
// collections. JSONStore works on the data directory that is edited by
// hand; SQLStore keeps the same collections in PostgreSQL or SQLite.
package store

import (
	"context"
	"errors"

	"folio/internal/models"
)

// ErrNoCollection is returned when a data file exists but holds no
// recognisable collection.
var ErrNoCollection = errors.New("no collection found")

// Reader returns a vertical's full, unfiltered collections. Callers filter
// by state and decide how to treat errors.
type Reader interface {
	Items(ctx context.Context, v models.Vertical) ([]models.ContentItem, error)
	Categories(ctx context.Context, v models.Vertical) ([]models.Category, error)
}

// Writer replaces a vertical's collections wholesale. It is only used by
// the offline maintenance commands.
type Writer interface {
	ReplaceItems(ctx context.Context, v models.Vertical, items []models.ContentItem) error
	ReplaceCategories(ctx context.Context, v models.Vertical, cats []models.Category) error
}

// ReadWriter is a store that supports both directions.
type ReadWriter interface {
	Reader
	Writer
}

// ErrUnknownVertical is returned when a request names a vertical that is
// not configured.
var ErrUnknownVertical = errors.New("unknown vertical")
