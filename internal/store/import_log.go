// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// import_log.go records each copy of a vertical from the data directory into
// the database, so operators can see when the SQL content was last refreshed.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"folio/internal/database"
)

// importTimeLayout is fixed width so imported_at sorts lexically.
const importTimeLayout = "2006-01-02T15:04:05.000000000Z"

// ImportLogStore handles import log operations.
type ImportLogStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	now     func() time.Time
}

// NewImportLogStore creates a new ImportLogStore.
func NewImportLogStore(db *sql.DB, dialect database.Dialect) *ImportLogStore {
	var format sq.PlaceholderFormat = sq.Dollar
	if dialect == database.SQLite {
		format = sq.Question
	}
	return &ImportLogStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(format),
		now:     time.Now,
	}
}

// Log records a finished import. Failures are logged and swallowed because
// the import itself already succeeded.
func (s *ImportLogStore) Log(ctx context.Context, source string, r database.CopyResult) {
	id := uuid.New()
	query, args, err := s.builder.Insert("import_log").
		Columns("id", "vertical", "source", "items", "categories", "imported_at").
		Values(id.String(), r.Vertical, source, r.Items, r.Categories, s.now().UTC().Format(importTimeLayout)).
		ToSql()
	if err == nil {
		_, err = s.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		slog.Warn("failed to log import",
			"vertical", r.Vertical,
			"source", source,
			"error", err,
		)
		return
	}
	slog.Debug("import logged", "id", id, "vertical", r.Vertical)
}

// Recent returns the most recent imports, newest first, limited to limit
// entries.
func (s *ImportLogStore) Recent(ctx context.Context, limit int) ([]ImportEntry, error) {
	query, args, err := s.builder.
		Select("id", "vertical", "source", "items", "categories", "imported_at").
		From("import_log").
		OrderBy("imported_at DESC").
		Limit(uint64(max(limit, 0))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build import log query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query import log: %w", err)
	}
	defer rows.Close()

	var entries []ImportEntry
	for rows.Next() {
		var (
			e        ImportEntry
			id, when string
		)
		if err := rows.Scan(&id, &e.Vertical, &e.Source, &e.Items, &e.Categories, &when); err != nil {
			return nil, fmt.Errorf("scan import log: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse import id %q: %w", id, err)
		}
		if e.ImportedAt, err = time.Parse(importTimeLayout, when); err != nil {
			return nil, fmt.Errorf("parse import time %q: %w", when, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ImportEntry is a single recorded import.
type ImportEntry struct {
	ID         uuid.UUID
	Vertical   string
	Source     string
	Items      int
	Categories int
	ImportedAt time.Time
}
