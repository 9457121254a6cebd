// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"folio/internal/database"
	"folio/internal/models"
)

// SQLStore keeps collections in the content_items and categories tables.
// Rows are returned in the order they were written (the position column),
// which preserves registry order the same way the JSON files do.
type SQLStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ReadWriter = (*SQLStore)(nil)

// NewSQLStore creates a SQLStore. The dialect selects the placeholder style.
func NewSQLStore(db *sql.DB, dialect database.Dialect) *SQLStore {
	var format sq.PlaceholderFormat = sq.Dollar
	if dialect == database.SQLite {
		format = sq.Question
	}
	return &SQLStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(format),
	}
}

// DB returns the underlying connection pool.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Items returns every row for the vertical, hidden ones included.
func (s *SQLStore) Items(ctx context.Context, v models.Vertical) ([]models.ContentItem, error) {
	query, args, err := s.builder.
		Select("slug", "title", "category", "state", "start_date", "end_date",
			"preview", "status", "confidence", "importance", "body").
		From("content_items").
		Where(sq.Eq{"vertical": v.Name}).
		OrderBy("position", "slug").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []models.ContentItem{}
	for rows.Next() {
		var (
			it         models.ContentItem
			state      string
			importance float64
		)
		if err := rows.Scan(
			&it.Slug, &it.Title, &it.Category, &state, &it.StartDate, &it.EndDate,
			&it.Preview, &it.Status, &it.Confidence, &importance, &it.Body,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.State = models.ItemState(state)
		it.Importance = models.Importance(importance)
		items = append(items, it)
	}
	return items, rows.Err()
}

// Categories returns the vertical's registry in stored order.
func (s *SQLStore) Categories(ctx context.Context, v models.Vertical) ([]models.Category, error) {
	query, args, err := s.builder.
		Select("slug", "title", "preview", "date", "status", "confidence", "importance").
		From("categories").
		Where(sq.Eq{"vertical": v.Name}).
		OrderBy("position", "slug").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build categories query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	cats := []models.Category{}
	for rows.Next() {
		var (
			c          models.Category
			importance float64
		)
		if err := rows.Scan(&c.Slug, &c.Title, &c.Preview, &c.Date, &c.Status, &c.Confidence, &importance); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Importance = models.Importance(importance)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// ReplaceItems deletes the vertical's rows and inserts items in one
// transaction.
func (s *SQLStore) ReplaceItems(ctx context.Context, v models.Vertical, items []models.ContentItem) error {
	return s.replace(ctx, "content_items", v, len(items), func(i int) sq.InsertBuilder {
		it := items[i]
		return s.builder.Insert("content_items").
			Columns("vertical", "slug", "title", "category", "state", "start_date", "end_date",
				"preview", "status", "confidence", "importance", "body", "position").
			Values(v.Name, it.Slug, it.Title, it.Category, string(it.State), it.StartDate, it.EndDate,
				it.Preview, it.Status, it.Confidence, float64(it.Importance), it.Body, i)
	})
}

// ReplaceCategories deletes the vertical's registry and inserts cats in one
// transaction.
func (s *SQLStore) ReplaceCategories(ctx context.Context, v models.Vertical, cats []models.Category) error {
	return s.replace(ctx, "categories", v, len(cats), func(i int) sq.InsertBuilder {
		c := cats[i]
		return s.builder.Insert("categories").
			Columns("vertical", "slug", "title", "preview", "date", "status", "confidence", "importance", "position").
			Values(v.Name, c.Slug, c.Title, c.Preview, c.Date, c.Status, c.Confidence, float64(c.Importance), i)
	})
}

func (s *SQLStore) replace(ctx context.Context, table string, v models.Vertical, n int, insert func(i int) sq.InsertBuilder) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace %s: %w", table, err)
	}
	defer tx.Rollback()

	del, args, err := s.builder.Delete(table).Where(sq.Eq{"vertical": v.Name}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	for i := 0; i < n; i++ {
		query, args, err := insert(i).ToSql()
		if err != nil {
			return fmt.Errorf("build insert %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace %s: %w", table, err)
	}
	return nil
}
