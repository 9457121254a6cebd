// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/models"
	"folio/internal/store"
)

// app is the state shared by every subcommand, filled in before any of them
// runs.
type app struct {
	cfg       *config.Config
	verticals []models.Vertical
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "folio",
		Short: "Personal content site with reconciled category listings",
		Long: `folio serves a personal site split into verticals (blog, notes, essays...).
Each vertical lists the categories its published items actually use, sorted
by importance, with per-category and per-item pages and a JSON API.

Configuration comes from the environment (APP_PORT, DATA_DIR, CONTENT_BACKEND,
VALKEY_HOST, ...). Vertical definitions are read from VERTICALS_FILE when set.

Examples:
  # Serve from the JSON files in ./data
  folio serve

  # Copy the JSON files into SQLite and serve from there
  CONTENT_BACKEND=sqlite folio import
  CONTENT_BACKEND=sqlite folio serve

  # Show categories no published item refers to
  folio categories unused blog`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newMigrateCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newCategoriesCmd(a))

	return root
}

// load reads configuration and vertical definitions and installs the
// default logger.
func (a *app) load(logOut io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	verticals, err := config.LoadVerticals(cfg.VerticalsFile)
	if err != nil {
		return fmt.Errorf("load verticals: %w", err)
	}

	a.cfg = cfg
	a.verticals = verticals
	slog.SetDefault(newLogger(logOut, cfg))
	return nil
}

// newLogger outputs text in development and JSON everywhere else.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsDev() {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// vertical looks up a configured vertical by name.
func (a *app) vertical(name string) (models.Vertical, error) {
	for _, v := range a.verticals {
		if v.Name == name {
			return v, nil
		}
	}
	return models.Vertical{}, fmt.Errorf("%w: %q", store.ErrUnknownVertical, name)
}

// selectVerticals resolves names, or returns every vertical when names is
// empty.
func (a *app) selectVerticals(names []string) ([]models.Vertical, error) {
	if len(names) == 0 {
		return a.verticals, nil
	}
	out := make([]models.Vertical, 0, len(names))
	for _, name := range names {
		v, err := a.vertical(name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (a *app) dialect() database.Dialect {
	if a.cfg.Backend == config.BackendSQLite {
		return database.SQLite
	}
	return database.Postgres
}

var errNoSQLBackend = errors.New("CONTENT_BACKEND must be postgres or sqlite")

// openDB connects to the configured SQL backend and applies migrations.
func (a *app) openDB() (*sql.DB, error) {
	if !a.cfg.UsesSQL() {
		return nil, errNoSQLBackend
	}

	dsn := a.cfg.DSN()
	if a.cfg.Backend == config.BackendSQLite {
		dsn = a.cfg.SQLiteDSN()
	}
	db, err := database.Connect(a.dialect(), dsn)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, a.dialect()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// openReader returns the content reader for the configured backend. The
// returned close function is never nil.
func (a *app) openReader() (store.Reader, func(), error) {
	if !a.cfg.UsesSQL() {
		return store.NewJSONStore(a.cfg.DataDir), func() {}, nil
	}
	db, err := a.openDB()
	if err != nil {
		return nil, nil, err
	}
	return store.NewSQLStore(db, a.dialect()), func() { db.Close() }, nil
}
