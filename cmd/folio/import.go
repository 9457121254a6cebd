// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"folio/internal/cache"
	"folio/internal/database"
	"folio/internal/store"
)

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [vertical...]",
		Short: "Copy JSON content into the SQL database",
		Long: `Replace each vertical's rows in the SQL database with the contents of its
JSON files in DATA_DIR. Without arguments every configured vertical is
imported. Each copy is recorded in the import log, and cached pages for the
imported verticals are dropped when Valkey is reachable.

Examples:
  CONTENT_BACKEND=sqlite folio import
  CONTENT_BACKEND=postgres folio import blog notes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}

	cmd.AddCommand(newImportHistoryCmd(a))
	return cmd
}

func (a *app) runImport(ctx context.Context, out io.Writer, names []string) error {
	verticals, err := a.selectVerticals(names)
	if err != nil {
		return err
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	dst := store.NewSQLStore(db, a.dialect())
	results, copyErr := database.Copy(ctx, verticals, store.NewJSONStore(a.cfg.DataDir), dst)

	log := store.NewImportLogStore(db, a.dialect())
	for _, r := range results {
		log.Log(ctx, a.cfg.DataDir, r)
	}
	a.invalidate(ctx, results, len(names) == 0)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERTICAL\tITEMS\tCATEGORIES")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", r.Vertical, r.Items, r.Categories)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return copyErr
}

// invalidate drops cached pages and listings for the imported verticals so
// a running server picks up the new rows. all clears every cached page at
// once. Valkey being down is not an error.
func (a *app) invalidate(ctx context.Context, results []database.CopyResult, all bool) {
	if !a.cfg.CacheEnabled || len(results) == 0 {
		return
	}
	client, err := cache.ConnectValkey(a.cfg.ValkeyHost, a.cfg.ValkeyPort, a.cfg.ValkeyPassword)
	if err != nil {
		slog.Debug("skipping cache invalidation", "error", err)
		return
	}
	defer client.Close()

	pages := cache.NewPageCache(client, a.cfg.CacheTTL)
	listings := cache.NewListingCache(client, a.cfg.CacheTTL)
	if all {
		pages.InvalidateAll(ctx)
	}
	for _, r := range results {
		if !all {
			pages.InvalidateVertical(ctx, r.Vertical)
		}
		listings.InvalidateVertical(ctx, r.Vertical)
	}
}

func newImportHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := store.NewImportLogStore(db, a.dialect()).Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "IMPORTED\tVERTICAL\tITEMS\tCATEGORIES\tSOURCE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
					e.ImportedAt.Local().Format(time.DateTime), e.Vertical, e.Items, e.Categories, e.Source)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of entries to show")
	return cmd
}
