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

	"github.com/spf13/cobra"

	"folio/internal/catalog"
	"folio/internal/models"
	"folio/internal/slug"
	"folio/internal/store"
)

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect and clean up category registries",
		Long: `Inspect and clean up a vertical's category registry.

Subcommands:
  list       Categories shown on the listing page, by importance
  unused     Registry entries no published item refers to
  prune      Remove unused entries from categories.json
  normalize  Fill in missing slugs in categories.json`,
	}

	cmd.AddCommand(newCategoriesListCmd(a))
	cmd.AddCommand(newCategoriesUnusedCmd(a))
	cmd.AddCommand(newCategoriesPruneCmd(a))
	cmd.AddCommand(newCategoriesNormalizeCmd(a))

	return cmd
}

func newCategoriesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <vertical>",
		Short: "Show the reconciled listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, cats, err := a.readVertical(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			listed := catalog.SortByImportance(catalog.Reconcile(items, cats))
			return writeCategories(cmd.OutOrStdout(), listed)
		},
	}
}

func newCategoriesUnusedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unused <vertical>",
		Short: "Show registry entries no published item refers to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, cats, err := a.readVertical(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeCategories(cmd.OutOrStdout(), catalog.Unused(items, cats))
		},
	}
}

func newCategoriesPruneCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune <vertical>",
		Short: "Remove unused entries from categories.json",
		Long: `Rewrite the vertical's categories.json keeping only the entries at least one
published item refers to. Registry order is preserved. The file is replaced
atomically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.prune(cmd.Context(), cmd.OutOrStdout(), args[0], dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be removed without writing")
	return cmd
}

func (a *app) prune(ctx context.Context, out io.Writer, name string, dryRun bool) error {
	v, err := a.vertical(name)
	if err != nil {
		return err
	}
	js := store.NewJSONStore(a.cfg.DataDir)
	items, cats, err := readCollections(ctx, js, v)
	if err != nil {
		return err
	}

	unused := catalog.Unused(items, cats)
	for _, d := range unused {
		fmt.Fprintf(out, "remove %s (%s)\n", d.Slug, d.Title)
	}
	if len(unused) == 0 {
		fmt.Fprintln(out, "nothing to prune")
		return nil
	}
	if dryRun {
		return nil
	}

	err = js.EditCategories(ctx, v, func(cats []models.Category) []bool {
		return catalog.Referenced(items, cats)
	})
	if err != nil {
		return err
	}
	slog.Info("categories pruned", "vertical", v.Name, "removed", len(unused), "kept", len(cats)-len(unused))
	return nil
}

func newCategoriesNormalizeCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "normalize <vertical>",
		Short: "Fill in missing slugs in categories.json",
		Long: `Give every registry entry without a slug one generated from its title, and
report entries whose slug differs from the generated one. Existing slugs are
never changed, since published URLs depend on them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.normalize(cmd.Context(), cmd.OutOrStdout(), args[0], dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing")
	return cmd
}

func (a *app) normalize(ctx context.Context, out io.Writer, name string, dryRun bool) error {
	v, err := a.vertical(name)
	if err != nil {
		return err
	}
	js := store.NewJSONStore(a.cfg.DataDir)

	filled := 0
	err = js.EditCategories(ctx, v, func(cats []models.Category) []bool {
		keep := make([]bool, len(cats))
		for i := range cats {
			keep[i] = true
			want := slug.Generate(cats[i].Title)
			switch {
			case cats[i].Slug == "":
				fmt.Fprintf(out, "set %q -> %s\n", cats[i].Title, want)
				if !dryRun {
					cats[i].Slug = want
					filled++
				}
			case cats[i].Slug != want:
				fmt.Fprintf(out, "differs %s (title %q suggests %s)\n", cats[i].Slug, cats[i].Title, want)
			}
		}
		return keep
	})
	if err != nil || filled == 0 {
		return err
	}
	slog.Info("category slugs filled", "vertical", v.Name, "count", filled)
	return nil
}

// readVertical reads a vertical's items and registry from the configured
// backend.
func (a *app) readVertical(ctx context.Context, name string) ([]models.ContentItem, []models.Category, error) {
	v, err := a.vertical(name)
	if err != nil {
		return nil, nil, err
	}
	reader, closeReader, err := a.openReader()
	if err != nil {
		return nil, nil, err
	}
	defer closeReader()

	return readCollections(ctx, reader, v)
}

// readCollections reads both collections. Unlike the server, maintenance
// commands fail on unreadable data instead of treating it as empty.
func readCollections(ctx context.Context, r store.Reader, v models.Vertical) ([]models.ContentItem, []models.Category, error) {
	items, err := r.Items(ctx, v)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s items: %w", v.Name, err)
	}
	cats, err := r.Categories(ctx, v)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s categories: %w", v.Name, err)
	}
	return items, cats, nil
}

func writeCategories(out io.Writer, cats []models.Category) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tTITLE\tIMPORTANCE\tDATE")
	for _, d := range cats {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%s\n", d.Slug, d.Title, float64(d.Importance), d.Date)
	}
	return tw.Flush()
}
