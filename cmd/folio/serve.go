// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"folio/internal/cache"
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/handlers"
	"folio/internal/listing"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/router"
	"folio/internal/store"
	"folio/internal/watcher"
	"folio/web"
)

// shutdownTimeout bounds how long in-flight requests may take to drain.
const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the public site and JSON API.

With CONTENT_BACKEND=json (the default) pages are read straight from DATA_DIR
and cached pages are dropped as soon as a vertical's files change. With a SQL
backend pending migrations are applied first, and in development an empty
database is seeded from DATA_DIR.

Valkey is optional: without it pages are not cached and the API is rate
limited in process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend", cfg.Backend,
		"verticals", len(a.verticals),
	)

	reader, closeReader, err := a.openReader()
	if err != nil {
		return err
	}
	defer closeReader()

	if sqlStore, ok := reader.(*store.SQLStore); ok && cfg.IsDev() {
		if err := a.seed(ctx, sqlStore); err != nil {
			return err
		}
	}

	// Valkey backs the page and listing caches and the API rate limiter.
	var client *redis.Client
	if cfg.CacheEnabled {
		client, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, caching disabled", "error", err)
			client = nil
		} else {
			defer client.Close()
		}
	}

	var (
		pageCache    *cache.PageCache
		listingCache *cache.ListingCache
		limiter      middleware.Limiter
	)
	if client != nil {
		pageCache = cache.NewPageCache(client, cfg.CacheTTL)
		listingCache = cache.NewListingCache(client, cfg.CacheTTL)
		limiter = middleware.NewValkeyRateLimiter(client, cfg.APIRateLimit, time.Minute)
	} else {
		rl := middleware.NewRateLimiter(cfg.APIRateLimit, time.Minute)
		defer rl.Stop()
		limiter = rl
	}

	if cfg.Backend == config.BackendJSON && client != nil {
		w, err := watcher.New(cfg.DataDir, verticalNames(a.verticals), pageCache, listingCache)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			slog.Warn("content watcher not started", "error", err)
		}
		defer w.Stop()
	}

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("initialize renderer: %w", err)
	}

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}

	svc := listing.NewService(reader, a.verticals, listingCache)
	r := router.New(router.Options{
		Public:      handlers.NewPublic(svc, renderer, pageCache, cfg.SiteName),
		API:         handlers.NewAPI(svc),
		Static:      static,
		Limiter:     limiter,
		RateWindow:  time.Minute,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// seed fills an empty development database from DATA_DIR and records each
// copied vertical in the import log.
func (a *app) seed(ctx context.Context, dst *store.SQLStore) error {
	results, err := database.Seed(ctx, dst.DB(), a.verticals, store.NewJSONStore(a.cfg.DataDir), dst)
	if err != nil {
		return err
	}
	log := store.NewImportLogStore(dst.DB(), a.dialect())
	for _, r := range results {
		log.Log(ctx, a.cfg.DataDir, r)
	}
	return nil
}

func verticalNames(vs []models.Vertical) []string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Name
	}
	return names
}
