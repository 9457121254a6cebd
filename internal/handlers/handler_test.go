// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Content is served from JSON files in a temp directory; Valkey-backed
// tests are skipped when Valkey is unavailable.
package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"folio/internal/cache"
	"folio/internal/listing"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/store"
)

var testVerticals = []models.Vertical{
	{Name: "blog", Title: "Blog", ItemsKey: "blog", Layout: models.LayoutFlat},
	{Name: "notes", Title: "Notes", ItemsKey: "notes", Layout: models.LayoutNested},
	{Name: "essays", Title: "Essays", ItemsKey: "essays", Layout: models.LayoutFlat},
}

// testFiles is the data directory used by every handler test. essays has
// no files at all.
var testFiles = map[string]string{
	"blog/blog.json": `{"blog": [
		{"slug": "lisbon", "title": "Lisbon", "category": "Travel", "start_date": "2024-03-01",
		 "preview": "A *tiled* city", "body": "# Lisbon\n\nTiles everywhere."},
		{"slug": "draft", "title": "Draft", "category": "Food", "state": "hidden"},
		{"slug": "porto", "title": "Porto", "category": "travel", "end_date": "2024-05-01"}
	]}`,
	"blog/categories.json": `{"categories": [
		{"slug": "food", "title": "Food", "importance": 9},
		{"slug": "travel", "title": "Travel", "preview": "Trips abroad", "importance": 1},
		{"slug": "music", "title": "Music", "importance": 3}
	]}`,
	"notes/notes.json": `[
		{"slug": "go", "title": "Go", "category": "Computer Science", "start_date": "2023-01-01", "body": "Goroutines."}
	]`,
	"notes/categories.json": `[
		{"slug": "computer-science", "title": "CS", "importance": "2"},
		{"slug": "empty", "title": "Empty"}
	]`,
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	DataDir   string
	Store     *store.JSONStore
	Listing   *listing.Service
	Renderer  *render.Renderer
	PageCache *cache.PageCache
	Public    *Public
	API       *API
}

// newTestEnv creates a test environment over a fresh copy of testFiles.
// pageCache may be nil.
func newTestEnv(t *testing.T, pageCache *cache.PageCache) *testEnv {
	t.Helper()

	dir := t.TempDir()
	for name, content := range testFiles {
		writeDataFile(t, dir, name, content)
	}

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	st := store.NewJSONStore(dir)
	svc := listing.NewService(st, testVerticals, nil)

	return &testEnv{
		DataDir:   dir,
		Store:     st,
		Listing:   svc,
		Renderer:  renderer,
		PageCache: pageCache,
		Public:    NewPublic(svc, renderer, pageCache, "folio"),
		API:       NewAPI(svc),
	}
}

func writeDataFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		cache.NewPageCache(client, time.Minute).InvalidateAll(ctx)
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// withChiURLParams adds chi URL parameters, given as key/value pairs, to a
// request.
func withChiURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
