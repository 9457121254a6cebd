// store_test.go provides shared database helpers for the SQL store tests.
// Every test runs against a fresh SQLite file; the PostgreSQL variant is
// skipped if no server is available.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"folio/internal/database"
	"folio/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "folio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "folio")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testSQLite opens a migrated SQLite database in a temp directory.
func testSQLite(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "folio.db") + "?_pragma=busy_timeout(5000)"
	db, err := database.Connect(database.SQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db, database.SQLite); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testPostgres opens the shared test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testPostgres(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Connect(database.Postgres, testDSN())
	if err != nil {
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db, database.Postgres); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanVertical removes every row for a test vertical. Call in t.Cleanup().
func cleanVertical(db *sql.DB, name string) {
	db.Exec("DELETE FROM content_items WHERE vertical = $1", name)
	db.Exec("DELETE FROM categories WHERE vertical = $1", name)
}

func sampleItems() []models.ContentItem {
	return []models.ContentItem{
		{Slug: "lisbon", Title: "Lisbon", Category: "Travel", State: models.ItemStateActive, StartDate: "2024-03-01", Importance: 3},
		{Slug: "draft", Title: "Draft", Category: "Travel", State: models.ItemStateHidden},
		{Slug: "bread", Title: "Bread", Category: "food", EndDate: "2023-11-10", Body: "# Bread\n\nFlour."},
	}
}

func sampleCategories() []models.Category {
	return []models.Category{
		{Slug: "travel", Title: "Travel", Preview: "Trips", Importance: 5},
		{Slug: "food", Title: "Food", Date: "2023-01-01"},
		{Slug: "music", Title: "Music"},
	}
}
