// Package testutil provides testing utilities for integration tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reeltv/reeltv/internal/database"
	"github.com/reeltv/reeltv/internal/media"
)

// TestDB wraps a migrated test database living in a temp directory.
type TestDB struct {
	DB     *database.DB
	Path   string
	Logger zerolog.Logger
}

// NewTestDB creates a new test database in t.TempDir() and runs migrations.
// The database is closed automatically when the test finishes.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dir := t.TempDir()
	logger := NewTestLogger(t)

	db, err := database.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestDB{
		DB:     db,
		Path:   dir,
		Logger: logger,
	}
}

// NewTestLogger creates a test logger that outputs to t.Log.
func NewTestLogger(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}

// NopLogger returns a no-op logger for tests that don't need output.
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// Movie builds a movie work with the given id and title.
func Movie(id int, title string) media.Work {
	return media.Work{ID: id, Type: media.TypeMovie, Title: title, OriginalTitle: title}
}

// Show builds a TV work with the given id and name.
func Show(id int, name string) media.Work {
	return media.Work{ID: id, Type: media.TypeTV, Title: name, OriginalTitle: name}
}

// Page builds a results page.
func Page(page, total int, works ...media.Work) *media.Page {
	return &media.Page{Page: page, TotalPages: total, TotalResults: len(works), Results: works}
}
