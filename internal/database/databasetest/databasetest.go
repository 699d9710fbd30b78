// Package databasetest opens a migrated sqlite store for tests.
package databasetest

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/employee-tracker/internal/config"
	"github.com/employee-tracker/internal/database"
	"github.com/employee-tracker/internal/store"
)

// NewStore opens a fresh sqlite database under t.TempDir() with every
// migration applied. It is closed when the test ends.
func NewStore(t testing.TB) *store.Store {
	t.Helper()

	ctx := context.Background()
	cfg := config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "tracker_test.db"),
		ConnectAttempts: 1,
	}

	db, err := database.Open(ctx, cfg, slog.LevelError)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	st := store.New(db)
	t.Cleanup(func() { _ = st.Close() })

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return st
}
