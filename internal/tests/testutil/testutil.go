package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sideline-app/client/config"
	"github.com/sideline-app/client/internal/db"
	"github.com/sideline-app/client/internal/store"
)

// StateConfig returns a SQLite state config rooted in a per-test temp dir.
func StateConfig(t *testing.T) config.StateConfig {
	t.Helper()
	return config.StateConfig{
		Driver:    config.StateDriverSQLite,
		Path:      filepath.Join(t.TempDir(), "state.db"),
		Namespace: "test",
	}
}

// NewStateRepository opens a migrated SQLite state database that is
// closed when the test ends.
func NewStateRepository(t *testing.T) *store.StateRepository {
	t.Helper()

	cfg := StateConfig(t)
	conn, err := db.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open state database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.Migrate(cfg); err != nil {
		t.Fatalf("Failed to migrate state database: %v", err)
	}
	return store.NewStateRepository(conn, cfg.Driver, cfg.Namespace)
}
