package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sideline-app/client/config"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies all pending up migrations for the configured driver.
func Migrate(cfg config.StateConfig) error {
	driver := cfg.Driver
	if driver == "" {
		driver = config.StateDriverSQLite
	}

	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("load migrations for %q: %w", driver, err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", src, migrationURL(cfg, driver))
	if err != nil {
		return fmt.Errorf("init migrator failed: %w", err)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migrate up failed: %w", err)
	}
	return nil
}

func migrationURL(cfg config.StateConfig, driver string) string {
	if driver == config.StateDriverPostgres {
		return PostgresURL(cfg.Database)
	}
	return "sqlite://" + cfg.Path
}
