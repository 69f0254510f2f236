package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// migrationsFS holds the numbered schema migrations.
// Houses must be created before members and expenses due to foreign keys.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDirtySchema means an earlier migration failed halfway. The database
// has to be repaired and its version forced before the store will open it.
var ErrDirtySchema = errors.New("schema is dirty")

// runMigrations brings the schema at dbPath up to date and returns the
// resulting schema version. The migrator gets its own connection since
// closing it closes the handle it was given.
func runMigrations(dbPath string) (uint, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open migration database: %w", err)
	}
	defer conn.Close()

	driver, err := migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("create sqlite driver: %w", err)
	}
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("load embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	from, dirty, err := schemaVersion(m)
	if err != nil {
		return 0, err
	}
	if dirty {
		return 0, fmt.Errorf("%s at version %d: %w", dbPath, from, ErrDirtySchema)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrate %s from version %d: %w", dbPath, from, err)
	}

	to, _, err := schemaVersion(m)
	if err != nil {
		return 0, err
	}
	if to != from {
		slog.Info("Schema migrated", "database", dbPath, "from", from, "to", to)
	}
	return to, nil
}

// schemaVersion reports the applied version; a fresh database is version 0.
func schemaVersion(m *migrate.Migrate) (uint, bool, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}
