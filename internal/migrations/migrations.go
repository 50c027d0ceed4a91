// Package migrations owns the arena schema. The SQL files are embedded and
// applied with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var Files embed.FS

// RunMigrations applies pending migrations. With autoMigrate off the schema
// is left alone and only its version is logged.
func RunMigrations(db *sql.DB, autoMigrate bool) error {
	src, err := iofs.New(Files, ".")
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("binding migrate to postgres: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("building migrator: %w", err)
	}

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if dirty {
		if err := recoverDirty(m, src, from); err != nil {
			return err
		}
	}

	if !autoMigrate {
		slog.Info("[Migrations] Auto-migration off, schema untouched", "version", from, "dirty", dirty)
		return nil
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		slog.Info("[Migrations] Schema current", "version", from)
		return nil
	case err != nil:
		return fmt.Errorf("applying migrations from version %d: %w", from, err)
	}

	to, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("reading schema version after migrating: %w", err)
	}
	slog.Info("[Migrations] Schema migrated", "from", from, "to", to)
	return nil
}

// recoverDirty rewinds an interrupted migration so Up replays it. Every
// statement is IF NOT EXISTS, so the replay is safe.
func recoverDirty(m *migrate.Migrate, src source.Driver, version uint) error {
	target := rewindTarget(src, version)
	slog.Warn("[Migrations] Interrupted migration, rewinding", "version", version, "to", target)

	if err := m.Force(target); err != nil {
		return fmt.Errorf("rewinding dirty version %d: %w", version, err)
	}
	return nil
}

// rewindTarget is the version before version, or database.NilVersion for the
// first migration.
func rewindTarget(src source.Driver, version uint) int {
	prev, err := src.Prev(version)
	if err != nil {
		return database.NilVersion
	}
	return int(prev)
}
