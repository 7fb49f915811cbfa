package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings a postgres database schema up to date.
// It's a no-op for sqlite, which creates its schema on open.
func Migrate(opts *Options) error {
	opts.SetDefaults()
	if opts.IsSQLite() {
		return nil
	}

	m, err := newMigrate(opts)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// Rollback reverts the most recent migration.
func Rollback(opts *Options) error {
	opts.SetDefaults()
	if opts.IsSQLite() {
		return fmt.Errorf("rollback is not supported for sqlite")
	}

	m, err := newMigrate(opts)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Steps(-1)
}

func newMigrate(opts *Options) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", opts.connURL())
	if err != nil {
		return nil, err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: "conveyor_migrations"})
	if err != nil {
		db.Close()
		return nil, err
	}

	return migrate.NewWithInstance("iofs", src, "postgres", driver)
}
