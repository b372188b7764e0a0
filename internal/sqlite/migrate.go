package sqlite

import (
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/rpggio/sealboard/migrations"
)

// RunMigrations applies all pending migrations from the embedded migrations FS.
func (db *DB) RunMigrations() error {
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db.DB, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the latest applied migration version.
func (db *DB) SchemaVersion() (int64, error) {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite"); err != nil {
		return 0, fmt.Errorf("set dialect: %w", err)
	}
	v, err := goose.GetDBVersion(db.DB)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}
