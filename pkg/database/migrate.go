package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/campushq/school-records-api/migrations"
)

// Migrate applies all pending schema migrations embedded in the binary.
func Migrate(db *sqlx.DB) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	if err := goose.Up(db.DB, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
