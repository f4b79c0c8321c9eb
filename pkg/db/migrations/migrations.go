// Package migrations holds the embedded schema for the sqlite and postgres stores.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed sqlite/*.sql postgres/*.sql
var embedded embed.FS

// Dialect selects the migration set
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) goose() (goose.Dialect, error) {
	switch d {
	case SQLite:
		return goose.DialectSQLite3, nil
	case Postgres:
		return goose.DialectPostgres, nil
	}
	return "", fmt.Errorf("unknown migration dialect %q", d)
}

// Migrator applies the embedded migrations for one dialect
type Migrator struct {
	provider *goose.Provider
	log      zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *sql.DB, dialect Dialect, log zerolog.Logger) (*Migrator, error) {
	d, err := dialect.goose()
	if err != nil {
		return nil, err
	}
	dir, err := fs.Sub(embedded, string(dialect))
	if err != nil {
		return nil, fmt.Errorf("migration dir %s: %w", dialect, err)
	}
	p, err := goose.NewProvider(d, db, dir)
	if err != nil {
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	return &Migrator{provider: p, log: log}, nil
}

// Up applies every pending migration
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		m.log.Info().
			Int64("version", r.Source.Version).
			Str("file", r.Source.Path).
			Dur("duration", r.Duration).
			Msg("Applied migration")
	}
	return nil
}

// Version returns the current schema version
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	return m.provider.GetDBVersion(ctx)
}

// Up is a shortcut for NewMigrator followed by Up
func Up(ctx context.Context, db *sql.DB, dialect Dialect, log zerolog.Logger) error {
	m, err := NewMigrator(db, dialect, log)
	if err != nil {
		return err
	}
	return m.Up(ctx)
}
