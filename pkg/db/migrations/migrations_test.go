package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteUp(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	m, err := NewMigrator(db, SQLite, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, m.Up(ctx))
	// running again is a no-op
	require.NoError(t, m.Up(ctx))

	version, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	for _, table := range []string{"players", "rounds"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestUnknownDialect(t *testing.T) {
	_, err := NewMigrator(nil, Dialect("mysql"), zerolog.Nop())
	assert.ErrorContains(t, err, "unknown migration dialect")
}
