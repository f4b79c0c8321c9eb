package economy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/rng"
)

// SQLiteRepository implements Repository with one JSON document per row
type SQLiteRepository struct {
	db    *sql.DB
	clock rng.Clock
}

// NewSQLiteRepository wraps a migrated database, see db.OpenSQLite
func NewSQLiteRepository(db *sql.DB, clock rng.Clock) *SQLiteRepository {
	return &SQLiteRepository{db: db, clock: clock}
}

func (r *SQLiteRepository) Fetch(ctx context.Context, userID string) (*entities.PlayerEconomy, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT document FROM players WHERE user_id = ?`, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		player := newPlayer(userID, r.clock.Now())
		if err := r.Save(ctx, player); err != nil {
			return nil, err
		}
		return player, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting player: %w", err)
	}
	return decode(userID, data)
}

func (r *SQLiteRepository) Save(ctx context.Context, player *entities.PlayerEconomy) error {
	data, err := encode(player)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO players (user_id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, player.UserID, string(data), r.clock.Now().UTC()); err != nil {
		return fmt.Errorf("error saving player: %w", err)
	}
	return nil
}
