package economy

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository with a JSONB document per row
type PostgresRepository struct {
	pool  *pgxpool.Pool
	clock rng.Clock
}

// NewPostgresRepository wraps a migrated pool, see db.NewPool
func NewPostgresRepository(pool *pgxpool.Pool, clock rng.Clock) *PostgresRepository {
	return &PostgresRepository{pool: pool, clock: clock}
}

func (r *PostgresRepository) Fetch(ctx context.Context, userID string) (*entities.PlayerEconomy, error) {
	const query = `SELECT document FROM players WHERE user_id = $1`

	var data []byte
	err := r.pool.QueryRow(ctx, query, userID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		player := newPlayer(userID, r.clock.Now())
		if err := r.Save(ctx, player); err != nil {
			return nil, err
		}
		return player, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return decode(userID, data)
}

func (r *PostgresRepository) Save(ctx context.Context, player *entities.PlayerEconomy) error {
	data, err := encode(player)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO players (user_id, document, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.pool.Exec(ctx, query, player.UserID, data, r.clock.Now()); err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}
