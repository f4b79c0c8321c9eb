package rounds

import (
	"context"
	"fmt"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository wraps a migrated pool, see db.NewPool
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Record(ctx context.Context, round *entities.RoundRecord) error {
	const query = `
		INSERT INTO rounds (id, session_id, user_id, game_id, outcome, reason, bet, payoff, multiplier, wallet, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		round.ID, round.SessionID, round.UserID, round.GameID,
		string(round.Outcome), round.Reason,
		round.Bet, round.Payoff, round.Multiplier, round.Wallet,
		round.PlayedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record round: %w", err)
	}
	return nil
}

func (r *PostgresRepository) PlayerRounds(ctx context.Context, userID string, limit int) ([]*entities.RoundRecord, error) {
	const query = `
		SELECT id, session_id, user_id, game_id, outcome, reason, bet, payoff, multiplier, wallet, played_at
		FROM rounds
		WHERE user_id = $1
		ORDER BY played_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entities.RoundRecord, error) {
		var round entities.RoundRecord
		var outcome string
		err := row.Scan(
			&round.ID, &round.SessionID, &round.UserID, &round.GameID,
			&outcome, &round.Reason,
			&round.Bet, &round.Payoff, &round.Multiplier, &round.Wallet,
			&round.PlayedAt,
		)
		round.Outcome = entities.OutcomeKind(outcome)
		return &round, err
	})
}

func (r *PostgresRepository) Leaderboard(ctx context.Context, gameID string, limit int) ([]Standing, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(leaderboardSQL, "$1", "$2"), gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Standing, error) {
		var s Standing
		err := row.Scan(&s.UserID, &s.Won, &s.Rounds)
		return s, err
	})
}

func (r *PostgresRepository) PruneRoundsPerPlayer(ctx context.Context, maxRounds int) (int64, error) {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(pruneSQL, "$1"), maxRounds)
	if err != nil {
		return 0, fmt.Errorf("failed to prune rounds: %w", err)
	}
	return tag.RowsAffected(), nil
}
