package rounds

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fadedpez/coinpurse/pkg/entities"
)

const leaderboardSQL = `
	SELECT user_id,
		CAST(COALESCE(SUM(CASE WHEN outcome IN ('WIN', 'JACKPOT') THEN payoff ELSE 0 END), 0) AS BIGINT) AS won,
		COUNT(*) AS rounds
	FROM rounds
	WHERE %[1]s = '' OR game_id = %[1]s
	GROUP BY user_id
	ORDER BY won DESC, user_id
	LIMIT %[2]s
`

const pruneSQL = `
	DELETE FROM rounds WHERE id IN (
		SELECT id FROM (
			SELECT id, ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY played_at DESC, id DESC) AS rn
			FROM rounds
		) ranked WHERE rn > %s
	)
`

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository wraps a migrated database, see db.OpenSQLite
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Record(ctx context.Context, round *entities.RoundRecord) error {
	query := `
		INSERT INTO rounds (id, session_id, user_id, game_id, outcome, reason, bet, payoff, multiplier, wallet, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		round.ID, round.SessionID, round.UserID, round.GameID,
		string(round.Outcome), round.Reason,
		round.Bet, round.Payoff, round.Multiplier, round.Wallet,
		round.PlayedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("error recording round: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) PlayerRounds(ctx context.Context, userID string, limit int) ([]*entities.RoundRecord, error) {
	query := `
		SELECT id, session_id, user_id, game_id, outcome, reason, bet, payoff, multiplier, wallet, played_at
		FROM rounds
		WHERE user_id = ?
		ORDER BY played_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying rounds: %w", err)
	}
	defer rows.Close()

	var result []*entities.RoundRecord
	for rows.Next() {
		var round entities.RoundRecord
		var outcome string
		if err := rows.Scan(
			&round.ID, &round.SessionID, &round.UserID, &round.GameID,
			&outcome, &round.Reason,
			&round.Bet, &round.Payoff, &round.Multiplier, &round.Wallet,
			&round.PlayedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning round row: %w", err)
		}
		round.Outcome = entities.OutcomeKind(outcome)
		result = append(result, &round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating round rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Leaderboard(ctx context.Context, gameID string, limit int) ([]Standing, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(leaderboardSQL, "?1", "?2"), gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying leaderboard: %w", err)
	}
	defer rows.Close()

	var standings []Standing
	for rows.Next() {
		var s Standing
		if err := rows.Scan(&s.UserID, &s.Won, &s.Rounds); err != nil {
			return nil, fmt.Errorf("error scanning leaderboard row: %w", err)
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

func (r *SQLiteRepository) PruneRoundsPerPlayer(ctx context.Context, maxRounds int) (int64, error) {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(pruneSQL, "?"), maxRounds)
	if err != nil {
		return 0, fmt.Errorf("error pruning rounds: %w", err)
	}
	return res.RowsAffected()
}
