package rounds

import (
	"context"

	"github.com/fadedpez/coinpurse/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_rounds

// Repository stores the history of resolved rounds
type Repository interface {
	// Record appends a resolved round
	Record(ctx context.Context, round *entities.RoundRecord) error

	// PlayerRounds returns a player's most recent rounds, newest first
	PlayerRounds(ctx context.Context, userID string, limit int) ([]*entities.RoundRecord, error)

	// Leaderboard ranks players by coins won. An empty gameID ranks across all games.
	Leaderboard(ctx context.Context, gameID string, limit int) ([]Standing, error)

	// PruneRoundsPerPlayer keeps only the newest maxRounds rounds of every player
	// and returns how many were deleted
	PruneRoundsPerPlayer(ctx context.Context, maxRounds int) (int64, error)
}

// Standing is one leaderboard row
type Standing struct {
	UserID string `json:"user_id"`
	Won    int64  `json:"won"`
	Rounds int64  `json:"rounds"`
}
