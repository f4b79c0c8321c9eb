package economy

import (
	"context"

	"github.com/fadedpez/coinpurse/pkg/entities"
)

// Repository persists one economy document per user
type Repository interface {
	// Fetch returns the user's document, creating and saving a default one on first use
	Fetch(ctx context.Context, userID string) (*entities.PlayerEconomy, error)

	// Save creates or replaces the user's document
	Save(ctx context.Context, player *entities.PlayerEconomy) error
}
