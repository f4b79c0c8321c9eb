package economy

import (
	"context"
	"fmt"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/lock"
)

// Updater applies read-modify-write changes to one player's document
type Updater interface {
	Repository

	// Update fetches the document, applies fn and saves the result. Updates of
	// the same user never interleave. An error from fn skips the save and is
	// returned unwrapped.
	Update(ctx context.Context, userID string, fn func(p *entities.PlayerEconomy) error) (*entities.PlayerEconomy, error)
}

// LockedRepository serializes writes per user on top of a base repository.
// Every writer in the process has to share the same instance.
type LockedRepository struct {
	Repository
	locks *lock.UserLock
}

// NewLockedRepository wraps base
func NewLockedRepository(base Repository) *LockedRepository {
	return &LockedRepository{
		Repository: base,
		locks:      lock.NewUserLock(),
	}
}

func (r *LockedRepository) Save(ctx context.Context, player *entities.PlayerEconomy) error {
	return r.locks.WithLock(player.UserID, func() error {
		return r.Repository.Save(ctx, player)
	})
}

func (r *LockedRepository) Update(ctx context.Context, userID string, fn func(p *entities.PlayerEconomy) error) (*entities.PlayerEconomy, error) {
	r.locks.Lock(userID)
	defer r.locks.Unlock(userID)

	player, err := r.Repository.Fetch(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch player %s: %w", userID, err)
	}
	if err := fn(player); err != nil {
		return nil, err
	}
	if err := r.Repository.Save(ctx, player); err != nil {
		return nil, fmt.Errorf("save player %s: %w", userID, err)
	}
	return player, nil
}

var _ Updater = (*LockedRepository)(nil)
