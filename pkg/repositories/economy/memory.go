package economy

import (
	"context"
	"sync"
	"time"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/rng"
)

// MemoryRepository implements Repository using in-memory storage.
// Documents are stored encoded so callers never share state with the store.
type MemoryRepository struct {
	docs  map[string][]byte
	clock rng.Clock
	mu    sync.RWMutex
}

// NewMemoryRepository creates a new in-memory economy repository
func NewMemoryRepository(clock rng.Clock) *MemoryRepository {
	return &MemoryRepository{
		docs:  make(map[string][]byte),
		clock: clock,
	}
}

func (r *MemoryRepository) Fetch(ctx context.Context, userID string) (*entities.PlayerEconomy, error) {
	r.mu.RLock()
	data, exists := r.docs[userID]
	r.mu.RUnlock()

	if exists {
		return decode(userID, data)
	}

	player := newPlayer(userID, r.clock.Now())
	if err := r.Save(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (r *MemoryRepository) Save(ctx context.Context, player *entities.PlayerEconomy) error {
	data, err := encode(player)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[player.UserID] = data
	return nil
}

func newPlayer(userID string, now time.Time) *entities.PlayerEconomy {
	player := entities.NewPlayerEconomy(userID)
	player.CreatedAt = now
	player.UpdatedAt = now
	return player
}
