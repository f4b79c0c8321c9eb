package rounds

import (
	"context"
	"sort"
	"sync"

	"github.com/fadedpez/coinpurse/pkg/entities"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	rounds map[string][]entities.RoundRecord
	mu     sync.RWMutex
}

// NewMemoryRepository creates a new in-memory round repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rounds: make(map[string][]entities.RoundRecord),
	}
}

func (r *MemoryRepository) Record(ctx context.Context, round *entities.RoundRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rounds[round.UserID] = append(r.rounds[round.UserID], *round)
	return nil
}

func (r *MemoryRepository) PlayerRounds(ctx context.Context, userID string, limit int) ([]*entities.RoundRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := newestFirst(r.rounds[userID])
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}

	result := make([]*entities.RoundRecord, 0, len(history))
	for i := range history {
		round := history[i]
		result = append(result, &round)
	}
	return result, nil
}

func (r *MemoryRepository) Leaderboard(ctx context.Context, gameID string, limit int) ([]Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	standings := make([]Standing, 0, len(r.rounds))
	for userID, history := range r.rounds {
		s := Standing{UserID: userID}
		for _, round := range history {
			if gameID != "" && round.GameID != gameID {
				continue
			}
			s.Rounds++
			if round.Outcome.IsWin() {
				s.Won += round.Payoff
			}
		}
		if s.Rounds > 0 {
			standings = append(standings, s)
		}
	}

	sortStandings(standings)
	if limit > 0 && len(standings) > limit {
		standings = standings[:limit]
	}
	return standings, nil
}

func (r *MemoryRepository) PruneRoundsPerPlayer(ctx context.Context, maxRounds int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for userID, history := range r.rounds {
		if len(history) <= maxRounds {
			continue
		}
		kept := newestFirst(history)[:maxRounds]
		deleted += int64(len(history) - maxRounds)
		r.rounds[userID] = kept
	}
	return deleted, nil
}

func newestFirst(history []entities.RoundRecord) []entities.RoundRecord {
	sorted := append([]entities.RoundRecord(nil), history...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlayedAt.After(sorted[j].PlayedAt)
	})
	return sorted
}

// sortStandings orders by coins won, then user id for stable ties
func sortStandings(standings []Standing) {
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Won != standings[j].Won {
			return standings[i].Won > standings[j].Won
		}
		return standings[i].UserID < standings[j].UserID
	})
}
