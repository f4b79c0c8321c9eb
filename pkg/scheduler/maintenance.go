package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Maintenance intervals
const (
	RoundPruneInterval = 6 * time.Hour
	RotationInterval   = 24 * time.Hour
	IndexPruneInterval = 7 * 24 * time.Hour
)

// RoundPruner trims per-player round history
type RoundPruner interface {
	PruneRoundsPerPlayer(ctx context.Context, maxRounds int) (int64, error)
}

// IndexMaintainer rotates and prunes time based search indices
type IndexMaintainer interface {
	RotateIndices(ctx context.Context) error
	PruneOldIndices(ctx context.Context) ([]string, error)
}

// NewMaintenance registers the history maintenance tasks. indices may be nil
// when Elasticsearch is disabled.
func NewMaintenance(rounds RoundPruner, maxRounds int, indices IndexMaintainer, log zerolog.Logger) *Scheduler {
	s := NewScheduler(log)

	s.AddTask("round_pruning", RoundPruneInterval, func(ctx context.Context) error {
		deleted, err := rounds.PruneRoundsPerPlayer(ctx, maxRounds)
		if err != nil {
			return err
		}
		if deleted > 0 {
			s.log.Info().Int64("deleted", deleted).Int("max_rounds", maxRounds).Msg("Pruned round history")
		}
		return nil
	})

	if indices != nil {
		s.AddTask("index_rotation", RotationInterval, indices.RotateIndices)
		s.AddTask("index_pruning", IndexPruneInterval, func(ctx context.Context) error {
			pruned, err := indices.PruneOldIndices(ctx)
			if err != nil {
				return err
			}
			if len(pruned) > 0 {
				s.log.Info().Strs("indices", pruned).Msg("Pruned old indices")
			}
			return nil
		})
	}

	return s
}
