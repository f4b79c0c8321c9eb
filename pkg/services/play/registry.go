package play

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fadedpez/coinpurse/internal/types"
)

// Registry maps game ids to their implementation
type Registry struct {
	games map[string]Game
	mu    sync.RWMutex
}

// NewRegistry creates a registry holding games
func NewRegistry(games ...Game) (*Registry, error) {
	r := &Registry{
		games: make(map[string]Game),
	}
	for _, g := range games {
		if err := r.Register(g); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a game to the registry
func (r *Registry) Register(g Game) error {
	if g == nil || g.ID() == "" {
		return types.NewGameError(types.ErrInvalidArgument, "game must have an id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.games[g.ID()]; exists {
		return types.NewGameError(types.ErrInvalidAction, fmt.Sprintf("Game %s is already registered", g.ID()))
	}

	r.games[g.ID()] = g
	return nil
}

// Get returns the game registered under id
func (r *Registry) Get(id string) (Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, exists := r.games[id]
	if !exists {
		return nil, types.NewGameError(types.ErrGameNotFound, fmt.Sprintf("Game %s not found", id))
	}
	return g, nil
}

// List returns every registered game ordered by id
func (r *Registry) List() []Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := make([]Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].ID() < games[j].ID()
	})
	return games
}

// Picker renders the game selection menu
func (r *Registry) Picker(customID string) View {
	games := r.List()
	options := make([]Option, 0, len(games))
	for _, g := range games {
		options = append(options, Option{Label: g.Name(), Value: g.ID(), Emoji: g.Emoji()})
	}
	return View{
		Title:       "Pick a game",
		Description: "Choose what to play. Your current bet is used for every round.",
		Color:       ColorNeutral,
		Rows: []Row{{Select: &Select{
			ID:          customID,
			Placeholder: "Select a game",
			Options:     options,
		}}},
	}
}
