// Package playtest provides in-memory collaborators for exercising games.
package playtest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/payout"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/fadedpez/coinpurse/pkg/services/play"
	"github.com/rs/zerolog"
)

// Click is one scripted player interaction
type Click struct {
	// Name is the control name, matched against the suffix of rendered custom ids
	Name   string
	Values []string
	// UserID overrides the responder's user for this click
	UserID string
	// CustomID is sent as is when set, bypassing the rendered controls
	CustomID string
}

// Responder records rendered views and replays scripted clicks. Once the
// script is exhausted every await times out.
type Responder struct {
	UserID string
	Script []Click

	mu       sync.Mutex
	Views    []play.View
	Timeouts []time.Duration
	Dropped  []play.Action
	next     int
}

func NewResponder(userID string, clicks ...Click) *Responder {
	return &Responder{UserID: userID, Script: clicks}
}

func (r *Responder) Respond(ctx context.Context, view play.View) (play.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Views = append(r.Views, view)
	return play.Message{ID: "message-1", ChannelID: "channel-1"}, nil
}

func (r *Responder) Edit(ctx context.Context, msg play.Message, view play.View) (play.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Views = append(r.Views, view)
	return msg, nil
}

func (r *Responder) AwaitComponent(ctx context.Context, msg play.Message, filter play.Filter, timeout time.Duration) (play.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Timeouts = append(r.Timeouts, timeout)

	for r.next < len(r.Script) {
		action := r.scripted(r.Script[r.next])
		r.next++

		if filter(action) {
			return action, nil
		}
		r.Dropped = append(r.Dropped, action)
	}
	return play.Action{}, play.ErrTimeout
}

// Subscribe hands out every remaining scripted click that passes filter and
// then closes the channel, as if the listening window had run out
func (r *Responder) Subscribe(msg play.Message, filter play.Filter) (<-chan play.Action, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan play.Action, len(r.Script)-r.next)
	for r.next < len(r.Script) {
		action := r.scripted(r.Script[r.next])
		r.next++
		if filter(action) {
			ch <- action
			continue
		}
		r.Dropped = append(r.Dropped, action)
	}
	close(ch)
	return ch, func() {}
}

func (r *Responder) scripted(click Click) play.Action {
	action := play.Action{
		CustomID: click.CustomID,
		UserID:   r.UserID,
		Values:   click.Values,
	}
	if click.UserID != "" {
		action.UserID = click.UserID
	}
	if action.CustomID == "" {
		action.CustomID = r.findControl(click.Name)
	}
	return action
}

// findControl looks for the control named name in the last rendered view
func (r *Responder) findControl(name string) string {
	if len(r.Views) == 0 {
		return name
	}
	suffix := ":" + name
	for _, row := range r.Views[len(r.Views)-1].Rows {
		for _, b := range row.Buttons {
			if strings.HasSuffix(b.ID, suffix) && !b.Disabled {
				return b.ID
			}
		}
		if row.Select != nil && strings.HasSuffix(row.Select.ID, suffix) && !row.Select.Disabled {
			return row.Select.ID
		}
	}
	return name
}

// LastView returns the most recent rendering
func (r *Responder) LastView() play.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Views) == 0 {
		return play.View{}
	}
	return r.Views[len(r.Views)-1]
}

// Store keeps saved documents in memory and counts saves. A user it has not
// seen yet starts as a copy of Seed.
type Store struct {
	mu      sync.Mutex
	Saves   int
	Players map[string]*entities.PlayerEconomy
	Seed    *entities.PlayerEconomy
	Err     error
}

func NewStore() *Store {
	return &Store{Players: make(map[string]*entities.PlayerEconomy)}
}

func (s *Store) Fetch(ctx context.Context, userID string) (*entities.PlayerEconomy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(userID)
}

func (s *Store) Update(ctx context.Context, userID string, fn func(p *entities.PlayerEconomy) error) (*entities.PlayerEconomy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	stored, err := clone(p)
	if err != nil {
		return nil, err
	}
	s.Saves++
	s.Players[userID] = stored
	return p, nil
}

func (s *Store) load(userID string) (*entities.PlayerEconomy, error) {
	if p, ok := s.Players[userID]; ok {
		return clone(p)
	}
	if s.Seed != nil && s.Seed.UserID == userID {
		return clone(s.Seed)
	}
	return entities.NewPlayerEconomy(userID), nil
}

// clone deep copies a document the way a real store would hand it out
func clone(p *entities.PlayerEconomy) (*entities.PlayerEconomy, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	out := entities.NewPlayerEconomy(p.UserID)
	if err := json.Unmarshal(data, out); err != nil {
		return nil, err
	}
	if out.Games == nil {
		out.Games = make(map[string]entities.GameStats)
	}
	return out, nil
}

// Recorder keeps recorded rounds in memory
type Recorder struct {
	mu     sync.Mutex
	Rounds []*entities.RoundRecord
}

func (r *Recorder) Record(ctx context.Context, round *entities.RoundRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rounds = append(r.Rounds, round)
	return nil
}

// Epoch is the fixed time every playtest clock starts at
var Epoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// NewPlayer returns a player with a fresh energy window and the given wallet and bet
func NewPlayer(userID string, wallet, bet int64) *entities.PlayerEconomy {
	p := entities.NewPlayerEconomy(userID)
	p.Wallet.SetValue(wallet)
	p.Bet.SetValue(bet)
	p.Energy.Recharge(Epoch, 0)
	return p
}

// Harness bundles a session with its in-memory collaborators
type Harness struct {
	Session   *play.Session
	Responder *Responder
	Store     *Store
	Recorder  *Recorder
	Clock     *rng.FixedClock
}

// NewHarness builds a session for game driven by src and the scripted clicks
func NewHarness(game play.Game, player *entities.PlayerEconomy, src rng.Source, clicks ...Click) *Harness {
	h := &Harness{
		Responder: NewResponder(player.UserID, clicks...),
		Store:     NewStore(),
		Recorder:  &Recorder{},
		Clock:     &rng.FixedClock{T: Epoch},
	}
	h.Store.Seed = player
	h.Session = play.NewSession(player, game, play.Deps{
		Responder:  h.Responder,
		Store:      h.Store,
		Recorder:   h.Recorder,
		Calculator: payout.NewCalculator(src),
		Source:     src,
		Clock:      h.Clock,
		Logger:     zerolog.Nop(),
	})
	return h
}

// PlayRound runs exactly one round and returns its outcome
func (h *Harness) PlayRound(ctx context.Context) (entities.Outcome, error) {
	if err := h.Session.Play(ctx); err != nil {
		return entities.Outcome{}, err
	}
	outcome, ok := h.Session.Outcome()
	if !ok {
		return entities.Outcome{}, fmt.Errorf("round %d not resolved", h.Session.Round())
	}
	return outcome, nil
}
