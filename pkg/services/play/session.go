package play

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fadedpez/coinpurse/internal/metrics"
	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/payout"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrAlreadyResolved = errors.New("round already resolved")
	ErrUnresolved      = errors.New("round finished without an outcome")
)

// State is the lifecycle position of a session
type State int

const (
	StateIdle State = iota
	StateAwaiting
	StateResolved
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaiting:
		return "awaiting_action"
	case StateResolved:
		return "resolved"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// Store persists a player's economy document. Other commands write the same
// document while a session runs, so rounds are applied through Update.
type Store interface {
	Fetch(ctx context.Context, userID string) (*entities.PlayerEconomy, error)
	Update(ctx context.Context, userID string, fn func(p *entities.PlayerEconomy) error) (*entities.PlayerEconomy, error)
}

// Recorder keeps the history of resolved rounds
type Recorder interface {
	Record(ctx context.Context, round *entities.RoundRecord) error
}

// Deps are the collaborators a session runs against
type Deps struct {
	Responder  Responder
	Store      Store
	Recorder   Recorder // optional
	Calculator *payout.Calculator
	Source     rng.Source
	Clock      rng.Clock
	Logger     zerolog.Logger
}

// Session binds one player, one game and one responder for a /play invocation.
// Rounds are played back to back until a continuation guard fails.
type Session struct {
	ID     string
	Player *entities.PlayerEconomy
	Game   Game

	responder Responder
	store     Store
	recorder  Recorder
	calc      *payout.Calculator
	src       rng.Source
	clock     rng.Clock
	log       zerolog.Logger

	mu      sync.Mutex
	state   State
	round   int
	outcome *entities.Outcome
	message Message
	sent    bool
	last    View
	stopped bool
}

// NewSession creates a session. Missing random, clock and calculator
// collaborators fall back to the process defaults.
func NewSession(player *entities.PlayerEconomy, game Game, deps Deps) *Session {
	if deps.Source == nil {
		deps.Source = rng.NewTimeSource()
	}
	if deps.Clock == nil {
		deps.Clock = rng.SystemClock{}
	}
	if deps.Calculator == nil {
		deps.Calculator = payout.NewCalculator(deps.Source)
	}

	id := uuid.NewString()
	return &Session{
		ID:        id,
		Player:    player,
		Game:      game,
		responder: deps.Responder,
		store:     deps.Store,
		recorder:  deps.Recorder,
		calc:      deps.Calculator,
		src:       deps.Source,
		clock:     deps.Clock,
		log: deps.Logger.With().
			Str("session", id).
			Str("user", player.UserID).
			Str("game", game.ID()).
			Logger(),
	}
}

// Run plays rounds until a guard fails, the game stops the session or an
// error is returned by a collaborator.
func (s *Session) Run(ctx context.Context) error {
	metrics.ActiveSessions.Inc()
	defer metrics.ActiveSessions.Dec()

	if err := s.Refresh(ctx); err != nil {
		s.terminate()
		return err
	}
	if ok, err := s.End(ctx, false); !ok || err != nil {
		return err
	}

	for {
		if err := s.Play(ctx); err != nil {
			s.terminate()
			return err
		}
		if err := s.Refresh(ctx); err != nil {
			s.terminate()
			return err
		}
		ok, err := s.End(ctx, s.Stopped())
		if !ok || err != nil {
			return err
		}
	}
}

// Refresh reloads the player's document so the guards see changes made by
// other commands since the last round
func (s *Session) Refresh(ctx context.Context) error {
	p, err := s.store.Fetch(ctx, s.Player.UserID)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("fetch").Inc()
		return fmt.Errorf("fetch player %s: %w", s.Player.UserID, err)
	}
	*s.Player = *p
	return nil
}

// Play runs a single round of the game
func (s *Session) Play(ctx context.Context) error {
	s.mu.Lock()
	s.round++
	s.outcome = nil
	s.state = StateIdle
	round := s.round
	s.mu.Unlock()

	s.log.Debug().Int("round", round).Int64("bet", s.Player.Bet.Value).Msg("round started")

	if err := s.Game.Play(ctx, s); err != nil {
		return fmt.Errorf("play %s: %w", s.Game.ID(), err)
	}
	if _, ok := s.Outcome(); !ok {
		return fmt.Errorf("play %s: %w", s.Game.ID(), ErrUnresolved)
	}
	return nil
}

// Check runs the continuation guards in order and returns the first failure
func (s *Session) Check(force bool) error {
	if force {
		return &GuardFailure{Reason: ReasonEnded}
	}

	p := s.Player
	if p.Energy.IsExpired(s.clock.Now()) {
		return &GuardFailure{Reason: ReasonEnergyExpired}
	}
	if p.Bet.Value > p.Wallet.Value {
		return &GuardFailure{Reason: ReasonInsufficientFunds}
	}
	if p.Wallet.IsMaxValue(p.Upgrades.Mastery) {
		return &GuardFailure{Reason: ReasonWalletAtCapacity}
	}
	return nil
}

// End decides whether another round may be played. A failed guard renders an
// idle message, terminates the session and reports false.
func (s *Session) End(ctx context.Context, force bool) (bool, error) {
	err := s.Check(force)
	if err == nil {
		s.setState(StateIdle)
		return true, nil
	}

	var failure *GuardFailure
	if !errors.As(err, &failure) {
		return false, err
	}

	metrics.GuardFailuresTotal.WithLabelValues(failure.Reason).Inc()
	s.log.Debug().Str("reason", failure.Reason).Msg("session ended")
	s.terminate()
	return false, s.idle(ctx, failure)
}

// idle renders a guard failure. A forced end keeps the final view the game drew.
func (s *Session) idle(ctx context.Context, failure *GuardFailure) error {
	s.mu.Lock()
	sent, last := s.sent, s.last
	s.mu.Unlock()

	if sent && failure.Reason == ReasonEnded {
		return nil
	}

	view := View{
		Title:       s.Game.Name(),
		Description: failure.Message(),
		Color:       ColorIdle,
	}
	if sent {
		view = last.Disabled()
		view.Footer = failure.Message()
	}
	return s.Show(ctx, view)
}

// Show renders view, sending the first message or editing the current one
func (s *Session) Show(ctx context.Context, view View) error {
	s.mu.Lock()
	msg, sent := s.message, s.sent
	s.last = view
	s.mu.Unlock()

	var err error
	if !sent {
		msg, err = s.responder.Respond(ctx, view)
		if err != nil {
			return fmt.Errorf("respond: %w", err)
		}
	} else {
		msg, err = s.responder.Edit(ctx, msg, view)
		if err != nil {
			return fmt.Errorf("edit message: %w", err)
		}
	}

	s.mu.Lock()
	s.message = msg
	s.sent = true
	s.mu.Unlock()
	return nil
}

// Await waits for the player to use one of this round's controls.
// Controls from earlier rounds and other users are ignored.
func (s *Session) Await(ctx context.Context, timeout time.Duration) (Action, error) {
	prefix := s.componentPrefix()

	s.mu.Lock()
	msg := s.message
	s.state = StateAwaiting
	s.mu.Unlock()

	userID := s.Player.UserID
	action, err := s.responder.AwaitComponent(ctx, msg, func(a Action) bool {
		return a.UserID == userID && strings.HasPrefix(a.CustomID, prefix)
	}, timeout)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return Action{}, ErrTimeout
		}
		return Action{}, fmt.Errorf("await component: %w", err)
	}

	action.Name = strings.TrimPrefix(action.CustomID, prefix)
	return action, nil
}

// ComponentID returns the custom id for a control named name in the current round
func (s *Session) ComponentID(name string) string {
	return s.componentPrefix() + name
}

func (s *Session) componentPrefix() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%s:%d:", s.ID, s.round)
}

// Winnings calculates the payoff for the current bet at rate
func (s *Session) Winnings(rate payout.Rate) payout.Winnings {
	return s.calc.Calculate(rate, s.Player.Bet.Value, s.Player.EffectiveMultiplier(s.clock.Now()))
}

// Resolve applies the outcome to the player's economy and saves it. It runs
// once per round; later calls return ErrAlreadyResolved without mutating.
func (s *Session) Resolve(ctx context.Context, outcome entities.Outcome) error {
	s.mu.Lock()
	if s.outcome != nil {
		s.mu.Unlock()
		return ErrAlreadyResolved
	}

	now := s.clock.Now()
	userID := s.Player.UserID
	gameID := s.Game.ID()
	// the bet shown for this round, even if /bet changed it meanwhile
	bet := s.Player.Bet.Value
	multiplier := s.Player.EffectiveMultiplier(now)

	switch outcome.Kind {
	case entities.OutcomeLose:
		outcome.Payoff = bet
	case entities.OutcomeTie:
		outcome.Payoff = 0
	case entities.OutcomeOther:
		outcome.Payoff = 0
		if outcome.Forfeit {
			outcome.Payoff = bet
		}
	}

	s.outcome = &outcome
	s.state = StateResolved
	s.mu.Unlock()

	p, err := s.store.Update(ctx, userID, func(doc *entities.PlayerEconomy) error {
		s.apply(doc, gameID, bet, outcome, now)
		return nil
	})
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("save").Inc()
		return fmt.Errorf("save player %s: %w", userID, err)
	}
	*s.Player = *p

	metrics.RoundsTotal.WithLabelValues(gameID, outcome.Kind.String()).Inc()
	switch {
	case outcome.Kind.IsWin():
		metrics.CoinsWonTotal.WithLabelValues(gameID).Add(float64(outcome.Payoff))
	case outcome.Payoff > 0:
		metrics.CoinsLostTotal.WithLabelValues(gameID).Add(float64(outcome.Payoff))
	}

	s.log.Info().
		Str("outcome", outcome.Kind.String()).
		Int64("bet", bet).
		Int64("payoff", outcome.Payoff).
		Int64("wallet", p.Wallet.Value).
		Msg("round resolved")

	if s.recorder != nil {
		record := &entities.RoundRecord{
			ID:         uuid.NewString(),
			SessionID:  s.ID,
			UserID:     p.UserID,
			GameID:     gameID,
			Outcome:    outcome.Kind,
			Reason:     outcome.Reason,
			Bet:        bet,
			Payoff:     outcome.Payoff,
			Multiplier: multiplier,
			Wallet:     p.Wallet.Value,
			PlayedAt:   now,
		}
		if err := s.recorder.Record(ctx, record); err != nil {
			metrics.StoreErrorsTotal.WithLabelValues("record").Inc()
			s.log.Warn().Err(err).Msg("failed to record round")
		}
	}
	return nil
}

// apply books a resolved round onto the stored document
func (s *Session) apply(p *entities.PlayerEconomy, gameID string, bet int64, outcome entities.Outcome, now time.Time) {
	stats := p.GameStats(gameID)

	switch outcome.Kind {
	case entities.OutcomeWin, entities.OutcomeJackpot:
		p.Wallet.AddValue(outcome.Payoff)
		p.Bank.Space.AddValue(outcome.Payoff)
		p.Energy.AddStars()
		stats.RecordWin(outcome.Payoff, now)
	case entities.OutcomeLose:
		p.Wallet.SubValue(bet)
		p.Energy.SubStars()
		stats.RecordLose(bet, now)
	case entities.OutcomeTie:
		stats.RecordTie(now)
	case entities.OutcomeOther:
		if outcome.Forfeit {
			p.Wallet.SubValue(bet)
			stats.RecordLose(bet, now)
		}
	}

	p.Games[gameID] = stats
	if p.Advancements.Progress(entities.AdvancementGamesPlayed, 1, entities.GamesPlayedGoal) {
		s.log.Info().Str("advancement", entities.AdvancementGamesPlayed).Msg("advancement unlocked")
	}
	if outcome.Kind.IsWin() && p.Advancements.Progress(entities.AdvancementCoinsWon, outcome.Payoff, entities.CoinsWonGoal) {
		s.log.Info().Str("advancement", entities.AdvancementCoinsWon).Msg("advancement unlocked")
	}
	p.UpdatedAt = now
}

// TimedOut resolves the round as idle and stops the session. forfeit decides
// whether the bet is lost.
func (s *Session) TimedOut(ctx context.Context, forfeit bool) error {
	reason := "You took too long to respond. Your bet was returned."
	if forfeit {
		reason = "You took too long to respond and lost your bet."
	}
	if err := s.Resolve(ctx, entities.Idle(reason, forfeit)); err != nil {
		return err
	}
	s.Stop()

	s.mu.Lock()
	view := s.last.Disabled()
	s.mu.Unlock()
	view.Color = ColorIdle
	view.Footer = reason
	return s.Show(ctx, view)
}

// Stop ends the replay loop after the current round
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
}

func (s *Session) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *Session) terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateTerminated
	s.stopped = true
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Round returns the number of the round being played, starting at 1
func (s *Session) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// Outcome returns the outcome of the current round once resolved
func (s *Session) Outcome() (entities.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return entities.Outcome{}, false
	}
	return *s.outcome, true
}

// Rand is the random source games draw from
func (s *Session) Rand() rng.Source {
	return s.src
}

func (s *Session) Now() time.Time {
	return s.clock.Now()
}

func (s *Session) Logger() zerolog.Logger {
	return s.log
}
