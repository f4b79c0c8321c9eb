// Package highlow asks the player whether a secret number is above or below a hint.
package highlow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/payout"
	"github.com/fadedpez/coinpurse/pkg/services/play"
)

const (
	ID      = "highlow"
	Timeout = 20 * time.Second

	Min = 1
	Max = 100
)

var (
	Rate        = payout.Rate{Base: 0.3, Lo: 0.2, Hi: 0.7}
	JackpotRate = payout.Rate{Base: 2.0, Lo: 0.2, Hi: 0.7}
)

// Guess is the player's call relative to the hint
type Guess string

const (
	Lower   Guess = "lower"
	Exact   Guess = "jackpot"
	Higher  Guess = "higher"
	unknown Guess = ""
)

// Judge classifies a guess against the hint and the secret
func Judge(guess Guess, hint, secret int) entities.OutcomeKind {
	if guess == Exact {
		if secret == hint {
			return entities.OutcomeJackpot
		}
		return entities.OutcomeLose
	}
	if secret == hint {
		return entities.OutcomeTie
	}
	if (guess == Higher && secret > hint) || (guess == Lower && secret < hint) {
		return entities.OutcomeWin
	}
	return entities.OutcomeLose
}

// Game shows a hint and waits for a guess. A timeout forfeits the bet.
type Game struct{}

func New() *Game {
	return &Game{}
}

func (g *Game) ID() string    { return ID }
func (g *Game) Name() string  { return "High Low" }
func (g *Game) Emoji() string { return "🔢" }

func (g *Game) Play(ctx context.Context, s *play.Session) error {
	hint := s.Rand().IntRange(Min, Max)
	secret := s.Rand().IntRange(Min, Max)

	if err := s.Show(ctx, g.view(s, hint, 0)); err != nil {
		return err
	}

	guess := unknown
	for guess == unknown {
		action, err := s.Await(ctx, Timeout)
		if errors.Is(err, play.ErrTimeout) {
			return s.TimedOut(ctx, true)
		}
		if err != nil {
			return err
		}
		switch Guess(action.Name) {
		case Lower, Exact, Higher:
			guess = Guess(action.Name)
		}
	}

	reason := fmt.Sprintf("The number was %d.", secret)
	var outcome entities.Outcome
	switch Judge(guess, hint, secret) {
	case entities.OutcomeJackpot:
		outcome = entities.Jackpot(fmt.Sprintf("The number was exactly %d!", secret), s.Winnings(JackpotRate).Final)
	case entities.OutcomeWin:
		outcome = entities.Win(reason, s.Winnings(Rate).Final)
	case entities.OutcomeTie:
		outcome = entities.Tie(fmt.Sprintf("The number was %d, same as the hint.", secret))
	default:
		outcome = entities.Lose(reason)
	}
	return s.Finish(ctx, outcome, g.view(s, hint, secret))
}

func (g *Game) view(s *play.Session, hint, secret int) play.View {
	fields := []play.Field{
		s.BetField(),
		{Name: "Hint", Value: strconv.Itoa(hint), Inline: true},
	}
	if secret != 0 {
		fields = append(fields, play.Field{Name: "Number", Value: strconv.Itoa(secret), Inline: true})
	}

	return play.View{
		Title:       g.Emoji() + " " + g.Name(),
		Description: fmt.Sprintf("I picked a number from %d to %d. Is it lower or higher than the hint?", Min, Max),
		Color:       play.ColorNeutral,
		Fields:      fields,
		Rows: []play.Row{play.ButtonRow(
			play.Button{ID: s.ComponentID(string(Lower)), Label: "Lower", Emoji: "⬇️", Style: play.StylePrimary},
			play.Button{ID: s.ComponentID(string(Exact)), Label: "Jackpot", Emoji: "💰", Style: play.StyleSuccess},
			play.Button{ID: s.ComponentID(string(Higher)), Label: "Higher", Emoji: "⬆️", Style: play.StylePrimary},
		)},
	}
}
