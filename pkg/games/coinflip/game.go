// Package coinflip is a call-the-coin game.
package coinflip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/payout"
	"github.com/fadedpez/coinpurse/pkg/services/play"
)

const (
	ID      = "coinflip"
	Timeout = 15 * time.Second
)

var Rate = payout.Rate{Base: 0.1, Lo: 0.4, Hi: 0.9}

// Side is a face of the coin
type Side string

const (
	Heads Side = "heads"
	Tails Side = "tails"
)

// Flip tosses the coin. IntRange 0 is heads.
func Flip(roll int) Side {
	if roll == 0 {
		return Heads
	}
	return Tails
}

// Game asks the player to call heads or tails. A timeout keeps the bet.
type Game struct{}

func New() *Game {
	return &Game{}
}

func (g *Game) ID() string    { return ID }
func (g *Game) Name() string  { return "Coin Flip" }
func (g *Game) Emoji() string { return "🪙" }

func (g *Game) Play(ctx context.Context, s *play.Session) error {
	pick := play.Unpicked[Side]()

	for !pick.IsPicked() {
		if err := s.Show(ctx, g.view(s, pick, "")); err != nil {
			return err
		}

		action, err := s.Await(ctx, Timeout)
		if errors.Is(err, play.ErrTimeout) {
			return s.TimedOut(ctx, false)
		}
		if err != nil {
			return err
		}

		switch Side(action.Name) {
		case Heads, Tails:
			pick = play.Picked(Side(action.Name))
		}
	}

	called, _ := pick.Get()
	landed := Flip(s.Rand().IntRange(0, 1))

	outcome := entities.Lose(fmt.Sprintf("The coin landed on %s.", landed))
	if landed == called {
		outcome = entities.Win(fmt.Sprintf("The coin landed on %s.", landed), s.Winnings(Rate).Final)
	}
	return s.Finish(ctx, outcome, g.view(s, pick, landed))
}

func (g *Game) view(s *play.Session, pick play.Choice[Side], landed Side) play.View {
	call := "Heads or tails?"
	if side, ok := pick.Get(); ok {
		call = fmt.Sprintf("You called **%s**.", side)
	}
	fields := []play.Field{s.BetField()}
	if landed != "" {
		fields = append(fields, play.Field{Name: "Coin", Value: string(landed), Inline: true})
	}

	return play.View{
		Title:       g.Emoji() + " " + g.Name(),
		Description: call,
		Color:       play.ColorNeutral,
		Fields:      fields,
		Rows: []play.Row{play.ButtonRow(
			play.Button{ID: s.ComponentID(string(Heads)), Label: "Heads", Style: play.StylePrimary},
			play.Button{ID: s.ComponentID(string(Tails)), Label: "Tails", Style: play.StyleSecondary},
		)},
	}
}
