// Package diceroll pits two dice against the bot's two dice.
package diceroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/payout"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/fadedpez/coinpurse/pkg/services/play"
)

const (
	ID      = "diceroll"
	Timeout = 15 * time.Second
	Dice    = 2
	Sides   = 6
)

var Rate = payout.Rate{Base: 0.2, Lo: 0.3, Hi: 0.8}

const actionRoll = "roll"

var faces = [Sides + 1]string{"", "⚀", "⚁", "⚂", "⚃", "⚄", "⚅"}

// Roll is a set of dice values
type Roll []int

// Throw rolls Dice dice
func Throw(src rng.Source) Roll {
	r := make(Roll, Dice)
	for i := range r {
		r[i] = src.IntRange(1, Sides)
	}
	return r
}

func (r Roll) Sum() int {
	total := 0
	for _, v := range r {
		total += v
	}
	return total
}

func (r Roll) String() string {
	out := ""
	for i, v := range r {
		if i > 0 {
			out += " "
		}
		out += faces[v]
	}
	return fmt.Sprintf("%s (%d)", out, r.Sum())
}

// Judge compares the player's roll against the bot's
func Judge(player, bot Roll) entities.OutcomeKind {
	switch {
	case player.Sum() > bot.Sum():
		return entities.OutcomeWin
	case player.Sum() < bot.Sum():
		return entities.OutcomeLose
	}
	return entities.OutcomeTie
}

// Game waits for the player to roll. A timeout forfeits the bet.
type Game struct{}

func New() *Game {
	return &Game{}
}

func (g *Game) ID() string    { return ID }
func (g *Game) Name() string  { return "Dice Roll" }
func (g *Game) Emoji() string { return "🎲" }

func (g *Game) Play(ctx context.Context, s *play.Session) error {
	if err := s.Show(ctx, g.view(s, nil, nil)); err != nil {
		return err
	}

	for {
		action, err := s.Await(ctx, Timeout)
		if errors.Is(err, play.ErrTimeout) {
			return s.TimedOut(ctx, true)
		}
		if err != nil {
			return err
		}
		if action.Name == actionRoll {
			break
		}
	}

	player := Throw(s.Rand())
	bot := Throw(s.Rand())

	var outcome entities.Outcome
	switch Judge(player, bot) {
	case entities.OutcomeWin:
		outcome = entities.Win(fmt.Sprintf("You rolled %d against %d.", player.Sum(), bot.Sum()), s.Winnings(Rate).Final)
	case entities.OutcomeLose:
		outcome = entities.Lose(fmt.Sprintf("You rolled %d against %d.", player.Sum(), bot.Sum()))
	default:
		outcome = entities.Tie(fmt.Sprintf("Both rolled %d.", player.Sum()))
	}
	return s.Finish(ctx, outcome, g.view(s, player, bot))
}

func (g *Game) view(s *play.Session, player, bot Roll) play.View {
	fields := []play.Field{s.BetField()}
	if player != nil {
		fields = append(fields,
			play.Field{Name: "You", Value: player.String(), Inline: true},
			play.Field{Name: "Bot", Value: bot.String(), Inline: true},
		)
	}

	return play.View{
		Title:       g.Emoji() + " " + g.Name(),
		Description: "Roll two dice and beat the bot's total.",
		Color:       play.ColorNeutral,
		Fields:      fields,
		Rows: []play.Row{play.ButtonRow(
			play.Button{ID: s.ComponentID(actionRoll), Label: "Roll", Emoji: "🎲", Style: play.StylePrimary},
		)},
	}
}
