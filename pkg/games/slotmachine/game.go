// Package slotmachine spins three weighted reels.
package slotmachine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/payout"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/fadedpez/coinpurse/pkg/services/play"
)

const (
	ID      = "slotmachine"
	Timeout = 15 * time.Second
	Reels   = 3
)

var (
	Rate        = payout.Rate{Base: 0.4, Lo: 0.3, Hi: 0.8}
	JackpotRate = payout.Rate{Base: 3.0, Lo: 0.3, Hi: 0.8}
)

const actionSpin = "spin"

// Symbol is a reel face and its weight
type Symbol struct {
	Emoji  string
	Weight int
}

// Symbols from most to least common
var Symbols = []Symbol{
	{Emoji: "🍒", Weight: 5},
	{Emoji: "🍋", Weight: 4},
	{Emoji: "🍇", Weight: 3},
	{Emoji: "🔔", Weight: 2},
	{Emoji: "💎", Weight: 1},
}

func totalWeight() int {
	total := 0
	for _, sym := range Symbols {
		total += sym.Weight
	}
	return total
}

// Pick maps a roll in [1, total weight] onto a symbol
func Pick(roll int) string {
	for _, sym := range Symbols {
		if roll <= sym.Weight {
			return sym.Emoji
		}
		roll -= sym.Weight
	}
	return Symbols[len(Symbols)-1].Emoji
}

// Line is the result of one spin
type Line []string

func Spin(src rng.Source) Line {
	total := totalWeight()
	line := make(Line, Reels)
	for i := range line {
		line[i] = Pick(src.IntRange(1, total))
	}
	return line
}

// Matches returns the size of the largest group of equal symbols
func (l Line) Matches() int {
	best := 0
	counts := make(map[string]int, len(l))
	for _, sym := range l {
		counts[sym]++
		if counts[sym] > best {
			best = counts[sym]
		}
	}
	return best
}

func (l Line) String() string {
	return strings.Join(l, " | ")
}

// Judge classifies a line: all reels equal is a jackpot, any two equal a win
func Judge(l Line) entities.OutcomeKind {
	switch l.Matches() {
	case Reels:
		return entities.OutcomeJackpot
	case 2:
		return entities.OutcomeWin
	}
	return entities.OutcomeLose
}

// Game waits for a spin. A timeout keeps the bet.
type Game struct{}

func New() *Game {
	return &Game{}
}

func (g *Game) ID() string    { return ID }
func (g *Game) Name() string  { return "Slot Machine" }
func (g *Game) Emoji() string { return "🎰" }

func (g *Game) Play(ctx context.Context, s *play.Session) error {
	if err := s.Show(ctx, g.view(s, nil)); err != nil {
		return err
	}

	for {
		action, err := s.Await(ctx, Timeout)
		if errors.Is(err, play.ErrTimeout) {
			return s.TimedOut(ctx, false)
		}
		if err != nil {
			return err
		}
		if action.Name == actionSpin {
			break
		}
	}

	line := Spin(s.Rand())

	var outcome entities.Outcome
	switch Judge(line) {
	case entities.OutcomeJackpot:
		outcome = entities.Jackpot(fmt.Sprintf("Three %s in a row!", line[0]), s.Winnings(JackpotRate).Final)
	case entities.OutcomeWin:
		outcome = entities.Win("Two of a kind.", s.Winnings(Rate).Final)
	default:
		outcome = entities.Lose("Nothing lined up.")
	}
	return s.Finish(ctx, outcome, g.view(s, line))
}

func (g *Game) view(s *play.Session, line Line) play.View {
	if line == nil {
		line = Line{"❔", "❔", "❔"}
	}

	return play.View{
		Title:       g.Emoji() + " " + g.Name(),
		Description: line.String(),
		Color:       play.ColorNeutral,
		Fields:      []play.Field{s.BetField()},
		Rows: []play.Row{play.ButtonRow(
			play.Button{ID: s.ComponentID(actionSpin), Label: "Spin", Emoji: "🎰", Style: play.StyleSuccess},
		)},
	}
}
