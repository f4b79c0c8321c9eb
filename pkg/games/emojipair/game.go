// Package emojipair is a two tile memory game on a 3x3 board.
package emojipair

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/payout"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/fadedpez/coinpurse/pkg/services/play"
)

const (
	ID      = "emojipair"
	Timeout = 30 * time.Second

	BoardSize = 9
	Columns   = 3
	Diamond   = "💎"
	Hidden    = "❔"
)

var (
	Rate        = payout.Rate{Base: 0.25, Lo: 0.25, Hi: 0.75}
	DiamondRate = payout.Rate{Base: 1.5, Lo: 0.25, Hi: 0.75}
)

// Symbols is the pool a board is drawn from
var Symbols = []string{Diamond, "🍒", "🍋", "🍇", "🔔"}

const tilePrefix = "tile-"

// Board holds four pairs and one single
type Board []string

// Deal picks five symbols, pairs the first four and shuffles the tiles
func Deal(src rng.Source) Board {
	pool := append([]string(nil), Symbols...)
	src.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	board := make(Board, 0, BoardSize)
	for _, sym := range pool[:4] {
		board = append(board, sym, sym)
	}
	board = append(board, pool[4])

	src.Shuffle(len(board), func(i, j int) { board[i], board[j] = board[j], board[i] })
	return board
}

// Judge classifies the two revealed tiles
func Judge(a, b string) entities.OutcomeKind {
	switch {
	case a == b && a == Diamond:
		return entities.OutcomeJackpot
	case a == b:
		return entities.OutcomeWin
	}
	return entities.OutcomeLose
}

// Game waits for two tile reveals. A timeout keeps the bet.
type Game struct{}

func New() *Game {
	return &Game{}
}

func (g *Game) ID() string    { return ID }
func (g *Game) Name() string  { return "Emoji Pair" }
func (g *Game) Emoji() string { return "🧩" }

func (g *Game) Play(ctx context.Context, s *play.Session) error {
	board := Deal(s.Rand())
	revealed := make([]int, 0, 2)

	for len(revealed) < 2 {
		if err := s.Show(ctx, g.view(s, board, revealed, false)); err != nil {
			return err
		}

		action, err := s.Await(ctx, Timeout)
		if errors.Is(err, play.ErrTimeout) {
			return s.TimedOut(ctx, false)
		}
		if err != nil {
			return err
		}

		tile, ok := parseTile(action.Name)
		if !ok || contains(revealed, tile) {
			continue
		}
		revealed = append(revealed, tile)
	}

	a, b := board[revealed[0]], board[revealed[1]]
	var outcome entities.Outcome
	switch Judge(a, b) {
	case entities.OutcomeJackpot:
		outcome = entities.Jackpot("You matched the diamonds!", s.Winnings(DiamondRate).Final)
	case entities.OutcomeWin:
		outcome = entities.Win(fmt.Sprintf("You matched %s %s.", a, b), s.Winnings(Rate).Final)
	default:
		outcome = entities.Lose(fmt.Sprintf("%s and %s don't match.", a, b))
	}
	return s.Finish(ctx, outcome, g.view(s, board, revealed, true))
}

func parseTile(name string) (int, bool) {
	if !strings.HasPrefix(name, tilePrefix) {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimPrefix(name, tilePrefix))
	if err != nil || i < 0 || i >= BoardSize {
		return 0, false
	}
	return i, true
}

func contains(tiles []int, tile int) bool {
	for _, t := range tiles {
		if t == tile {
			return true
		}
	}
	return false
}

func (g *Game) view(s *play.Session, board Board, revealed []int, showAll bool) play.View {
	rows := make([]play.Row, 0, BoardSize/Columns)
	for r := 0; r < BoardSize/Columns; r++ {
		buttons := make([]play.Button, 0, Columns)
		for c := 0; c < Columns; c++ {
			i := r*Columns + c
			open := contains(revealed, i)
			emoji := Hidden
			if open || showAll {
				emoji = board[i]
			}
			style := play.StyleSecondary
			if open {
				style = play.StylePrimary
			}
			buttons = append(buttons, play.Button{
				ID:       s.ComponentID(tilePrefix + strconv.Itoa(i)),
				Emoji:    emoji,
				Style:    style,
				Disabled: open,
			})
		}
		rows = append(rows, play.ButtonRow(buttons...))
	}

	return play.View{
		Title:       g.Emoji() + " " + g.Name(),
		Description: "Flip two tiles. A matching pair wins, a diamond pair hits the jackpot.",
		Color:       play.ColorNeutral,
		Fields:      []play.Field{s.BetField()},
		Rows:        rows,
	}
}
