// Package blackjack is a single player blackjack round against the dealer.
package blackjack

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
	ID      = "blackjack"
	Timeout = 30 * time.Second
)

// Rate pays between 1x and 1.5x the bet before multipliers
var Rate = payout.Rate{Base: 0.5, Lo: 0.5, Hi: 1.0}

const (
	actionHit     = "hit"
	actionStand   = "stand"
	actionForfeit = "forfeit"
)

const ReasonTwentyOne = "You got to 21."

// ShoeFunc builds the shoe for a round
type ShoeFunc func(src rng.Source) *entities.Shoe

// Game deals one hand per round. A timeout keeps the bet.
type Game struct {
	newShoe ShoeFunc
}

type Option func(*Game)

// WithShoe replaces the shuffled six deck shoe
func WithShoe(fn ShoeFunc) Option {
	return func(g *Game) {
		g.newShoe = fn
	}
}

func New(opts ...Option) *Game {
	g := &Game{
		newShoe: func(src rng.Source) *entities.Shoe {
			shoe := entities.NewShoe(StandardDecks)
			shoe.Shuffle(src)
			return shoe
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Game) ID() string    { return ID }
func (g *Game) Name() string  { return "Blackjack" }
func (g *Game) Emoji() string { return "🃏" }

type round struct {
	shoe   *entities.Shoe
	player Hand
	dealer Hand
	done   bool
}

func (r *round) draw(hand *Hand) error {
	card, err := r.shoe.Draw()
	if err != nil {
		return err
	}
	*hand = append(*hand, card)
	return nil
}

func (g *Game) Play(ctx context.Context, s *play.Session) error {
	r := &round{shoe: g.newShoe(s.Rand())}
	for i := 0; i < 2; i++ {
		if err := r.draw(&r.player); err != nil {
			return err
		}
		if err := r.draw(&r.dealer); err != nil {
			return err
		}
	}

	for {
		if r.player.Score() == Target {
			r.done = true
			return s.Finish(ctx, win(s, ReasonTwentyOne), g.view(s, r))
		}

		if err := s.Show(ctx, g.view(s, r)); err != nil {
			return err
		}

		action, err := s.Await(ctx, Timeout)
		if errors.Is(err, play.ErrTimeout) {
			r.done = true
			if err := s.Show(ctx, g.view(s, r)); err != nil {
				return err
			}
			return s.TimedOut(ctx, false)
		}
		if err != nil {
			return err
		}

		switch action.Name {
		case actionHit:
			if err := r.draw(&r.player); err != nil {
				return err
			}
			if r.player.IsBust() {
				r.done = true
				return s.Finish(ctx, entities.Lose(fmt.Sprintf("You busted with %d.", r.player.Score())), g.view(s, r))
			}
		case actionStand:
			for ShouldDealerHit(r.dealer) {
				if err := r.draw(&r.dealer); err != nil {
					return err
				}
			}
			r.done = true
			return s.Finish(ctx, settle(s, r.player, r.dealer), g.view(s, r))
		case actionForfeit:
			r.done = true
			s.Stop()
			return s.Finish(ctx, entities.Lose("You forfeited the hand."), g.view(s, r))
		}
	}
}

func win(s *play.Session, reason string) entities.Outcome {
	return entities.Win(reason, s.Winnings(Rate).Final)
}

// settle compares the hands once the dealer has finished drawing
func settle(s *play.Session, player, dealer Hand) entities.Outcome {
	switch CompareHands(player, dealer) {
	case 1:
		if dealer.IsBust() {
			return win(s, fmt.Sprintf("The dealer busted with %d.", dealer.Score()))
		}
		return win(s, fmt.Sprintf("You beat the dealer %d to %d.", player.Score(), dealer.Score()))
	case -1:
		return entities.Lose(fmt.Sprintf("The dealer beat you %d to %d.", dealer.Score(), player.Score()))
	}
	return entities.Tie(fmt.Sprintf("You and the dealer both have %d.", player.Score()))
}

func (g *Game) view(s *play.Session, r *round) play.View {
	dealer := fmt.Sprintf("%s ?? (%d)", r.dealer[0], CardValue(r.dealer[0]))
	if r.done {
		dealer = fmt.Sprintf("%s (%d)", r.dealer, r.dealer.Score())
	}

	return play.View{
		Title: g.Emoji() + " " + g.Name(),
		Color: play.ColorNeutral,
		Fields: []play.Field{
			{Name: "Your hand", Value: fmt.Sprintf("%s (%d)", r.player, r.player.Score()), Inline: true},
			{Name: "Dealer", Value: dealer, Inline: true},
			s.BetField(),
		},
		Rows: []play.Row{play.ButtonRow(
			play.Button{ID: s.ComponentID(actionHit), Label: "Hit", Style: play.StylePrimary},
			play.Button{ID: s.ComponentID(actionStand), Label: "Stand", Style: play.StyleSuccess},
			play.Button{ID: s.ComponentID(actionForfeit), Label: "Forfeit", Style: play.StyleDanger},
		)},
	}
}
