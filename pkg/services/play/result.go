package play

import (
	"context"
	"fmt"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/format"
)

// OutcomeColor picks the embed colour for an outcome
func OutcomeColor(kind entities.OutcomeKind) int {
	switch kind {
	case entities.OutcomeWin, entities.OutcomeJackpot:
		return ColorWin
	case entities.OutcomeLose:
		return ColorLose
	case entities.OutcomeTie:
		return ColorTie
	}
	return ColorIdle
}

// Summary is the one line result shown under a resolved round
func Summary(o entities.Outcome) string {
	switch o.Kind {
	case entities.OutcomeWin:
		return fmt.Sprintf("**Win** %s %s coins", o.Reason, format.Signed(o.Payoff))
	case entities.OutcomeJackpot:
		return fmt.Sprintf("**Jackpot!** %s %s coins", o.Reason, format.Signed(o.Payoff))
	case entities.OutcomeLose:
		return fmt.Sprintf("**Lose** %s %s coins", o.Reason, format.Signed(-o.Payoff))
	case entities.OutcomeTie:
		return fmt.Sprintf("**Tie** %s Your bet was returned.", o.Reason)
	}
	return o.Reason
}

// Finish resolves the round with outcome and renders view as the final state
func (s *Session) Finish(ctx context.Context, outcome entities.Outcome, view View) error {
	if err := s.Resolve(ctx, outcome); err != nil {
		return err
	}
	resolved, _ := s.Outcome()

	view = view.Disabled()
	view.Color = OutcomeColor(resolved.Kind)
	view.Fields = append(view.Fields, Field{Name: "Result", Value: Summary(resolved)})
	view.Footer = fmt.Sprintf("Wallet: %s coins", format.Coins(s.Player.Wallet.Value))
	return s.Show(ctx, view)
}

// BetField shows the wager of the current round
func (s *Session) BetField() Field {
	return Field{Name: "Bet", Value: format.Coins(s.Player.Bet.Value) + " coins", Inline: true}
}
