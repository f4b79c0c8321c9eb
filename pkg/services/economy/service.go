// Package economy holds the wallet, bank, bet and energy commands outside of games.
package economy

import (
	"context"
	"fmt"

	"github.com/fadedpez/coinpurse/internal/types"
	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/format"
	economyRepo "github.com/fadedpez/coinpurse/pkg/repositories/economy"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/rs/zerolog"
)

// Service handles economy business logic
type Service struct {
	repo  economyRepo.Updater
	clock rng.Clock
	log   zerolog.Logger
}

// NewService creates a new economy service. repo must be the same Updater the
// game sessions write through.
func NewService(repo economyRepo.Updater, clock rng.Clock, log zerolog.Logger) *Service {
	return &Service{
		repo:  repo,
		clock: clock,
		log:   log.With().Str("service", "economy").Logger(),
	}
}

// Balance returns the player's document, creating it on first use
func (s *Service) Balance(ctx context.Context, userID string) (*entities.PlayerEconomy, error) {
	return s.repo.Fetch(ctx, userID)
}

// SetBet changes the wager used by every game
func (s *Service) SetBet(ctx context.Context, userID string, amount int64) (*entities.PlayerEconomy, error) {
	return s.update(ctx, userID, "set bet", func(player *entities.PlayerEconomy) error {
		min, max := player.MinBet(), player.MaxBet()
		switch {
		case amount < min:
			return types.NewGameError(types.ErrInvalidBet,
				fmt.Sprintf("Your bet must be at least %s coins.", format.Coins(min)))
		case amount > max:
			return types.NewGameError(types.ErrInvalidBet,
				fmt.Sprintf("Your bet can't be more than %s coins.", format.Coins(max)))
		case amount > player.Wallet.Value:
			return types.NewGameError(types.ErrInsufficientFunds,
				fmt.Sprintf("You only have %s coins in your wallet.", format.Coins(player.Wallet.Value)))
		}

		player.Bet.SetValue(amount)
		return nil
	})
}

// Recharge spends one energy to open a new play window
func (s *Service) Recharge(ctx context.Context, userID string) (*entities.PlayerEconomy, error) {
	return s.update(ctx, userID, "recharge", func(player *entities.PlayerEconomy) error {
		if player.Energy.Energy() < 1 {
			return types.NewGameError(types.ErrNoEnergy, "You don't have any energy left. Win some games to earn stars.")
		}

		player.Energy.SubEnergy(1)
		player.Energy.Recharge(s.clock.Now(), player.Upgrades.Tier)
		return nil
	})
}

// Deposit moves coins from the wallet into the bank
func (s *Service) Deposit(ctx context.Context, userID string, amount int64) (*entities.PlayerEconomy, error) {
	if amount <= 0 {
		return nil, types.NewGameError(types.ErrInvalidArgument, "You have to deposit at least 1 coin.")
	}

	return s.update(ctx, userID, "deposit", func(player *entities.PlayerEconomy) error {
		if amount > player.Wallet.Value {
			return types.NewGameError(types.ErrInsufficientFunds,
				fmt.Sprintf("You only have %s coins in your wallet.", format.Coins(player.Wallet.Value)))
		}
		if room := player.Bank.Room(); amount > room {
			if room == 0 {
				return types.NewGameError(types.ErrBankFull, "Your bank is full.")
			}
			return types.NewGameError(types.ErrBankFull,
				fmt.Sprintf("Your bank only has room for %s more coins.", format.Coins(room)))
		}

		player.Wallet.SubValue(amount)
		player.Bank.AddValue(amount)
		return nil
	})
}

// Withdraw moves coins from the bank into the wallet
func (s *Service) Withdraw(ctx context.Context, userID string, amount int64) (*entities.PlayerEconomy, error) {
	if amount <= 0 {
		return nil, types.NewGameError(types.ErrInvalidArgument, "You have to withdraw at least 1 coin.")
	}

	return s.update(ctx, userID, "withdraw", func(player *entities.PlayerEconomy) error {
		if amount > player.Bank.Value {
			return types.NewGameError(types.ErrInsufficientFunds,
				fmt.Sprintf("You only have %s coins in your bank.", format.Coins(player.Bank.Value)))
		}
		if max := player.Wallet.MaxValue(player.Upgrades.Mastery); player.Wallet.Value+amount > max {
			return types.NewGameError(types.ErrWalletFull,
				fmt.Sprintf("Your wallet can't hold more than %s coins.", format.Coins(max)))
		}

		player.Bank.SubValue(amount)
		player.Wallet.AddValue(amount)
		return nil
	})
}

// update runs change against the stored document. Rejections from change come
// back as they are, storage failures as a database error.
func (s *Service) update(ctx context.Context, userID, op string, change func(player *entities.PlayerEconomy) error) (*entities.PlayerEconomy, error) {
	player, err := s.repo.Update(ctx, userID, func(player *entities.PlayerEconomy) error {
		if err := change(player); err != nil {
			return err
		}
		player.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		var gameErr *types.GameError
		if types.As(err, &gameErr) {
			return nil, err
		}
		return nil, types.WrapError(types.ErrDatabaseError, "Something went wrong saving your wallet.", err)
	}

	s.log.Debug().
		Str("user", player.UserID).
		Str("op", op).
		Int64("wallet", player.Wallet.Value).
		Int64("bank", player.Bank.Value).
		Msg("Economy updated")
	return player, nil
}
