package economy

import (
	"context"
	"errors"

	"github.com/fadedpez/coinpurse/internal/types"
	"github.com/fadedpez/coinpurse/pkg/entities"
)

// Invite adds a pending party invite for memberID to the inviter's party
func (s *Service) Invite(ctx context.Context, userID, memberID string) (*entities.PlayerEconomy, error) {
	if userID == memberID {
		return nil, types.NewGameError(types.ErrInvalidArgument, "You can't invite yourself.")
	}

	return s.update(ctx, userID, "party invite", func(player *entities.PlayerEconomy) error {
		if err := player.Party.Invite(memberID, s.clock.Now()); errors.Is(err, entities.ErrAlreadyInParty) {
			return types.NewGameError(types.ErrInvalidArgument, "That player is already in your party.")
		}
		return nil
	})
}

// Accept joins inviterID's party. Both players count each other as accepted
// members afterwards.
func (s *Service) Accept(ctx context.Context, userID, inviterID string) (*entities.PlayerEconomy, error) {
	_, err := s.update(ctx, inviterID, "party accept", func(inviter *entities.PlayerEconomy) error {
		ref, ok := inviter.Party.Find(userID)
		if !ok || ref.Accepted {
			return types.NewGameError(types.ErrInvalidArgument, "That player hasn't invited you.")
		}
		return inviter.Party.Accept(userID)
	})
	if err != nil {
		return nil, err
	}

	return s.update(ctx, userID, "party join", func(player *entities.PlayerEconomy) error {
		if _, ok := player.Party.Find(inviterID); !ok {
			if err := player.Party.Invite(inviterID, s.clock.Now()); err != nil {
				return err
			}
		}
		return player.Party.Accept(inviterID)
	})
}

// Leave removes memberID from the player's party and the player from memberID's
func (s *Service) Leave(ctx context.Context, userID, memberID string) (*entities.PlayerEconomy, error) {
	player, err := s.update(ctx, userID, "party leave", func(player *entities.PlayerEconomy) error {
		if errors.Is(player.Party.Leave(memberID), entities.ErrPartyMemberNotFound) {
			return types.NewGameError(types.ErrInvalidArgument, "That player isn't in your party.")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// the other side may never have accepted
	if _, err := s.update(ctx, memberID, "party leave", func(member *entities.PlayerEconomy) error {
		_ = member.Party.Leave(userID)
		return nil
	}); err != nil {
		return nil, err
	}
	return player, nil
}
