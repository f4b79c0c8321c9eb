package economy

import (
	"github.com/fadedpez/coinpurse/internal/types"
	"github.com/fadedpez/coinpurse/pkg/entities"
)

func (s *ServiceTestSuite) TestPartyInviteAndAccept() {
	inviter, err := s.service.Invite(s.ctx, "user-1", "user-2")
	s.Require().NoError(err)
	ref, ok := inviter.Party.Find("user-2")
	s.Require().True(ok)
	s.False(ref.Accepted)
	s.Equal(epoch, ref.InvitedAt)
	s.Zero(inviter.EffectiveMultiplier(epoch))

	member, err := s.service.Accept(s.ctx, "user-2", "user-1")
	s.Require().NoError(err)
	s.Equal(entities.PartyBonus, member.EffectiveMultiplier(epoch))

	inviter, err = s.repo.Fetch(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(entities.PartyBonus, inviter.EffectiveMultiplier(epoch))
}

func (s *ServiceTestSuite) TestPartyRejections() {
	_, err := s.service.Invite(s.ctx, "user-1", "user-1")
	s.True(types.IsGameError(err, types.ErrInvalidArgument))

	_, err = s.service.Invite(s.ctx, "user-1", "user-2")
	s.Require().NoError(err)
	_, err = s.service.Invite(s.ctx, "user-1", "user-2")
	s.True(types.IsGameError(err, types.ErrInvalidArgument))
	s.Equal("That player is already in your party.", types.UserMessage(err))

	_, err = s.service.Accept(s.ctx, "user-3", "user-1")
	s.Equal("That player hasn't invited you.", types.UserMessage(err))

	_, err = s.service.Accept(s.ctx, "user-2", "user-1")
	s.Require().NoError(err)
	_, err = s.service.Accept(s.ctx, "user-2", "user-1")
	s.True(types.IsGameError(err, types.ErrInvalidArgument), "an invite is accepted once")

	_, err = s.service.Leave(s.ctx, "user-1", "user-3")
	s.Equal("That player isn't in your party.", types.UserMessage(err))
}

func (s *ServiceTestSuite) TestPartyLeaveRemovesBothSides() {
	_, err := s.service.Invite(s.ctx, "user-1", "user-2")
	s.Require().NoError(err)
	_, err = s.service.Accept(s.ctx, "user-2", "user-1")
	s.Require().NoError(err)

	member, err := s.service.Leave(s.ctx, "user-2", "user-1")
	s.Require().NoError(err)
	s.Empty(member.Party)

	inviter, err := s.repo.Fetch(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Empty(inviter.Party)
	s.Zero(inviter.EffectiveMultiplier(epoch))
}

func (s *ServiceTestSuite) TestPartyLeaveWithPendingInvite() {
	_, err := s.service.Invite(s.ctx, "user-1", "user-2")
	s.Require().NoError(err)

	inviter, err := s.service.Leave(s.ctx, "user-1", "user-2")
	s.Require().NoError(err)
	s.Empty(inviter.Party)
}
