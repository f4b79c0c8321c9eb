package economy

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fadedpez/coinpurse/internal/types"
	"github.com/fadedpez/coinpurse/pkg/entities"
	economyRepo "github.com/fadedpez/coinpurse/pkg/repositories/economy"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var epoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

type ServiceTestSuite struct {
	suite.Suite
	repo    *economyRepo.LockedRepository
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	clock := &rng.FixedClock{T: epoch}
	s.repo = economyRepo.NewLockedRepository(economyRepo.NewMemoryRepository(clock))
	s.service = NewService(s.repo, clock, zerolog.Nop())
	s.ctx = context.Background()
}

func (s *ServiceTestSuite) givenPlayer(mutate func(p *entities.PlayerEconomy)) {
	p, err := s.repo.Fetch(s.ctx, "user-1")
	s.Require().NoError(err)
	mutate(p)
	s.Require().NoError(s.repo.Save(s.ctx, p))
}

func (s *ServiceTestSuite) TestSetBetBoundaries() {
	// Setup: tier 0 mastery 0 gives [1,000, 1,000,000]
	s.givenPlayer(func(p *entities.PlayerEconomy) { p.Wallet.SetValue(2_000_000) })

	testCases := []struct {
		name   string
		amount int64
		code   types.ErrorCode
	}{
		{name: "at min", amount: 1_000},
		{name: "below min", amount: 999, code: types.ErrInvalidBet},
		{name: "at max", amount: 1_000_000},
		{name: "above max", amount: 1_000_001, code: types.ErrInvalidBet},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// Execute
			player, err := s.service.SetBet(s.ctx, "user-1", tc.amount)

			// Assert
			if tc.code != "" {
				s.True(types.IsGameError(err, tc.code), "got %v", err)
				return
			}
			s.Require().NoError(err)
			s.Equal(tc.amount, player.Bet.Value)
		})
	}
}

func (s *ServiceTestSuite) TestSetBetAboveWallet() {
	// Setup
	s.givenPlayer(func(p *entities.PlayerEconomy) { p.Wallet.SetValue(5_000) })

	// Execute
	_, err := s.service.SetBet(s.ctx, "user-1", 5_001)

	// Assert
	s.True(types.IsGameError(err, types.ErrInsufficientFunds))
	s.Equal("You only have 5,000 coins in your wallet.", types.UserMessage(err))

	player, err := s.service.Balance(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(entities.BetDefault, player.Bet.Value, "rejected bet is not saved")
}

func (s *ServiceTestSuite) TestSetBetScalesWithUpgrades() {
	// Setup: tier 2 mastery 1 gives max 2,500,000 and min 2,500
	s.givenPlayer(func(p *entities.PlayerEconomy) {
		p.Upgrades = entities.Upgrades{Tier: 2, Mastery: 1}
		p.Wallet.SetValue(10_000_000)
	})

	_, err := s.service.SetBet(s.ctx, "user-1", 2_499)
	s.True(types.IsGameError(err, types.ErrInvalidBet))

	player, err := s.service.SetBet(s.ctx, "user-1", 2_500_000)
	s.Require().NoError(err)
	s.Equal(int64(2_500_000), player.Bet.Value)
}

func (s *ServiceTestSuite) TestRecharge() {
	// Execute: new players have 5 energy and an expired window
	player, err := s.service.Recharge(s.ctx, "user-1")

	// Assert
	s.Require().NoError(err)
	s.Equal(int64(4), player.Energy.Energy())
	s.False(player.Energy.IsExpired(epoch))
	s.Equal(epoch.Add(60*time.Minute), player.Energy.Expire)
}

func (s *ServiceTestSuite) TestRechargeWithoutEnergy() {
	// Setup: 99 stars is less than one energy
	s.givenPlayer(func(p *entities.PlayerEconomy) { p.Energy.SetValue(99) })

	// Execute
	_, err := s.service.Recharge(s.ctx, "user-1")

	// Assert
	s.True(types.IsGameError(err, types.ErrNoEnergy))
}

func (s *ServiceTestSuite) TestDeposit() {
	player, err := s.service.Deposit(s.ctx, "user-1", 4_000)

	s.Require().NoError(err)
	s.Equal(int64(6_000), player.Wallet.Value)
	s.Equal(int64(4_000), player.Bank.Value)
}

func (s *ServiceTestSuite) TestDepositRejections() {
	s.givenPlayer(func(p *entities.PlayerEconomy) {
		p.Wallet.SetValue(500_000)
		p.Bank.SetValue(99_000)
	})

	testCases := []struct {
		name   string
		amount int64
		code   types.ErrorCode
	}{
		{name: "zero", amount: 0, code: types.ErrInvalidArgument},
		{name: "more than wallet", amount: 500_001, code: types.ErrInsufficientFunds},
		{name: "more than bank room", amount: 1_001, code: types.ErrBankFull},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.service.Deposit(s.ctx, "user-1", tc.amount)
			s.True(types.IsGameError(err, tc.code), "got %v", err)
		})
	}
}

func (s *ServiceTestSuite) TestWithdraw() {
	s.givenPlayer(func(p *entities.PlayerEconomy) { p.Bank.SetValue(3_000) })

	player, err := s.service.Withdraw(s.ctx, "user-1", 3_000)

	s.Require().NoError(err)
	s.Equal(int64(13_000), player.Wallet.Value)
	s.Equal(int64(0), player.Bank.Value)
}

func (s *ServiceTestSuite) TestWithdrawRejections() {
	s.givenPlayer(func(p *entities.PlayerEconomy) {
		p.Wallet.SetValue(entities.WalletBaseLimit - 10)
		p.Bank.SetValue(100)
	})

	_, err := s.service.Withdraw(s.ctx, "user-1", 101)
	s.True(types.IsGameError(err, types.ErrInsufficientFunds))

	_, err = s.service.Withdraw(s.ctx, "user-1", 11)
	s.True(types.IsGameError(err, types.ErrWalletFull))

	_, err = s.service.Withdraw(s.ctx, "user-1", -5)
	s.True(types.IsGameError(err, types.ErrInvalidArgument))
}

func (s *ServiceTestSuite) TestConcurrentDepositsAreAllKept() {
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.Deposit(s.ctx, "user-1", 10)
			s.NoError(err)
		}()
	}
	wg.Wait()

	player, err := s.service.Balance(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(int64(1_000), player.Bank.Value)
	s.Equal(entities.WalletDefault-1_000, player.Wallet.Value)
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Fetch(ctx context.Context, userID string) (*entities.PlayerEconomy, error) {
	args := m.Called(ctx, userID)
	if p := args.Get(0); p != nil {
		return p.(*entities.PlayerEconomy), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Save(ctx context.Context, player *entities.PlayerEconomy) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func TestSaveFailureIsWrapped(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Fetch", mock.Anything, "user-1").Return(entities.NewPlayerEconomy("user-1"), nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	service := NewService(economyRepo.NewLockedRepository(repo), &rng.FixedClock{T: epoch}, zerolog.Nop())

	_, err := service.Deposit(context.Background(), "user-1", 10)

	require.Error(t, err)
	assert.True(t, types.IsGameError(err, types.ErrDatabaseError))
	assert.ErrorContains(t, err, "disk full")
	repo.AssertExpectations(t)
}
