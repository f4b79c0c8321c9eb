package play_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/payout"
	economyRepo "github.com/fadedpez/coinpurse/pkg/repositories/economy"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/fadedpez/coinpurse/pkg/services/economy"
	"github.com/fadedpez/coinpurse/pkg/services/play"
	"github.com/fadedpez/coinpurse/pkg/services/play/playtest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGame resolves every round with the next queued outcome. With await set
// it renders a single "go" button and waits for it first.
type stubGame struct {
	outcomes []entities.Outcome
	await    bool
	forfeit  bool
	stop     bool
	plays    int
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Name() string  { return "Stub" }
func (g *stubGame) Emoji() string { return "🧪" }

func (g *stubGame) Play(ctx context.Context, s *play.Session) error {
	g.plays++
	view := play.View{
		Title: "Stub",
		Rows:  []play.Row{play.ButtonRow(play.Button{ID: s.ComponentID("go"), Label: "Go"})},
	}
	if err := s.Show(ctx, view); err != nil {
		return err
	}

	if g.await {
		if _, err := s.Await(ctx, 5*time.Second); err != nil {
			if errors.Is(err, play.ErrTimeout) {
				return s.TimedOut(ctx, g.forfeit)
			}
			return err
		}
	}

	outcome := g.outcomes[0]
	if len(g.outcomes) > 1 {
		g.outcomes = g.outcomes[1:]
	}
	if g.stop {
		s.Stop()
	}
	return s.Finish(ctx, outcome, view)
}

func TestCheckGuardOrder(t *testing.T) {
	testCases := []struct {
		name   string
		setup  func(p *entities.PlayerEconomy, clock *rng.FixedClock)
		force  bool
		reason string
	}{
		{
			name: "forced end wins over every other guard",
			setup: func(p *entities.PlayerEconomy, clock *rng.FixedClock) {
				p.Wallet.SetValue(0)
				clock.Advance(24 * time.Hour)
			},
			force:  true,
			reason: play.ReasonEnded,
		},
		{
			name: "expired energy before funds",
			setup: func(p *entities.PlayerEconomy, clock *rng.FixedClock) {
				p.Wallet.SetValue(0)
				clock.Advance(61 * time.Minute)
			},
			reason: play.ReasonEnergyExpired,
		},
		{
			name: "insufficient funds",
			setup: func(p *entities.PlayerEconomy, clock *rng.FixedClock) {
				p.Wallet.SetValue(0)
				p.Bet.SetValue(100)
			},
			reason: play.ReasonInsufficientFunds,
		},
		{
			name: "wallet at capacity",
			setup: func(p *entities.PlayerEconomy, clock *rng.FixedClock) {
				p.Wallet.SetValue(entities.WalletBaseLimit)
			},
			reason: play.ReasonWalletAtCapacity,
		},
		{
			name:  "all guards pass",
			setup: func(p *entities.PlayerEconomy, clock *rng.FixedClock) {},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			player := playtest.NewPlayer("user-1", 10_000, 1_000)
			h := playtest.NewHarness(&stubGame{}, player, rng.NewMathSource(1))
			tc.setup(player, h.Clock)

			err := h.Session.Check(tc.force)
			if tc.reason == "" {
				assert.NoError(t, err)
				return
			}

			var failure *play.GuardFailure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, tc.reason, failure.Reason)
		})
	}
}

func TestRunFailsGuardBeforePlaying(t *testing.T) {
	game := &stubGame{outcomes: []entities.Outcome{entities.Win("won", 100)}}
	player := playtest.NewPlayer("user-1", 0, 100)
	h := playtest.NewHarness(game, player, rng.NewMathSource(1))

	err := h.Session.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, game.plays)
	assert.Equal(t, play.StateTerminated, h.Session.State())
	assert.Equal(t, 0, h.Store.Saves)

	view := h.Responder.LastView()
	assert.Contains(t, view.Description, "enough coins")
}

func TestRunReplaysUntilGuardFails(t *testing.T) {
	game := &stubGame{outcomes: []entities.Outcome{entities.Lose("lost")}}
	player := playtest.NewPlayer("user-1", 2_500, 1_000)
	h := playtest.NewHarness(game, player, rng.NewMathSource(1))

	err := h.Session.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, game.plays)
	assert.Equal(t, int64(500), player.Wallet.Value)
	assert.Equal(t, 2, h.Store.Saves)
	assert.Len(t, h.Recorder.Rounds, 2)

	view := h.Responder.LastView()
	assert.Contains(t, view.Footer, "enough coins")
	for _, row := range view.Rows {
		for _, b := range row.Buttons {
			assert.True(t, b.Disabled)
		}
	}
}

func TestRunStopsWhenGameStops(t *testing.T) {
	game := &stubGame{outcomes: []entities.Outcome{entities.Tie("even")}, stop: true}
	player := playtest.NewPlayer("user-1", 10_000, 1_000)
	h := playtest.NewHarness(game, player, rng.NewMathSource(1))

	err := h.Session.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, game.plays)
	assert.Equal(t, play.StateTerminated, h.Session.State())
	assert.Contains(t, h.Responder.LastView().Fields[0].Value, "Tie")
}

func TestResolveMutations(t *testing.T) {
	testCases := []struct {
		name    string
		outcome entities.Outcome
		wallet  int64
		space   int64
		stars   int64
		check   func(t *testing.T, stats entities.GameStats)
	}{
		{
			name:    "win",
			outcome: entities.Win("won", 750),
			wallet:  10_750,
			space:   100_750,
			stars:   505,
			check: func(t *testing.T, stats entities.GameStats) {
				assert.Equal(t, int64(1), stats.Wins.Count)
				assert.Equal(t, int64(750), stats.Wins.Coins)
				assert.Equal(t, int64(750), stats.Wins.Highest)
			},
		},
		{
			name:    "jackpot pays like a win",
			outcome: entities.Jackpot("jackpot", 3_000),
			wallet:  13_000,
			space:   103_000,
			stars:   505,
			check: func(t *testing.T, stats entities.GameStats) {
				assert.Equal(t, int64(1), stats.Wins.Count)
			},
		},
		{
			name:    "lose",
			outcome: entities.Lose("lost"),
			wallet:  9_000,
			space:   100_000,
			stars:   495,
			check: func(t *testing.T, stats entities.GameStats) {
				assert.Equal(t, int64(1), stats.Loses.Count)
				assert.Equal(t, int64(1_000), stats.Loses.Coins)
			},
		},
		{
			name:    "tie",
			outcome: entities.Tie("even"),
			wallet:  10_000,
			space:   100_000,
			stars:   500,
			check: func(t *testing.T, stats entities.GameStats) {
				assert.Equal(t, int64(1), stats.Ties.Count)
			},
		},
		{
			name:    "forfeit",
			outcome: entities.Idle("slow", true),
			wallet:  9_000,
			space:   100_000,
			stars:   500,
			check: func(t *testing.T, stats entities.GameStats) {
				assert.Equal(t, int64(1), stats.Loses.Count)
			},
		},
		{
			name:    "timeout keeps the bet",
			outcome: entities.Idle("slow", false),
			wallet:  10_000,
			space:   100_000,
			stars:   500,
			check: func(t *testing.T, stats entities.GameStats) {
				assert.Equal(t, int64(0), stats.Played())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			player := playtest.NewPlayer("user-1", 10_000, 1_000)
			h := playtest.NewHarness(&stubGame{}, player, rng.NewMathSource(1))

			require.NoError(t, h.Session.Resolve(context.Background(), tc.outcome))

			assert.Equal(t, tc.wallet, player.Wallet.Value)
			assert.Equal(t, tc.space, player.Bank.Space.Value)
			assert.Equal(t, tc.stars, player.Energy.Value)
			tc.check(t, player.Games["stub"])
			assert.Equal(t, 1, h.Store.Saves)

			played, ok := player.Advancements.Find(entities.AdvancementGamesPlayed)
			require.True(t, ok)
			assert.Equal(t, int64(1), played.Value)
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	player := playtest.NewPlayer("user-1", 10_000, 1_000)
	h := playtest.NewHarness(&stubGame{}, player, rng.NewMathSource(1))
	ctx := context.Background()

	require.NoError(t, h.Session.Resolve(ctx, entities.Win("won", 750)))
	err := h.Session.Resolve(ctx, entities.Win("won again", 750))

	assert.ErrorIs(t, err, play.ErrAlreadyResolved)
	assert.Equal(t, int64(10_750), player.Wallet.Value)
	assert.Equal(t, 1, h.Store.Saves)
	assert.Len(t, h.Recorder.Rounds, 1)

	outcome, ok := h.Session.Outcome()
	require.True(t, ok)
	assert.Equal(t, "won", outcome.Reason)
}

func TestResolveRecordsRound(t *testing.T) {
	player := playtest.NewPlayer("user-1", 10_000, 1_000)
	h := playtest.NewHarness(&stubGame{}, player, rng.NewMathSource(1))

	require.NoError(t, h.Session.Resolve(context.Background(), entities.Lose("lost")))

	require.Len(t, h.Recorder.Rounds, 1)
	round := h.Recorder.Rounds[0]
	assert.Equal(t, h.Session.ID, round.SessionID)
	assert.Equal(t, "stub", round.GameID)
	assert.Equal(t, entities.OutcomeLose, round.Outcome)
	assert.Equal(t, int64(1_000), round.Payoff)
	assert.Equal(t, int64(9_000), round.Wallet)
	assert.Equal(t, int64(-1_000), round.Net())
	assert.Equal(t, playtest.Epoch, round.PlayedAt)
}

func TestResolveSaveFailure(t *testing.T) {
	player := playtest.NewPlayer("user-1", 10_000, 1_000)
	h := playtest.NewHarness(&stubGame{}, player, rng.NewMathSource(1))
	h.Store.Err = errors.New("disk full")

	err := h.Session.Resolve(context.Background(), entities.Win("won", 750))

	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, h.Recorder.Rounds)
}

func TestAwaitDropsForeignAndStaleActions(t *testing.T) {
	game := &stubGame{outcomes: []entities.Outcome{entities.Win("won", 100)}, await: true}
	player := playtest.NewPlayer("user-1", 10_000, 1_000)
	h := playtest.NewHarness(game, player, rng.NewMathSource(1))
	h.Responder.Script = []playtest.Click{
		{Name: "go", UserID: "intruder"},
		{CustomID: h.Session.ID + ":0:go"},
		{Name: "go"},
	}

	outcome, err := h.PlayRound(context.Background())

	require.NoError(t, err)
	assert.Equal(t, entities.OutcomeWin, outcome.Kind)
	assert.Len(t, h.Responder.Dropped, 2)
	assert.Equal(t, []time.Duration{5 * time.Second}, h.Responder.Timeouts)
}

func TestTimedOut(t *testing.T) {
	testCases := []struct {
		name    string
		forfeit bool
		wallet  int64
	}{
		{name: "forfeit", forfeit: true, wallet: 9_000},
		{name: "keep", forfeit: false, wallet: 10_000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			game := &stubGame{await: true, forfeit: tc.forfeit}
			player := playtest.NewPlayer("user-1", 10_000, 1_000)
			h := playtest.NewHarness(game, player, rng.NewMathSource(1))

			err := h.Session.Run(context.Background())

			require.NoError(t, err)
			assert.Equal(t, 1, game.plays)
			assert.Equal(t, tc.wallet, player.Wallet.Value)
			assert.Equal(t, play.StateTerminated, h.Session.State())

			outcome, ok := h.Session.Outcome()
			require.True(t, ok)
			assert.Equal(t, entities.OutcomeOther, outcome.Kind)

			view := h.Responder.LastView()
			assert.Equal(t, play.ColorIdle, view.Color)
			assert.Contains(t, view.Footer, "took too long")
		})
	}
}

func TestWinningsUseEffectiveMultiplier(t *testing.T) {
	player := playtest.NewPlayer("user-1", 10_000, 1_000)
	player.Multiplier.SetValue(45)
	require.NoError(t, player.Party.Invite("friend", playtest.Epoch))
	require.NoError(t, player.Party.Accept("friend"))

	src := &rng.Sequence{Floats: []float64{0}}
	h := playtest.NewHarness(&stubGame{}, player, src)

	w := h.Session.Winnings(payout.Rate{Base: 0.1, Lo: 0.4, Hi: 0.9})

	assert.Equal(t, int64(500), w.Raw)
	assert.Equal(t, int64(750), w.Final)
}

func TestComponentIDsChangePerRound(t *testing.T) {
	game := &stubGame{outcomes: []entities.Outcome{entities.Tie("even")}}
	player := playtest.NewPlayer("user-1", 10_000, 1_000)
	h := playtest.NewHarness(game, player, rng.NewMathSource(1))
	ctx := context.Background()

	_, err := h.PlayRound(ctx)
	require.NoError(t, err)
	first := h.Session.ComponentID("go")

	_, err = h.PlayRound(ctx)
	require.NoError(t, err)
	second := h.Session.ComponentID("go")

	assert.NotEqual(t, first, second)
	assert.Equal(t, h.Session.ID+":2:go", second)
}

func newSharedStore(t *testing.T) (*economyRepo.LockedRepository, *economy.Service, *rng.FixedClock) {
	t.Helper()
	clock := &rng.FixedClock{T: playtest.Epoch}
	repo := economyRepo.NewLockedRepository(economyRepo.NewMemoryRepository(clock))
	return repo, economy.NewService(repo, clock, zerolog.Nop()), clock
}

func TestResolveKeepsEconomyChangesMadeDuringTheRound(t *testing.T) {
	ctx := context.Background()
	repo, bank, clock := newSharedStore(t)

	player, err := repo.Fetch(ctx, "user-1")
	require.NoError(t, err)
	session := play.NewSession(player, &stubGame{}, play.Deps{
		Responder: playtest.NewResponder("user-1"),
		Store:     repo,
		Source:    rng.NewMathSource(1),
		Clock:     clock,
		Logger:    zerolog.Nop(),
	})

	_, err = bank.Deposit(ctx, "user-1", 5_000)
	require.NoError(t, err)
	_, err = bank.SetBet(ctx, "user-1", 2_000)
	require.NoError(t, err)

	require.NoError(t, session.Resolve(ctx, entities.Lose("lost")))

	stored, err := repo.Fetch(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5_000), stored.Bank.Value)
	assert.Equal(t, int64(4_000), stored.Wallet.Value, "the round's own bet is taken")
	assert.Equal(t, int64(2_000), stored.Bet.Value)
	assert.Equal(t, int64(1), stored.Games["stub"].Loses.Count)

	assert.Equal(t, stored.Wallet.Value, session.Player.Wallet.Value)
	assert.Equal(t, stored.Bank.Value, session.Player.Bank.Value)
}

func TestRunSeesChangesMadeBeforeItStarts(t *testing.T) {
	ctx := context.Background()
	repo, bank, clock := newSharedStore(t)

	_, err := bank.Recharge(ctx, "user-1")
	require.NoError(t, err)
	player, err := repo.Fetch(ctx, "user-1")
	require.NoError(t, err)

	game := &stubGame{outcomes: []entities.Outcome{entities.Win("won", 100)}}
	responder := playtest.NewResponder("user-1")
	session := play.NewSession(player, game, play.Deps{
		Responder: responder,
		Store:     repo,
		Source:    rng.NewMathSource(1),
		Clock:     clock,
		Logger:    zerolog.Nop(),
	})

	// leaves 500 coins against a 1,000 bet
	_, err = bank.Deposit(ctx, "user-1", 9_500)
	require.NoError(t, err)

	require.NoError(t, session.Run(ctx))

	assert.Equal(t, 0, game.plays)
	assert.Equal(t, int64(500), session.Player.Wallet.Value)
	assert.Contains(t, responder.LastView().Description, "enough coins")
}
