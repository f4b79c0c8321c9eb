package highlow

import (
	"context"
	"testing"
	"time"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/fadedpez/coinpurse/pkg/services/play/playtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJudge(t *testing.T) {
	testCases := []struct {
		name   string
		guess  Guess
		hint   int
		secret int
		want   entities.OutcomeKind
	}{
		{name: "higher and above", guess: Higher, hint: 40, secret: 41, want: entities.OutcomeWin},
		{name: "higher and below", guess: Higher, hint: 40, secret: 12, want: entities.OutcomeLose},
		{name: "lower and below", guess: Lower, hint: 40, secret: 39, want: entities.OutcomeWin},
		{name: "lower and above", guess: Lower, hint: 40, secret: 99, want: entities.OutcomeLose},
		{name: "lower on the hint", guess: Lower, hint: 40, secret: 40, want: entities.OutcomeTie},
		{name: "higher on the hint", guess: Higher, hint: 40, secret: 40, want: entities.OutcomeTie},
		{name: "jackpot hit", guess: Exact, hint: 40, secret: 40, want: entities.OutcomeJackpot},
		{name: "jackpot miss", guess: Exact, hint: 40, secret: 41, want: entities.OutcomeLose},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Judge(tc.guess, tc.hint, tc.secret))
		})
	}
}

func TestPlay(t *testing.T) {
	testCases := []struct {
		name   string
		guess  string
		ints   []int
		kind   entities.OutcomeKind
		wallet int64
	}{
		{name: "win", guess: "higher", ints: []int{50, 70}, kind: entities.OutcomeWin, wallet: 10_500},
		{name: "lose", guess: "lower", ints: []int{50, 70}, kind: entities.OutcomeLose, wallet: 9_000},
		{name: "tie", guess: "lower", ints: []int{50, 50}, kind: entities.OutcomeTie, wallet: 10_000},
		{name: "jackpot", guess: "jackpot", ints: []int{50, 50}, kind: entities.OutcomeJackpot, wallet: 12_200},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			player := playtest.NewPlayer("user-1", 10_000, 1_000)
			src := &rng.Sequence{Floats: []float64{0}, Ints: tc.ints}
			h := playtest.NewHarness(New(), player, src, playtest.Click{Name: tc.guess})

			outcome, err := h.PlayRound(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tc.kind, outcome.Kind)
			assert.Equal(t, tc.wallet, player.Wallet.Value)
		})
	}
}

func TestTimeoutForfeitsBet(t *testing.T) {
	player := playtest.NewPlayer("user-1", 10_000, 1_000)
	h := playtest.NewHarness(New(), player, &rng.Sequence{Ints: []int{50, 70}})

	outcome, err := h.PlayRound(context.Background())

	require.NoError(t, err)
	assert.Equal(t, entities.OutcomeOther, outcome.Kind)
	assert.Equal(t, int64(9_000), player.Wallet.Value)
	assert.Equal(t, []time.Duration{Timeout}, h.Responder.Timeouts)
}
