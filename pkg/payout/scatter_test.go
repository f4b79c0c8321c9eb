package payout

import (
	"testing"

	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func assertScatter(t *testing.T, parts []Part, amount, min, max, length int) {
	t.Helper()
	require.Len(t, parts, length)
	assert.Equal(t, amount, Sum(parts))
	for i, p := range parts {
		assert.GreaterOrEqual(t, p.Value, min, "part %d", i)
		assert.LessOrEqual(t, p.Value, max, "part %d", i)
	}
}

func TestScatterExample(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		parts, err := Scatter(rng.NewMathSource(seed), 100, 5, 25, 6)
		require.NoError(t, err)
		assertScatter(t, parts, 100, 5, 25, 6)
	}
}

func TestScatterEdges(t *testing.T) {
	testCases := []struct {
		name                     string
		amount, min, max, length int
	}{
		{name: "every part at max", amount: 60, min: 1, max: 10, length: 6},
		{name: "every part at min", amount: 6, min: 1, max: 10, length: 6},
		{name: "single part", amount: 7, min: 0, max: 9, length: 1},
		{name: "min equals max", amount: 40, min: 10, max: 10, length: 4},
		{name: "length below min", amount: 100, min: 20, max: 40, length: 4},
		{name: "zero amount", amount: 0, min: 0, max: 5, length: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for seed := int64(0); seed < 20; seed++ {
				parts, err := Scatter(rng.NewMathSource(seed), tc.amount, tc.min, tc.max, tc.length)
				require.NoError(t, err)
				assertScatter(t, parts, tc.amount, tc.min, tc.max, tc.length)
			}
		})
	}
}

func TestScatterInvalid(t *testing.T) {
	src := rng.NewMathSource(1)

	_, err := Scatter(src, 100, 5, 25, 0)
	assert.ErrorIs(t, err, ErrInvalidScatter)

	_, err = Scatter(src, 100, 30, 25, 4)
	assert.ErrorIs(t, err, ErrInvalidScatter)

	_, err = Scatter(src, 200, 5, 25, 6)
	assert.ErrorIs(t, err, ErrInvalidScatter)

	_, err = Scatter(src, 10, 5, 25, 6)
	assert.ErrorIs(t, err, ErrInvalidScatter)
}

func TestScatterSumProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		length := rapid.IntRange(1, 20).Draw(t, "length")
		min := rapid.IntRange(0, 50).Draw(t, "min")
		max := rapid.IntRange(min, min+100).Draw(t, "max")
		amount := rapid.IntRange(min*length, max*length).Draw(t, "amount")
		seed := rapid.Int64().Draw(t, "seed")

		parts, err := Scatter(rng.NewMathSource(seed), amount, min, max, length)
		if err != nil {
			t.Fatalf("Scatter(%d, %d, %d, %d) failed: %v", amount, min, max, length, err)
		}
		if len(parts) != length {
			t.Fatalf("got %d parts, want %d", len(parts), length)
		}
		if got := Sum(parts); got != amount {
			t.Fatalf("parts sum to %d, want %d", got, amount)
		}
		for _, p := range parts {
			if p.Value < min || p.Value > max {
				t.Fatalf("part %d outside [%d,%d]", p.Value, min, max)
			}
		}
	})
}
