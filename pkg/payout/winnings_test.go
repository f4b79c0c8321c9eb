package payout

import (
	"testing"

	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCalculateWinnings(t *testing.T) {
	testCases := []struct {
		name       string
		base       float64
		bet        int64
		multiplier int64
		random     float64
		raw        int64
		final      int64
	}{
		{name: "multiplier bonus", base: 0.1, bet: 1000, multiplier: 50, random: 0.4, raw: 500, final: 750},
		{name: "no multiplier", base: 0.5, bet: 1000, multiplier: 0, random: 0.5, raw: 1000, final: 1000},
		{name: "cosmetic rounding", base: 0.1, bet: 8347, multiplier: 0, random: 0.9, raw: 8347, final: 8350},
		{name: "rounds raw first", base: 0.25, bet: 333, multiplier: 10, random: 0.5, raw: 250, final: 280},
		{name: "zero bet", base: 0.75, bet: 0, multiplier: 100, random: 0.99, raw: 0, final: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := CalculateWinnings(tc.base, tc.bet, tc.multiplier, tc.random)
			assert.Equal(t, tc.raw, w.Raw)
			assert.Equal(t, tc.final, w.Final)
		})
	}
}

func TestRoundZero(t *testing.T) {
	testCases := []struct {
		n     int64
		zeros int
		want  int64
	}{
		{8347, 1, 8350},
		{750, 1, 750},
		{755, 1, 760},
		{754, 1, 750},
		{8347, 2, 8300},
		{8347, 0, 8350},
		{8347, -4, 8350},
		{8347, 3, 8000},
		{8347, 99, 0},
		{-14, 1, -10},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, RoundZero(tc.n, tc.zeros), "RoundZero(%d, %d)", tc.n, tc.zeros)
	}
}

func TestRoundZeroIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Int64Range(-1_000_000_000_000_000, 1_000_000_000_000_000).Draw(t, "n")
		z := rapid.IntRange(1, 20).Draw(t, "zeros")

		once := RoundZero(n, z)
		if twice := RoundZero(once, z); twice != once {
			t.Fatalf("RoundZero not idempotent: n=%d z=%d once=%d twice=%d", n, z, once, twice)
		}
	})
}

func TestCalculatorDrawsWithinRate(t *testing.T) {
	src := &rng.Sequence{Floats: []float64{0, 0.5}}
	calc := NewCalculator(src)
	rate := Rate{Base: 0.1, Lo: 0.4, Hi: 0.8}

	low := calc.Calculate(rate, 1000, 0)
	assert.Equal(t, int64(500), low.Raw)

	mid := calc.Calculate(rate, 1000, 0)
	assert.Equal(t, int64(700), mid.Raw)
}
