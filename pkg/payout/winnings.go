// Package payout computes game winnings and splits prize pools.
package payout

import (
	"math"

	"github.com/fadedpez/coinpurse/pkg/rng"
)

// Winnings is the result of one payout calculation
type Winnings struct {
	Raw   int64
	Final int64
}

// CalculateWinnings applies the shared payout formula:
//
//	raw   = round(bet * (random + base))
//	final = roundZero(round(raw + raw*multiplier/100), 1)
//
// multiplier is a percentage and random is usually drawn from [0,1).
func CalculateWinnings(base float64, bet int64, multiplier int64, random float64) Winnings {
	raw := math.Round(float64(bet) * (random + base))
	final := math.Round(raw + raw*(float64(multiplier)/100))
	return Winnings{
		Raw:   int64(raw),
		Final: RoundZero(int64(final), 1),
	}
}

// RoundZero rounds n to the nearest multiple of 10^zeros, with zeros clamped to [1,20]
func RoundZero(n int64, zeros int) int64 {
	if zeros < 1 {
		zeros = 1
	}
	if zeros > 20 {
		zeros = 20
	}
	p := math.Pow10(zeros)
	return int64(math.Round(float64(n)/p) * p)
}

// Rate is a game's payout parameters: a base and the range random is drawn from
type Rate struct {
	Base float64
	Lo   float64
	Hi   float64
}

// Calculator draws the random factor for CalculateWinnings from a Source
type Calculator struct {
	src rng.Source
}

func NewCalculator(src rng.Source) *Calculator {
	return &Calculator{src: src}
}

// Calculate computes winnings for bet at rate with a random factor in [rate.Lo, rate.Hi)
func (c *Calculator) Calculate(rate Rate, bet, multiplier int64) Winnings {
	random := rng.Between(c.src, rate.Lo, rate.Hi)
	return CalculateWinnings(rate.Base, bet, multiplier, random)
}
