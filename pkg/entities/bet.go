package entities

import "math"

// Bet limits
const (
	BetDefault      int64 = 1_000
	BetBaseLimit    int64 = 1_000_000
	BetTierLimit    int64 = 250_000
	BetMasteryLimit int64 = 1_000_000
)

// Bet is the wager every game uses. It does not clamp itself; the economy service
// rejects values outside [MinValue, MaxValue].
type Bet struct {
	NumericValue
}

func NewBet() Bet {
	return Bet{NumericValue: NewNumericValue(BetDefault)}
}

// MaxValue returns the tier and mastery scaled maximum bet
func (b *Bet) MaxValue(tier, mastery int64) int64 {
	return scaledLimit(BetBaseLimit, BetTierLimit, tier) + BetMasteryLimit*mastery
}

// MinValue is a thousandth of the maximum, rounded
func (b *Bet) MinValue(tier, mastery int64) int64 {
	return MinBetFor(b.MaxValue(tier, mastery))
}

func (b *Bet) IsMaxValue(tier, mastery int64) bool {
	return b.Value >= b.MaxValue(tier, mastery)
}

// MinBetFor derives the minimum bet from a maximum
func MinBetFor(max int64) int64 {
	return int64(math.Round(float64(max) / 1000))
}
