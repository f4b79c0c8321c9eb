package entities

import "time"

// Energy constants
const (
	StarRatio         int64 = 100
	StarGain          int64 = 5
	StarsDefault      int64 = 500
	MaxStars          int64 = 100 * StarRatio
	EnergyBaseLimit   int64 = 5
	EnergyTierLimit   int64 = 2
	BaseDuration      int64 = 60 // minutes
	TierAddedDuration int64 = 15 // minutes
)

// Energy is stored as stars; 100 stars make one energy. A player can play while
// the current energy window has not expired.
type Energy struct {
	NumericValue
	Expire time.Time `json:"expire"`
}

func NewEnergy() Energy {
	return Energy{NumericValue: NewNumericValue(StarsDefault)}
}

// Energy returns the whole energy units held
func (e *Energy) Energy() int64 {
	return e.Value / StarRatio
}

// AddStars adds the fixed star gain
func (e *Energy) AddStars() {
	e.AddValue(StarGain)
}

// SubStars removes the fixed star gain
func (e *Energy) SubStars() {
	e.SubValue(StarGain)
}

func (e *Energy) AddEnergy(n int64) {
	e.AddValue(n * StarRatio)
}

func (e *Energy) SubEnergy(n int64) {
	e.SubValue(n * StarRatio)
}

func (e *Energy) IsExpired(now time.Time) bool {
	return now.After(e.Expire)
}

// DefaultDuration returns the energy window length in minutes for a tier
func DefaultDuration(tier int64) int64 {
	return BaseDuration + TierAddedDuration*tier
}

// Recharge opens a new energy window. It does not consume energy; callers gate it.
func (e *Energy) Recharge(now time.Time, tier int64) {
	e.Expire = now.Add(time.Duration(DefaultDuration(tier)) * time.Minute)
}

func (e *Energy) MaxEnergy(tier int64) int64 {
	return scaledLimit(EnergyBaseLimit, EnergyTierLimit, tier)
}

func (e *Energy) IsMaxEnergy(tier int64) bool {
	return e.Energy() >= e.MaxEnergy(tier)
}

func (e *Energy) IsMaxStars() bool {
	return e.Value >= MaxStars
}
