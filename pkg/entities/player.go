package entities

import "time"

// Multiplier is a percentage bonus added to winnings. A zero Expire means permanent.
type Multiplier struct {
	NumericValue
	Expire time.Time `json:"expire"`
}

// Active returns the multiplier value, or zero once it has expired
func (m *Multiplier) Active(now time.Time) int64 {
	if !m.Expire.IsZero() && now.After(m.Expire) {
		return 0
	}
	return m.Value
}

// Upgrades are long-term progression counters that scale every other limit
type Upgrades struct {
	Tier    int64 `json:"tier"`
	Mastery int64 `json:"mastery"`
}

// PlayerEconomy is the persisted economy document, one per Discord user
type PlayerEconomy struct {
	UserID       string               `json:"user_id"`
	Wallet       Wallet               `json:"wallet"`
	Bank         Bank                 `json:"bank"`
	Energy       Energy               `json:"energy"`
	Bet          Bet                  `json:"bet"`
	Multiplier   Multiplier           `json:"multiplier"`
	Upgrades     Upgrades             `json:"upgrades"`
	Games        map[string]GameStats `json:"games"`
	Party        Party                `json:"party"`
	Advancements Advancements         `json:"advancements"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// NewPlayerEconomy creates a document with every resource at its default.
// Stores decode persisted JSON on top of it so the defaults survive a round trip.
func NewPlayerEconomy(userID string) *PlayerEconomy {
	return &PlayerEconomy{
		UserID:     userID,
		Wallet:     NewWallet(),
		Bank:       NewBank(),
		Energy:     NewEnergy(),
		Bet:        NewBet(),
		Multiplier: Multiplier{NumericValue: NewNumericValue(0)},
		Games:      make(map[string]GameStats),
	}
}

// PartyBonus is the multiplier each accepted party member adds
const (
	PartyBonus      int64 = 5
	PartyBonusLimit       = 5
)

// EffectiveMultiplier combines the active multiplier and the party bonus
func (p *PlayerEconomy) EffectiveMultiplier(now time.Time) int64 {
	members := p.Party.AcceptedCount()
	if members > PartyBonusLimit {
		members = PartyBonusLimit
	}
	return p.Multiplier.Active(now) + PartyBonus*int64(members)
}

// MaxBet returns the current maximum bet for the player's upgrades
func (p *PlayerEconomy) MaxBet() int64 {
	return p.Bet.MaxValue(p.Upgrades.Tier, p.Upgrades.Mastery)
}

// MinBet returns the current minimum bet for the player's upgrades
func (p *PlayerEconomy) MinBet() int64 {
	return p.Bet.MinValue(p.Upgrades.Tier, p.Upgrades.Mastery)
}

// GameStats returns the statistics for a game, creating an empty record if needed
func (p *PlayerEconomy) GameStats(gameID string) GameStats {
	if p.Games == nil {
		p.Games = make(map[string]GameStats)
	}
	return p.Games[gameID]
}
