package entities

import "time"

// RoundRecord is the history entry written for every resolved round
type RoundRecord struct {
	ID         string      `json:"id"`
	SessionID  string      `json:"session_id"`
	UserID     string      `json:"user_id"`
	GameID     string      `json:"game_id"`
	Outcome    OutcomeKind `json:"outcome"`
	Reason     string      `json:"reason"`
	Bet        int64       `json:"bet"`
	Payoff     int64       `json:"payoff"`
	Multiplier int64       `json:"multiplier"`
	Wallet     int64       `json:"wallet"`
	PlayedAt   time.Time   `json:"played_at"`
}

// Net returns the coins the round added to (or took from) the wallet
func (r *RoundRecord) Net() int64 {
	switch r.Outcome {
	case OutcomeWin, OutcomeJackpot:
		return r.Payoff
	case OutcomeLose, OutcomeOther:
		return -r.Payoff
	}
	return 0
}
