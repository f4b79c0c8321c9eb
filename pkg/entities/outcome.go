package entities

// OutcomeKind classifies a resolved round
type OutcomeKind string

const (
	OutcomeWin     OutcomeKind = "WIN"
	OutcomeLose    OutcomeKind = "LOSE"
	OutcomeTie     OutcomeKind = "TIE"
	OutcomeJackpot OutcomeKind = "JACKPOT"
	OutcomeOther   OutcomeKind = "OTHER"
)

// String returns the string representation of the kind
func (k OutcomeKind) String() string {
	return string(k)
}

// IsWin returns true for kinds that pay out
func (k OutcomeKind) IsWin() bool {
	return k == OutcomeWin || k == OutcomeJackpot
}

// Outcome is the terminal classification of one round. Payoff is the final
// winnings for wins and the lost amount for losses.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
	Payoff int64
	// Forfeit marks an Other outcome that still costs the player the bet
	Forfeit bool
}

func Win(reason string, payoff int64) Outcome {
	return Outcome{Kind: OutcomeWin, Reason: reason, Payoff: payoff}
}

func Jackpot(reason string, payoff int64) Outcome {
	return Outcome{Kind: OutcomeJackpot, Reason: reason, Payoff: payoff}
}

func Lose(reason string) Outcome {
	return Outcome{Kind: OutcomeLose, Reason: reason}
}

func Tie(reason string) Outcome {
	return Outcome{Kind: OutcomeTie, Reason: reason}
}

// Idle is the timeout outcome; forfeit decides whether the bet is lost
func Idle(reason string, forfeit bool) Outcome {
	return Outcome{Kind: OutcomeOther, Reason: reason, Forfeit: forfeit}
}
