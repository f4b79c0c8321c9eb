package play

// Guard failure reasons, checked in this order
const (
	ReasonEnded             = "ended"
	ReasonEnergyExpired     = "energy expired"
	ReasonInsufficientFunds = "insufficient funds"
	ReasonWalletAtCapacity  = "wallet at capacity"
)

var guardMessages = map[string]string{
	ReasonEnded:             "The game has ended.",
	ReasonEnergyExpired:     "Your energy has expired. Use `/recharge` to keep playing.",
	ReasonInsufficientFunds: "You don't have enough coins in your wallet to cover your bet.",
	ReasonWalletAtCapacity:  "Your wallet is full. Deposit some coins with `/deposit` to keep playing.",
}

// GuardFailure stops the replay loop. It is a user-facing condition, not a fault.
type GuardFailure struct {
	Reason string
}

func (g *GuardFailure) Error() string {
	return g.Reason
}

// Message is the text shown to the player
func (g *GuardFailure) Message() string {
	if msg, ok := guardMessages[g.Reason]; ok {
		return msg
	}
	return g.Reason
}
