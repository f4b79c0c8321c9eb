package entities

// Wallet limits
const (
	WalletDefault      int64 = 10_000
	WalletBaseLimit    int64 = 50_000_000
	WalletMasteryLimit int64 = 25_000_000
)

// Bank limits
const (
	BankSpaceDefault      int64 = 100_000
	BankSpaceBaseLimit    int64 = 1_000_000_000
	BankSpaceMasteryLimit int64 = 500_000_000
)

// Wallet is the spendable coin balance
type Wallet struct {
	NumericValue
}

// NewWallet creates a wallet holding the starting balance
func NewWallet() Wallet {
	return Wallet{NumericValue: NewNumericValue(WalletDefault)}
}

// MaxValue returns the wallet capacity for a mastery level
func (w *Wallet) MaxValue(mastery int64) int64 {
	return scaledLimit(WalletBaseLimit, WalletMasteryLimit, mastery)
}

// IsMaxValue reports whether the wallet is at or above capacity
func (w *Wallet) IsMaxValue(mastery int64) bool {
	return w.Value >= w.MaxValue(mastery)
}

// BankSpace is the capacity of the bank
type BankSpace struct {
	NumericValue
}

// MaxValue returns the largest space the bank can grow to
func (s *BankSpace) MaxValue(mastery int64) int64 {
	return scaledLimit(BankSpaceBaseLimit, BankSpaceMasteryLimit, mastery)
}

func (s *BankSpace) IsMaxValue(mastery int64) bool {
	return s.Value >= s.MaxValue(mastery)
}

// Bank is stored currency and its capacity
type Bank struct {
	NumericValue
	Space BankSpace `json:"space"`
}

// NewBank creates an empty bank with the default space
func NewBank() Bank {
	return Bank{
		NumericValue: NewNumericValue(0),
		Space:        BankSpace{NumericValue: NewNumericValue(BankSpaceDefault)},
	}
}

// IsFull reports whether no more coins fit in the bank
func (b *Bank) IsFull() bool {
	return b.Value >= b.Space.Value
}

// Room returns how many coins can still be deposited
func (b *Bank) Room() int64 {
	if b.IsFull() {
		return 0
	}
	return b.Space.Value - b.Value
}
