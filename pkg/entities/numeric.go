package entities

// NumericValue is the bounded counter shared by every economy resource.
// The floor is zero by convention only: SubValue never clamps, so callers check
// preconditions before subtracting.
type NumericValue struct {
	Value   int64 `json:"value"`
	Default int64 `json:"-"`
}

// NewNumericValue creates a counter starting at its default
func NewNumericValue(def int64) NumericValue {
	return NumericValue{Value: def, Default: def}
}

func (n *NumericValue) SetValue(v int64) {
	n.Value = v
}

func (n *NumericValue) AddValue(v int64) {
	n.Value += v
}

func (n *NumericValue) SubValue(v int64) {
	n.Value -= v
}

// ResetValue restores the configured default
func (n *NumericValue) ResetValue() {
	n.Value = n.Default
}

// scaledLimit computes base + scale*input, the ceiling rule every resource uses
func scaledLimit(base, scale, input int64) int64 {
	return base + scale*input
}
