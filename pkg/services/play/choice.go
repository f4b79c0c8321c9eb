package play

// Choice is a player's pick that may not have been made yet
type Choice[T any] struct {
	value  T
	picked bool
}

// Unpicked returns an empty choice
func Unpicked[T any]() Choice[T] {
	return Choice[T]{}
}

// Picked returns a choice holding v
func Picked[T any](v T) Choice[T] {
	return Choice[T]{value: v, picked: true}
}

// Get returns the picked value and whether a pick was made
func (c Choice[T]) Get() (T, bool) {
	return c.value, c.picked
}

func (c Choice[T]) IsPicked() bool {
	return c.picked
}
