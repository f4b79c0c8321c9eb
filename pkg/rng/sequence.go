package rng

// Sequence replays fixed values. Floats and ints are consumed from separate queues
// and wrap around when exhausted. Shuffle is a no-op so decks keep their given order.
type Sequence struct {
	Floats []float64
	Ints   []int

	fi, ii int
}

func (s *Sequence) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}

// IntRange returns the next queued int clamped to [min,max]
func (s *Sequence) IntRange(min, max int) int {
	if len(s.Ints) == 0 {
		return min
	}
	v := s.Ints[s.ii%len(s.Ints)]
	s.ii++
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func (s *Sequence) Shuffle(n int, swap func(i, j int)) {}

var _ Source = (*Sequence)(nil)
