package rng

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the randomness every game and the scatter draw from
type Source interface {
	// Float64 returns a uniform value in [0,1)
	Float64() float64
	// IntRange returns a uniform integer in [min,max]
	IntRange(min, max int) int
	// Shuffle permutes n elements using swap
	Shuffle(n int, swap func(i, j int))
}

// MathSource implements Source on top of math/rand. It is safe for concurrent use.
type MathSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewMathSource creates a Source seeded with seed
func NewMathSource(seed int64) *MathSource {
	return &MathSource{r: rand.New(rand.NewSource(seed))}
}

// NewTimeSource creates a Source seeded from the current time
func NewTimeSource() *MathSource {
	return NewMathSource(time.Now().UnixNano())
}

func (s *MathSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *MathSource) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.r.Intn(max-min+1)
}

func (s *MathSource) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Shuffle(n, swap)
}

// Between draws a uniform float in [lo,hi)
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

var _ Source = (*MathSource)(nil)
