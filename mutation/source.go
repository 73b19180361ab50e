package mutation

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Source produces independent uniform draws in [0, 1).
//
// Mutators depend only on this capability. *math/rand.Rand satisfies it, as do
// the fixed-sequence and counting sources below, which exist for tests.
type Source interface {
	Float64() float64
}

var sourcePool = sync.Pool{
	New: func() interface{} {
		return rand.New(rand.NewSource(rand.Int63()))
	},
}

// NewSource creates a math/rand generator. A zero seed picks a time-based one.
// The returned generator is not safe for concurrent use.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// LockedSource serializes draws from a Source shared between goroutines
type LockedSource struct {
	mu  sync.Mutex
	src Source
}

func NewLockedSource(src Source) *LockedSource {
	return &LockedSource{src: src}
}

func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Float64()
}

// SequenceSource replays a fixed sequence of draws, wrapping around at its end
type SequenceSource struct {
	draws []float64
	next  int
}

// NewSequenceSource panics if draws is empty or holds a value outside [0, 1)
func NewSequenceSource(draws ...float64) *SequenceSource {
	if len(draws) == 0 {
		panic("mutation: NewSequenceSource needs at least one draw")
	}
	for i, u := range draws {
		if !(u >= 0 && u < 1) {
			panic(fmt.Sprintf("mutation: draw %v at index %d is not in [0, 1)", u, i))
		}
	}

	copied := make([]float64, len(draws))
	copy(copied, draws)
	return &SequenceSource{draws: copied}
}

func (s *SequenceSource) Float64() float64 {
	u := s.draws[s.next]
	s.next = (s.next + 1) % len(s.draws)
	return u
}

// CountingSource counts the draws taken from the wrapped Source
type CountingSource struct {
	Source
	draws int
}

func NewCountingSource(src Source) *CountingSource {
	return &CountingSource{Source: src}
}

func (s *CountingSource) Float64() float64 {
	s.draws++
	return s.Source.Float64()
}

func (s *CountingSource) Draws() int {
	return s.draws
}

func (s *CountingSource) Reset() {
	s.draws = 0
}
