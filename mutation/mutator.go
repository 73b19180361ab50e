// Package mutation implements bit-flip mutation of GA bit chains.
//
// Two interchangeable strategies flip every bit of a chain independently with
// a fixed probability p. NaiveMutator tests each position with one draw;
// SkipAheadMutator samples the distance to the next flip from a geometric
// distribution, so it takes roughly one draw per flip instead of one per bit.
// The two are statistically indistinguishable. SkipAheadMutator is faster for
// small p and slower once most bits flip.
//
// Mutators never modify the chain they are given, and are not safe for
// concurrent use: each goroutine needs its own mutator, with its own Source.
// MutateAll handles that bookkeeping for batches.
package mutation

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/they4kman/experimentation/machine-learning/genetic-algorithms/bitflip/bitchain"
)

var ErrUnknownStrategy = errors.New("unknown mutation strategy")

type Strategy string

const (
	StrategyNaive     Strategy = "naive"
	StrategySkipAhead Strategy = "skipahead"
)

var Strategies = []Strategy{StrategyNaive, StrategySkipAhead}

func ParseStrategy(s string) (Strategy, error) {
	for _, strategy := range Strategies {
		if string(strategy) == s {
			return strategy, nil
		}
	}
	return "", fmt.Errorf("%w %q (expected one of %v)", ErrUnknownStrategy, s, Strategies)
}

// Mutator produces a mutated copy of a chain. Implementations return an error,
// and no chain, when the input holds a symbol other than '0' or '1'.
type Mutator interface {
	Mutate(chain bitchain.BitChain) (bitchain.BitChain, error)
	Strategy() Strategy
}

var (
	_ Mutator = (*NaiveMutator)(nil)
	_ Mutator = (*SkipAheadMutator)(nil)
	_ Mutator = (*CounterMutator)(nil)
	_ Mutator = (*Adaptive)(nil)
	_ Mutator = (*Instrumented)(nil)
)

// New creates a mutator of the given strategy. A nil src gets a time-seeded
// generator of its own.
func New(strategy Strategy, p float64, src Source) (Mutator, error) {
	var (
		m   Mutator
		err error
	)
	switch strategy {
	case StrategyNaive:
		m, err = NewNaive(p, src)
	case StrategySkipAhead:
		m, err = NewSkipAhead(p, src)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, strategy)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Mutate flips each bit of chain with probability p, using the skip-ahead
// strategy and a pooled generator.
func Mutate(chain bitchain.BitChain, p float64) (bitchain.BitChain, error) {
	rng := sourcePool.Get().(*rand.Rand)
	defer sourcePool.Put(rng)

	m, err := NewSkipAhead(p, rng)
	if err != nil {
		return nil, err
	}
	return m.Mutate(chain)
}

func sourceOrDefault(src Source) Source {
	if src == nil {
		return NewSource(0)
	}
	return src
}
