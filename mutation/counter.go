package mutation

import (
	"errors"
	"fmt"

	"github.com/they4kman/experimentation/machine-learning/genetic-algorithms/bitflip/bitchain"
)

var ErrNegativeSkip = errors.New("skip distance must not be negative")

// CounterMutator is a SkipAheadMutator whose next skip distance can be forced,
// so tests can place a flip at a known offset. Only for tests: a seeded call
// is not random, and the pending counter makes instances unsafe to share.
type CounterMutator struct {
	*SkipAheadMutator

	counter int
	seeded  bool
}

func NewCounter(p float64, src Source) (*CounterMutator, error) {
	inner, err := NewSkipAhead(p, src)
	if err != nil {
		return nil, err
	}
	return &CounterMutator{SkipAheadMutator: inner}, nil
}

// SetNextSkip makes the first skip of the next Mutate call equal k, without a
// draw. Later skips in that call come from the source as usual. The seed is
// dropped after one call even if p = 0 or p = 1 meant it went unused.
func (m *CounterMutator) SetNextSkip(k int) error {
	if k < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSkip, k)
	}
	m.counter = k
	m.seeded = true
	return nil
}

func (m *CounterMutator) Mutate(chain bitchain.BitChain) (bitchain.BitChain, error) {
	defer func() {
		m.seeded = false
	}()
	return m.mutate(chain, m.skip)
}

func (m *CounterMutator) skip() int {
	if m.seeded {
		m.seeded = false
		return m.counter
	}
	return m.nextSkip()
}
