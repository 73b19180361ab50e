package mutation

import (
	"github.com/they4kman/experimentation/machine-learning/genetic-algorithms/bitflip/bitchain"
)

// NaiveMutator tests every position with its own draw. It takes exactly
// len(chain) draws whatever p is, and serves as the reference for
// SkipAheadMutator.
type NaiveMutator struct {
	p   float64
	src Source
}

func NewNaive(p float64, src Source) (*NaiveMutator, error) {
	if err := checkProbability(p); err != nil {
		return nil, err
	}
	return &NaiveMutator{
		p:   p,
		src: sourceOrDefault(src),
	}, nil
}

func (m *NaiveMutator) Probability() float64 {
	return m.p
}

func (m *NaiveMutator) Strategy() Strategy {
	return StrategyNaive
}

// Mutate creates a new chain with bits randomly flipped based on p
func (m *NaiveMutator) Mutate(chain bitchain.BitChain) (bitchain.BitChain, error) {
	if err := chain.Validate(); err != nil {
		return nil, err
	}

	mutated := make(bitchain.BitChain, len(chain))
	for i, bit := range chain {
		if m.src.Float64() < m.p {
			bit = bitchain.Flip(bit)
		}
		mutated[i] = bit
	}
	return mutated, nil
}
