package mutation

import (
	"github.com/they4kman/experimentation/machine-learning/genetic-algorithms/bitflip/bitchain"
)

// SkipAheadMutator jumps from flip to flip, drawing each gap from a geometric
// distribution. A call takes one draw per flip, plus one for the gap that runs
// off the end of the chain.
type SkipAheadMutator struct {
	p       float64
	sampler Sampler
	src     Source
}

func NewSkipAhead(p float64, src Source) (*SkipAheadMutator, error) {
	if err := checkProbability(p); err != nil {
		return nil, err
	}

	m := &SkipAheadMutator{
		p:   p,
		src: sourceOrDefault(src),
	}
	if p > 0 && p < 1 {
		sampler, err := NewSampler(p)
		if err != nil {
			return nil, err
		}
		m.sampler = sampler
	}
	return m, nil
}

// NewSkipAheadFromSampler reuses a precomputed Sampler, see SamplerCache
func NewSkipAheadFromSampler(sampler Sampler, src Source) *SkipAheadMutator {
	return &SkipAheadMutator{
		p:       sampler.Probability(),
		sampler: sampler,
		src:     sourceOrDefault(src),
	}
}

func (m *SkipAheadMutator) Probability() float64 {
	return m.p
}

func (m *SkipAheadMutator) Strategy() Strategy {
	return StrategySkipAhead
}

func (m *SkipAheadMutator) Mutate(chain bitchain.BitChain) (bitchain.BitChain, error) {
	return m.mutate(chain, m.nextSkip)
}

func (m *SkipAheadMutator) nextSkip() int {
	return m.sampler.Next(m.src)
}

func (m *SkipAheadMutator) mutate(chain bitchain.BitChain, nextSkip func() int) (bitchain.BitChain, error) {
	if err := chain.Validate(); err != nil {
		return nil, err
	}

	switch {
	case m.p == 0:
		return chain.Clone(), nil
	case m.p == 1:
		return chain.Complement()
	}

	mutated := chain.Clone()
	n := len(mutated)
	for cursor := 0; cursor < n; cursor++ {
		skip := nextSkip()
		if skip >= n-cursor {
			break
		}
		cursor += skip
		mutated[cursor] = bitchain.Flip(mutated[cursor])
	}
	return mutated, nil
}
