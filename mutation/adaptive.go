package mutation

import (
	"fmt"

	"github.com/they4kman/experimentation/machine-learning/genetic-algorithms/bitflip/bitchain"
)

// RateFunc picks the flip probability for a chain of length n
type RateFunc func(n int) (float64, error)

// FixedRate ignores the chain length
func FixedRate(p float64) RateFunc {
	return func(int) (float64, error) {
		return p, nil
	}
}

// Adaptive resolves the flip probability from each chain's length, then
// mutates with a mutator of the configured strategy. The classic GA default
// of 1/n is InverseLengthRate.
type Adaptive struct {
	strategy Strategy
	rate     RateFunc
	cache    *SamplerCache
	src      Source
}

func NewAdaptive(strategy Strategy, rate RateFunc, cache *SamplerCache, src Source) (*Adaptive, error) {
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}
	if cache == nil {
		var err error
		if cache, err = NewSamplerCache(DefaultSamplerCacheSize); err != nil {
			return nil, err
		}
	}
	return &Adaptive{
		strategy: strategy,
		rate:     rate,
		cache:    cache,
		src:      sourceOrDefault(src),
	}, nil
}

// InverseLengthRate flips one bit per chain on average
func InverseLengthRate(n int) (float64, error) {
	if n == 0 {
		return 0, nil
	}
	return 1 / float64(n), nil
}

func (a *Adaptive) Strategy() Strategy {
	return a.strategy
}

func (a *Adaptive) Mutate(chain bitchain.BitChain) (bitchain.BitChain, error) {
	p, err := a.rate(len(chain))
	if err != nil {
		return nil, fmt.Errorf("resolving flip probability for length %d: %w", len(chain), err)
	}

	m, err := a.cache.New(a.strategy, p, a.src)
	if err != nil {
		return nil, err
	}
	return m.Mutate(chain)
}
