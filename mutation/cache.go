package mutation

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

const DefaultSamplerCacheSize = 128

// SamplerCache keeps recently used Samplers keyed by probability, so a
// probability that varies with chain length pays for its logarithm once per
// distinct value. Safe for concurrent use.
type SamplerCache struct {
	samplers *lru.Cache
}

func NewSamplerCache(size int) (*SamplerCache, error) {
	samplers, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating sampler cache: %w", err)
	}
	return &SamplerCache{samplers: samplers}, nil
}

func (c *SamplerCache) Sampler(p float64) (Sampler, error) {
	if cached, ok := c.samplers.Get(p); ok {
		return cached.(Sampler), nil
	}

	sampler, err := NewSampler(p)
	if err != nil {
		return Sampler{}, err
	}
	c.samplers.Add(p, sampler)
	return sampler, nil
}

func (c *SamplerCache) Len() int {
	return c.samplers.Len()
}

// New is like the package-level New, but skip-ahead mutators with 0 < p < 1
// share the cached Sampler.
func (c *SamplerCache) New(strategy Strategy, p float64, src Source) (Mutator, error) {
	if strategy != StrategySkipAhead || p == 0 || p == 1 {
		return New(strategy, p, src)
	}

	sampler, err := c.Sampler(p)
	if err != nil {
		return nil, err
	}
	return NewSkipAheadFromSampler(sampler, src), nil
}
