package mutation

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/they4kman/experimentation/machine-learning/genetic-algorithms/bitflip/bitchain"
)

var _ = Describe("SamplerCache", func() {
	var cache *SamplerCache

	BeforeEach(func() {
		var err error
		cache, err = NewSamplerCache(2)
		Expect(err).ToNot(HaveOccurred())
	})

	It("computes each probability's sampler once", func() {
		a, err := cache.Sampler(0.25)
		Expect(err).ToNot(HaveOccurred())
		b, err := cache.Sampler(0.25)
		Expect(err).ToNot(HaveOccurred())

		Expect(b).To(Equal(a))
		Expect(cache.Len()).To(Equal(1))
	})

	It("evicts the least recently used sampler", func() {
		for _, p := range []float64{0.1, 0.2, 0.3} {
			_, err := cache.Sampler(p)
			Expect(err).ToNot(HaveOccurred())
		}
		Expect(cache.Len()).To(Equal(2))
	})

	It("does not cache degenerate probabilities", func() {
		_, err := cache.Sampler(1)
		Expect(err).To(MatchError(ErrDegenerateProbability))
		Expect(cache.Len()).To(BeZero())
	})

	It("builds skip-ahead mutators from cached samplers", func() {
		m, err := cache.New(StrategySkipAhead, 0.4, NewSource(1))
		Expect(err).ToNot(HaveOccurred())
		Expect(m).To(BeAssignableToTypeOf(&SkipAheadMutator{}))
		Expect(m.(*SkipAheadMutator).Probability()).To(Equal(0.4))
		Expect(cache.Len()).To(Equal(1))
	})

	It("builds mutators for p=0 and p=1 without a sampler", func() {
		m, err := cache.New(StrategySkipAhead, 1, NewSource(1))
		Expect(err).ToNot(HaveOccurred())

		mutated, err := m.Mutate(bitchain.MustParse("0011"))
		Expect(err).ToNot(HaveOccurred())
		Expect(mutated.String()).To(Equal("1100"))
		Expect(cache.Len()).To(BeZero())
	})

	It("passes other strategies through", func() {
		m, err := cache.New(StrategyNaive, 0.4, NewSource(1))
		Expect(err).ToNot(HaveOccurred())
		Expect(m.Strategy()).To(Equal(StrategyNaive))
		Expect(cache.Len()).To(BeZero())
	})

	It("rejects a non-positive size", func() {
		_, err := NewSamplerCache(0)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Adaptive", func() {
	It("resolves the probability from the chain length", func() {
		var lengths []int
		rate := func(n int) (float64, error) {
			lengths = append(lengths, n)
			return 1, nil
		}

		m, err := NewAdaptive(StrategySkipAhead, rate, nil, NewSource(1))
		Expect(err).ToNot(HaveOccurred())

		mutated, err := m.Mutate(bitchain.MustParse("010"))
		Expect(err).ToNot(HaveOccurred())
		Expect(mutated.String()).To(Equal("101"))
		Expect(lengths).To(Equal([]int{3}))
	})

	It("flips about one bit per chain with the inverse length rate", func() {
		m, err := NewAdaptive(StrategySkipAhead, InverseLengthRate, nil, NewSource(9))
		Expect(err).ToNot(HaveOccurred())

		chain := bitchain.MustParse("00000000000000000000000000000000000000000000000000")
		total := 0
		for i := 0; i < 5000; i++ {
			mutated, err := m.Mutate(chain)
			Expect(err).ToNot(HaveOccurred())
			total += mutated.Ones()
		}
		Expect(float64(total) / 5000).To(BeNumerically("~", 1.0, 0.1))
	})

	It("shares a cache across calls", func() {
		cache, err := NewSamplerCache(8)
		Expect(err).ToNot(HaveOccurred())

		m, err := NewAdaptive(StrategySkipAhead, InverseLengthRate, cache, NewSource(1))
		Expect(err).ToNot(HaveOccurred())

		for _, s := range []string{"0101", "1111", "01", "0000"} {
			_, err := m.Mutate(bitchain.MustParse(s))
			Expect(err).ToNot(HaveOccurred())
		}
		Expect(cache.Len()).To(Equal(2))
	})

	It("handles empty chains", func() {
		m, err := NewAdaptive(StrategyNaive, InverseLengthRate, nil, NewSource(1))
		Expect(err).ToNot(HaveOccurred())

		mutated, err := m.Mutate(bitchain.BitChain{})
		Expect(err).ToNot(HaveOccurred())
		Expect(mutated).To(BeEmpty())
	})

	It("surfaces rate errors", func() {
		boom := errors.New("boom")
		m, err := NewAdaptive(StrategyNaive, func(int) (float64, error) { return 0, boom }, nil, nil)
		Expect(err).ToNot(HaveOccurred())

		_, err = m.Mutate(bitchain.MustParse("01"))
		Expect(err).To(MatchError(boom))
	})

	It("rejects out-of-range rates", func() {
		m, err := NewAdaptive(StrategySkipAhead, FixedRate(3), nil, nil)
		Expect(err).ToNot(HaveOccurred())

		_, err = m.Mutate(bitchain.MustParse("01"))
		Expect(err).To(MatchError(ErrInvalidProbability))
	})

	It("rejects unknown strategies", func() {
		_, err := NewAdaptive("uniform", FixedRate(0.1), nil, nil)
		Expect(err).To(MatchError(ErrUnknownStrategy))
	})
})
