package mutation

import (
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Sampler", func() {
	DescribeTable("Skip",
		func(p, u float64, expected int) {
			sampler, err := NewSampler(p)
			Expect(err).ToNot(HaveOccurred())
			Expect(sampler.Skip(u)).To(Equal(expected))
		},
		Entry("u=0 never skips", 0.3, 0.0, 0),
		Entry("p=0.5 u=0.4", 0.5, 0.4, 0),
		Entry("p=0.5 u=0.6", 0.5, 0.6, 1),
		Entry("p=0.5 u=0.9", 0.5, 0.9, 3),
		Entry("p=0.1 u=0.5", 0.1, 0.5, 6),
		Entry("p=0.01 u=0.999999", 0.01, 0.999999, 1374),
		Entry("p=0.999 u=0.5", 0.999, 0.5, 0),
	)

	DescribeTable("rejects probabilities without a skip distribution",
		func(p float64, expected error) {
			_, err := NewSampler(p)
			Expect(err).To(MatchError(expected))
		},
		Entry("p=0", 0.0, ErrDegenerateProbability),
		Entry("p=1", 1.0, ErrDegenerateProbability),
		Entry("p<0", -0.5, ErrInvalidProbability),
		Entry("p>1", 1.5, ErrInvalidProbability),
		Entry("NaN", math.NaN(), ErrInvalidProbability),
	)

	It("keeps tiny probabilities finite", func() {
		sampler, err := NewSampler(1e-18)
		Expect(err).ToNot(HaveOccurred())
		Expect(sampler.Skip(0.5)).To(BeNumerically(">", 1e17))
	})

	It("clamps skips that do not fit in an int", func() {
		sampler, err := NewSampler(1e-300)
		Expect(err).ToNot(HaveOccurred())
		Expect(sampler.Skip(0.5)).To(Equal(math.MaxInt))
	})

	It("draws skips with the geometric mean (1-p)/p", func() {
		const draws = 100000
		p := 0.2
		sampler, err := NewSampler(p)
		Expect(err).ToNot(HaveOccurred())

		src := NewSource(11)
		total := 0
		for i := 0; i < draws; i++ {
			total += sampler.Next(src)
		}

		// stddev of a single skip is sqrt(1-p)/p ~ 4.47
		mean := float64(total) / draws
		Expect(mean).To(BeNumerically("~", (1-p)/p, 0.1))
	})

	It("matches the frequency of the first success in Bernoulli trials", func() {
		const draws = 100000
		p := 0.3
		sampler, err := NewSampler(p)
		Expect(err).ToNot(HaveOccurred())

		src := NewSource(12)
		counts := make([]int, 4)
		for i := 0; i < draws; i++ {
			if skip := sampler.Next(src); skip < len(counts) {
				counts[skip]++
			}
		}

		for k, count := range counts {
			expected := math.Pow(1-p, float64(k)) * p
			sd := math.Sqrt(expected * (1 - expected) / draws)
			Expect(float64(count)/draws).To(BeNumerically("~", expected, 5*sd), "skip %d", k)
		}
	})
})
