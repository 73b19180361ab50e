package mutation

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/they4kman/experimentation/machine-learning/genetic-algorithms/bitflip/bitchain"
)

var _ = Describe("MutateAll", func() {
	var chains []bitchain.BitChain

	BeforeEach(func() {
		src := NewSource(42)
		chains = make([]bitchain.BitChain, 100)
		for i := range chains {
			chains[i] = bitchain.Random(10+i, src)
		}
	})

	It("keeps input order across workers", func() {
		mutated, err := MutateAll(context.Background(), chains, 4, SeededFactory(StrategySkipAhead, 1, 7))
		Expect(err).ToNot(HaveOccurred())
		Expect(mutated).To(HaveLen(len(chains)))

		for i, chain := range chains {
			complemented, err := chain.Complement()
			Expect(err).ToNot(HaveOccurred())
			Expect(mutated[i]).To(Equal(complemented), "chain %d", i)
		}
	})

	It("is reproducible with a single seeded worker", func() {
		first, err := MutateAll(context.Background(), chains, 1, SeededFactory(StrategyNaive, 0.1, 7))
		Expect(err).ToNot(HaveOccurred())
		second, err := MutateAll(context.Background(), chains, 1, SeededFactory(StrategyNaive, 0.1, 7))
		Expect(err).ToNot(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("gives every worker its own mutator", func() {
		workers := make(chan int, 8)
		factory := func(worker int) (Mutator, error) {
			workers <- worker
			return NewSkipAhead(0.1, NewSource(int64(worker)+1))
		}

		_, err := MutateAll(context.Background(), chains, 8, factory)
		Expect(err).ToNot(HaveOccurred())
		close(workers)

		seen := map[int]bool{}
		for w := range workers {
			Expect(seen).ToNot(HaveKey(w))
			seen[w] = true
		}
		Expect(seen).To(HaveLen(8))
	})

	It("never starts more workers than chains", func() {
		created := 0
		factory := func(worker int) (Mutator, error) {
			created++
			return NewNaive(0.1, NewSource(1))
		}

		_, err := MutateAll(context.Background(), chains[:1], 16, factory)
		Expect(err).ToNot(HaveOccurred())
		Expect(created).To(Equal(1))
	})

	It("leaves the inputs untouched", func() {
		clones := make([]bitchain.BitChain, len(chains))
		for i, chain := range chains {
			clones[i] = chain.Clone()
		}

		_, err := MutateAll(context.Background(), chains, 0, SeededFactory(StrategySkipAhead, 0.5, 3))
		Expect(err).ToNot(HaveOccurred())
		Expect(chains).To(Equal(clones))
	})

	It("returns an empty result for no chains", func() {
		mutated, err := MutateAll(context.Background(), nil, 4, SeededFactory(StrategySkipAhead, 0.5, 3))
		Expect(err).ToNot(HaveOccurred())
		Expect(mutated).To(BeEmpty())
	})

	It("fails on a malformed chain", func() {
		chains[50] = bitchain.BitChain("01x")

		mutated, err := MutateAll(context.Background(), chains, 4, SeededFactory(StrategySkipAhead, 0.5, 3))
		Expect(err).To(MatchError(bitchain.ErrInvalidSymbol))
		Expect(err.Error()).To(ContainSubstring("chain 50"))
		Expect(mutated).To(BeNil())
	})

	It("fails when a mutator cannot be created", func() {
		_, err := MutateAll(context.Background(), chains, 4, SeededFactory(StrategySkipAhead, 2, 3))
		Expect(err).To(MatchError(ErrInvalidProbability))

		boom := errors.New("boom")
		_, err = MutateAll(context.Background(), chains, 2, func(worker int) (Mutator, error) {
			return nil, fmt.Errorf("worker %d: %w", worker, boom)
		})
		Expect(err).To(MatchError(boom))
	})

	It("stops on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := MutateAll(ctx, chains, 4, SeededFactory(StrategySkipAhead, 0.5, 3))
		Expect(err).To(MatchError(context.Canceled))
	})
})
