package mutation

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/they4kman/experimentation/machine-learning/genetic-algorithms/bitflip/bitchain"
)

// Factory creates the mutator owned by one worker. Each call must return a
// mutator with its own Source.
type Factory func(worker int) (Mutator, error)

// SeededFactory gives worker w a generator seeded with seed+w. Chains are
// handed to workers in no fixed order, so a batch is only reproducible with a
// single worker. A zero seed means a time-seeded generator per worker.
func SeededFactory(strategy Strategy, p float64, seed int64) Factory {
	return func(worker int) (Mutator, error) {
		workerSeed := seed
		if seed != 0 {
			workerSeed += int64(worker)
		}
		return New(strategy, p, NewSource(workerSeed))
	}
}

// MutateAll mutates every chain, spreading the work over workers goroutines.
// workers <= 0 means GOMAXPROCS. The result is in input order. The first error
// cancels the remaining work and is returned with no results.
func MutateAll(ctx context.Context, chains []bitchain.BitChain, workers int, factory Factory) ([]bitchain.BitChain, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mutated := make([]bitchain.BitChain, len(chains))
	if len(chains) == 0 {
		return mutated, nil
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(chains) {
		workers = len(chains)
	}

	g, gCtx := errgroup.WithContext(ctx)
	queue := make(chan int)

	for w := 0; w < workers; w++ {
		worker := w
		g.Go(func() error {
			m, err := factory(worker)
			if err != nil {
				return fmt.Errorf("creating mutator for worker %d: %w", worker, err)
			}

			for i := range queue {
				out, err := m.Mutate(chains[i])
				if err != nil {
					return fmt.Errorf("mutating chain %d: %w", i, err)
				}
				mutated[i] = out
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(queue)
		for i := range chains {
			select {
			case queue <- i:
			case <-gCtx.Done():
				return gCtx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return mutated, nil
}
