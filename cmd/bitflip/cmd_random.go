package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/they4kman/experimentation/machine-learning/genetic-algorithms/bitflip/bitchain"
	"github.com/they4kman/experimentation/machine-learning/genetic-algorithms/bitflip/mutation"
)

// =============================================================================
// RANDOM COMMAND
// =============================================================================

func newRandomCmd(root *rootOptions) *cobra.Command {
	var (
		seed      int64
		count     int
		groupSize int
	)

	cmd := &cobra.Command{
		Use:   "random LENGTH",
		Short: "Print random bit chains, each bit set with probability 1/2",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			length, err := strconv.Atoi(args[0])
			if err != nil || length < 0 {
				return fmt.Errorf("invalid chain length %q, expected a non-negative integer", args[0])
			}
			if count < 1 {
				return fmt.Errorf("invalid --count %d, expected at least 1", count)
			}

			src := mutation.NewSource(seed)
			for i := 0; i < count; i++ {
				fmt.Fprintln(cmd.OutOrStdout(), bitchain.Random(length, src).Grouped(groupSize))
			}
			root.logger.Debug("generated random chains", "count", count, "length", length, "seed", seed)
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed. 0 picks a time-based seed")
	cmd.Flags().IntVar(&count, "count", 1, "Number of chains to print")
	cmd.Flags().IntVar(&groupSize, "group", 0, "Separate every N bits with a space. 0 disables grouping")
	return cmd
}
