package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/they4kman/experimentation/machine-learning/genetic-algorithms/bitflip/bitchain"
	"github.com/they4kman/experimentation/machine-learning/genetic-algorithms/bitflip/config"
	"github.com/they4kman/experimentation/machine-learning/genetic-algorithms/bitflip/mutation"
)

var numPrinter = message.NewPrinter(language.English)

// =============================================================================
// MUTATE COMMAND
// =============================================================================

type mutateOptions struct {
	*rootOptions

	configPath  string
	showMetrics bool

	// flag values, applied over the config file only when given
	flags *config.Params
}

func newMutateCmd(root *rootOptions) *cobra.Command {
	opts := &mutateOptions{
		rootOptions: root,
		flags:       config.DefaultParams(),
	}

	cmd := &cobra.Command{
		Use:   "mutate [CHAIN...]",
		Short: "Mutate bit chains, read from arguments or stdin",
		Long: `Mutate flips every bit of each chain independently with the configured
probability and prints one mutated chain per line, in input order.

The probability may be an expression over the chain length n, e.g. "1/n"
(the default) or "min(0.5, 2/n)".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutate(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "YAML file with mutation parameters")
	flags.BoolVar(&opts.showMetrics, "metrics", false, "Print mutation counters to stderr after the run")
	flags.StringVar(&opts.flags.Strategy, "strategy", opts.flags.Strategy, "Mutation strategy: naive or skipahead")
	flags.StringVarP(&opts.flags.Probability, "probability", "p", opts.flags.Probability, "Flip probability, a number or an expression over the chain length n")
	flags.Int64Var(&opts.flags.Seed, "seed", opts.flags.Seed, "Random seed. 0 picks a time-based seed. A seeded run is reproducible with a single worker, the default when --workers is unset")
	flags.IntVar(&opts.flags.Workers, "workers", opts.flags.Workers, "Number of concurrent workers. 0 means GOMAXPROCS, or 1 when --seed is set")
	flags.IntVar(&opts.flags.Repeat, "repeat", opts.flags.Repeat, "Number of mutated copies printed per input chain")
	flags.IntVar(&opts.flags.CacheSize, "cache-size", opts.flags.CacheSize, "Number of distinct probabilities to keep samplers for")

	return cmd
}

// resolveParams loads the config file, if any, and overrides it with the
// flags that were set explicitly
func resolveParams(cmd *cobra.Command, opts *mutateOptions) (*config.Params, error) {
	params := config.DefaultParams()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		params = loaded
	}

	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "strategy":
			params.Strategy = opts.flags.Strategy
		case "probability":
			params.Probability = opts.flags.Probability
		case "seed":
			params.Seed = opts.flags.Seed
		case "workers":
			params.Workers = opts.flags.Workers
		case "repeat":
			params.Repeat = opts.flags.Repeat
		case "cache-size":
			params.CacheSize = opts.flags.CacheSize
		}
	})

	// chains reach workers in scheduler order
	if params.Seed != 0 && params.Workers == 0 {
		params.Workers = 1
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

func runMutate(cmd *cobra.Command, opts *mutateOptions, args []string) error {
	logger := opts.logger

	params, err := resolveParams(cmd, opts)
	if err != nil {
		return err
	}
	logger.Debug("resolved parameters",
		"strategy", params.Strategy,
		"probability", params.Probability,
		"seed", params.Seed,
		"workers", params.Workers,
		"repeat", params.Repeat,
	)

	var inputs []bitchain.BitChain
	if len(args) > 0 {
		inputs, err = parseChains(args)
	} else {
		inputs, err = readChains(cmd.InOrStdin())
	}
	if err != nil {
		return err
	}

	chains := make([]bitchain.BitChain, 0, len(inputs)*params.Repeat)
	for _, chain := range inputs {
		for i := 0; i < params.Repeat; i++ {
			chains = append(chains, chain)
		}
	}

	strategy, err := params.MutationStrategy()
	if err != nil {
		return err
	}
	rate, err := params.Rate()
	if err != nil {
		return err
	}
	cache, err := mutation.NewSamplerCache(params.CacheSize)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	metrics := mutation.NewMetrics(registry)

	factory := func(worker int) (mutation.Mutator, error) {
		seed := params.Seed
		if seed != 0 {
			seed += int64(worker)
		}

		m, err := mutation.NewAdaptive(strategy, rate, cache, mutation.NewSource(seed))
		if err != nil {
			return nil, err
		}
		return metrics.Instrument(m), nil
	}

	mutated, err := mutation.MutateAll(cmd.Context(), chains, params.Workers, factory)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	for _, chain := range mutated {
		fmt.Fprintln(out, chain)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	logger.Info("mutation finished", "chains", len(mutated), "strategy", strategy)

	if opts.showMetrics {
		return printMetrics(cmd.ErrOrStderr(), registry)
	}
	return nil
}

func parseChains(lines []string) ([]bitchain.BitChain, error) {
	chains := make([]bitchain.BitChain, 0, len(lines))
	for i, line := range lines {
		chain, err := bitchain.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("chain %d: %w", i+1, err)
		}
		chains = append(chains, chain)
	}
	return chains, nil
}

// readChains reads one chain per line, skipping blank lines
func readChains(r io.Reader) ([]bitchain.BitChain, error) {
	var chains []bitchain.BitChain

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		chain, err := bitchain.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		chains = append(chains, chain)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading chains: %w", err)
	}
	return chains, nil
}

func printMetrics(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, label := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", label.GetName(), label.GetValue()))
			}
			numPrinter.Fprintf(w, "%s{%s} %d\n", family.GetName(), strings.Join(labels, ","), int64(metric.GetCounter().GetValue()))
		}
	}
	return nil
}
