// Package config holds the parameters of a mutation run and loads them from
// YAML. The flip probability is an arithmetic expression over the chain
// length n, so the usual GA default of 1/n needs no code.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/they4kman/experimentation/machine-learning/genetic-algorithms/bitflip/mutation"
)

var ErrInvalidParams = errors.New("invalid parameters")

var validate = validator.New()

type Params struct {
	// Mutation strategy, "naive" or "skipahead"
	Strategy string `yaml:"strategy" validate:"oneof=naive skipahead"`

	// Flip probability. Either a number in [0, 1] or an expression over the
	// chain length n, e.g. "1/n" or "min(0.5, 2/n)".
	Probability string `yaml:"probability" validate:"required"`

	// Seed of the random source. 0 picks a time-based seed.
	Seed int64 `yaml:"seed"`

	// Number of workers mutating chains concurrently. 0 means GOMAXPROCS.
	Workers int `yaml:"workers" validate:"gte=0"`

	// Number of mutated copies produced per input chain
	Repeat int `yaml:"repeat" validate:"gte=1"`

	// Number of distinct probabilities whose samplers are kept around
	CacheSize int `yaml:"cache_size" validate:"gte=1"`
}

func DefaultParams() *Params {
	return &Params{
		Strategy:    string(mutation.StrategySkipAhead),
		Probability: "1/n",

		Seed:    0,
		Workers: 0,
		Repeat:  1,

		CacheSize: mutation.DefaultSamplerCacheSize,
	}
}

// Load reads params from a YAML file on top of DefaultParams. Unknown keys
// are an error.
func Load(path string) (*Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

func Decode(r io.Reader) (*Params, error) {
	params := DefaultParams()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(params); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	eval, err := compileProbability(p.Probability)
	if err != nil {
		return err
	}

	// catches unknown variables, which only show up on evaluation
	if _, err := eval.EvalFloat64(context.Background(), map[string]interface{}{"n": 1.0}); err != nil {
		return fmt.Errorf("%w: probability %q: %v", ErrInvalidParams, p.Probability, err)
	}
	return nil
}

func (p *Params) MutationStrategy() (mutation.Strategy, error) {
	return mutation.ParseStrategy(p.Strategy)
}

// Rate compiles the probability expression into a mutation.RateFunc. The
// result for an empty chain is always 0.
func (p *Params) Rate() (mutation.RateFunc, error) {
	eval, err := compileProbability(p.Probability)
	if err != nil {
		return nil, err
	}

	return func(n int) (float64, error) {
		if n == 0 {
			return 0, nil
		}

		prob, err := eval.EvalFloat64(context.Background(), map[string]interface{}{
			"n": float64(n),
		})
		if err != nil {
			return 0, fmt.Errorf("evaluating probability %q for n=%d: %w", p.Probability, n, err)
		}
		if math.IsNaN(prob) || prob < 0 || prob > 1 {
			return 0, fmt.Errorf("%w: %q gives %v for n=%d", mutation.ErrInvalidProbability, p.Probability, prob, n)
		}
		return prob, nil
	}, nil
}

// ResolveProbability evaluates the probability expression for chains of length n
func (p *Params) ResolveProbability(n int) (float64, error) {
	rate, err := p.Rate()
	if err != nil {
		return 0, err
	}
	return rate(n)
}
