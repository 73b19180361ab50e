package mutation

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidProbability = errors.New("invalid flip probability")

	// ErrDegenerateProbability is returned for p = 0 (no flip ever happens)
	// and p = 1 (every position flips), where no skip distance is sampled.
	ErrDegenerateProbability = errors.New("probability has no geometric skip distribution")
)

// Skips that do not fit in an int are clamped to math.MaxInt, which is past
// the end of any chain.
const maxSkip = float64(math.MaxInt)

func checkProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: %v is not in [0, 1]", ErrInvalidProbability, p)
	}
	return nil
}

// Sampler draws the number of unflipped positions preceding the next flip,
// i.e. the count of Bernoulli(p) failures before the first success.
type Sampler struct {
	p float64

	// 1 / ln(1-p), negative for 0 < p < 1
	invLogQ float64
}

func NewSampler(p float64) (Sampler, error) {
	if err := checkProbability(p); err != nil {
		return Sampler{}, err
	}
	if p == 0 || p == 1 {
		return Sampler{}, fmt.Errorf("%w: p = %v", ErrDegenerateProbability, p)
	}

	// Log1p keeps ln(1-p) away from zero for p below the float64 epsilon
	return Sampler{
		p:       p,
		invLogQ: 1 / math.Log1p(-p),
	}, nil
}

func (s Sampler) Probability() float64 {
	return s.p
}

// Skip maps a uniform draw u in [0, 1) to floor(ln(1-u) / ln(1-p))
func (s Sampler) Skip(u float64) int {
	skip := math.Floor(math.Log1p(-u) * s.invLogQ)
	if skip >= maxSkip {
		return math.MaxInt
	}
	return int(skip)
}

// Next takes one draw from src and converts it to a skip distance
func (s Sampler) Next(src Source) int {
	return s.Skip(src.Float64())
}
