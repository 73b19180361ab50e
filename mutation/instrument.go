package mutation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/they4kman/experimentation/machine-learning/genetic-algorithms/bitflip/bitchain"
)

// Metrics holds the counters shared by Instrumented mutators. Register one
// Metrics per Registerer; registering twice on the same one panics.
type Metrics struct {
	calls  *prometheus.CounterVec
	bits   *prometheus.CounterVec
	flips  *prometheus.CounterVec
	errors *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them on reg. A nil reg leaves
// them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := []string{"strategy"}

	return &Metrics{
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bitflip",
			Name:      "mutations_total",
			Help:      "Mutate calls that returned a chain.",
		}, labels),
		bits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bitflip",
			Name:      "bits_total",
			Help:      "Bits in chains passed to successful Mutate calls.",
		}, labels),
		flips: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bitflip",
			Name:      "flips_total",
			Help:      "Bits flipped by successful Mutate calls.",
		}, labels),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bitflip",
			Name:      "mutation_errors_total",
			Help:      "Mutate calls rejected because of malformed input.",
		}, labels),
	}
}

// Instrument wraps m so that its calls are counted
func (mt *Metrics) Instrument(m Mutator) *Instrumented {
	return &Instrumented{
		Mutator: m,
		metrics: mt,
	}
}

// Instrumented counts calls, bits and flips of the wrapped Mutator
type Instrumented struct {
	Mutator
	metrics *Metrics
}

func (i *Instrumented) Mutate(chain bitchain.BitChain) (bitchain.BitChain, error) {
	strategy := string(i.Strategy())

	mutated, err := i.Mutator.Mutate(chain)
	if err != nil {
		i.metrics.errors.WithLabelValues(strategy).Inc()
		return nil, err
	}

	flips, err := bitchain.HammingDistance(chain, mutated)
	if err != nil {
		i.metrics.errors.WithLabelValues(strategy).Inc()
		return nil, err
	}

	i.metrics.calls.WithLabelValues(strategy).Inc()
	i.metrics.bits.WithLabelValues(strategy).Add(float64(len(chain)))
	i.metrics.flips.WithLabelValues(strategy).Add(float64(flips))
	return mutated, nil
}
