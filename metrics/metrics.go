// Package metrics exposes Prometheus instrumentation for query compilation.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded on the compilations counter.
const (
	OutcomeOK          = "ok"
	OutcomeSyntaxError = "syntax_error"
	OutcomeError       = "error"
	OutcomeCached      = "cached"
)

// Collector records compilation counts and latencies.
type Collector struct {
	compilations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// NewCollector creates a collector and registers it with reg. A nil reg
// leaves the collector unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		compilations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "likeql_compilations_total",
				Help: "Total number of compiled search queries",
			},
			[]string{"formatter", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "likeql_compile_duration_seconds",
				Help:    "Search query compilation latency",
				Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
			},
			[]string{"formatter"},
		),
	}
	if reg == nil {
		return c, nil
	}

	var err error
	if c.compilations, err = register(reg, c.compilations); err != nil {
		return nil, err
	}
	if c.duration, err = register(reg, c.duration); err != nil {
		return nil, err
	}
	return c, nil
}

// register registers collector, reusing an identical collector registered
// earlier so that several parsers can share one registry.
func register[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return collector, err
	}
	return collector, nil
}

// Observe records one compilation. It is safe to call on a nil Collector.
func (c *Collector) Observe(formatter, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.compilations.WithLabelValues(formatter, outcome).Inc()
	if outcome != OutcomeCached {
		c.duration.WithLabelValues(formatter).Observe(elapsed.Seconds())
	}
}

// Compilations returns the counter for formatter and outcome.
func (c *Collector) Compilations(formatter, outcome string) prometheus.Counter {
	return c.compilations.WithLabelValues(formatter, outcome)
}
