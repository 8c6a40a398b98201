// Package metric creates and registers the prometheus collectors of the module.
package metric

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace of every collector created by the package.
const Namespace = "resource"

// NewCounter creates a counter.
func NewCounter(sub, name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: sub,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// NewGauge creates a gauge.
func NewGauge(sub, name, help string, labels ...string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: sub,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// NewHistogram creates a histogram. Nil buckets fall back to the prometheus defaults.
func NewHistogram(sub, name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: sub,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}

// Register the collector with the default registry. When an equal collector is already
// registered the existing one is returned, so packages can be initialised more than once.
func Register[T prometheus.Collector](c T) (T, error) {
	err := prometheus.Register(c)
	if err == nil {
		return c, nil
	}
	are := prometheus.AlreadyRegisteredError{}
	if !errors.As(err, &are) {
		return c, fmt.Errorf("failed to register collector: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, fmt.Errorf("registered collector is of type %T: %w", are.ExistingCollector, err)
	}
	return existing, nil
}

// MustRegister is like Register but panics on failure.
func MustRegister[T prometheus.Collector](c T) T {
	c, err := Register(c)
	if err != nil {
		panic(err)
	}
	return c
}
