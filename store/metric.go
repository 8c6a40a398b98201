package store

import (
	"time"

	"github.com/beatlabs/resource/metric"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	reasonExpired     = "expired"
	reasonPopped      = "popped"
	reasonInvalidated = "invalidated"
	reasonCapacity    = "capacity"
)

type metrics interface {
	add(store string)
	miss(store string)
	hit(store string)
	dedup(store string)
	err(store string)
	evict(store, reason string, age time.Duration)
}

type prometheusMetrics struct {
	ageHistogram *prometheus.HistogramVec
	operations   *prometheus.CounterVec
}

func (m *prometheusMetrics) add(store string) {
	m.operations.WithLabelValues(store, "add", "").Inc()
}

func (m *prometheusMetrics) miss(store string) {
	m.operations.WithLabelValues(store, "miss", "").Inc()
}

func (m *prometheusMetrics) hit(store string) {
	m.operations.WithLabelValues(store, "hit", "").Inc()
}

func (m *prometheusMetrics) dedup(store string) {
	m.operations.WithLabelValues(store, "dedup", "").Inc()
}

func (m *prometheusMetrics) err(store string) {
	m.operations.WithLabelValues(store, "err", "").Inc()
}

func (m *prometheusMetrics) evict(store, reason string, age time.Duration) {
	m.ageHistogram.WithLabelValues(store).Observe(age.Seconds())
	m.operations.WithLabelValues(store, "evict", reason).Inc()
}

var monitor metrics = newPrometheusMetrics()

func newPrometheusMetrics() *prometheusMetrics {
	histogram := metric.NewHistogram("store", "eviction_age_seconds", "Age of evicted cache entries.",
		[]float64{1, 10, 30, 60, 60 * 5, 60 * 10, 60 * 30, 60 * 60}, "store")
	operations := metric.NewCounter("store", "operations_total", "Number of cache store operations.",
		"store", "operation", "reason")

	return &prometheusMetrics{
		ageHistogram: metric.MustRegister(histogram),
		operations:   metric.MustRegister(operations),
	}
}
