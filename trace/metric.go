package trace

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Counter is a wrapper of a prometheus.Counter.
type Counter struct {
	prometheus.Counter
}

// Add adds the given value to the counter. If there is a jaeger span associated with ctx the
// trace id is recorded as the exemplar of the observation.
func (c *Counter) Add(ctx context.Context, count float64) {
	if id, ok := ID(ctx); ok {
		if counter, ok := c.Counter.(prometheus.ExemplarAdder); ok {
			counter.AddWithExemplar(count, prometheus.Labels{TraceID: id})
			return
		}
	}
	c.Counter.Add(count)
}

// Inc increments the counter by one.
func (c *Counter) Inc(ctx context.Context) {
	c.Add(ctx, 1)
}

// Histogram is a wrapper of a prometheus.Observer.
type Histogram struct {
	prometheus.Observer
}

// Observe adds an observation. If there is a jaeger span associated with ctx the trace id is
// recorded as the exemplar of the observation.
func (h *Histogram) Observe(ctx context.Context, v float64) {
	if id, ok := ID(ctx); ok {
		if observer, ok := h.Observer.(prometheus.ExemplarObserver); ok {
			observer.ObserveWithExemplar(v, prometheus.Labels{TraceID: id})
			return
		}
	}
	h.Observer.Observe(v)
}
