package resource

import (
	"context"
	"strconv"
	"time"

	"github.com/beatlabs/resource/metric"
	"github.com/beatlabs/resource/trace"
)

const (
	outcomeHit     = "hit"
	outcomeDedup   = "dedup"
	outcomeFetched = "fetched"
	outcomeFailed  = "failed"
)

var (
	actionCounter = metric.MustRegister(metric.NewCounter("action", "total",
		"Number of resource actions by outcome.", "resource", "action", "outcome"))
	actionDuration = metric.MustRegister(metric.NewHistogram("action", "duration_seconds",
		"Duration of resource actions that reached the transport.", nil, "resource", "action", "success"))
)

func countAction(ctx context.Context, res, action, outcome string) {
	c := trace.Counter{Counter: actionCounter.WithLabelValues(res, action, outcome)}
	c.Inc(ctx)
}

func observeAction(ctx context.Context, res, action string, success bool, start time.Time) {
	h := trace.Histogram{Observer: actionDuration.WithLabelValues(res, action, strconv.FormatBool(success))}
	h.Observe(ctx, time.Since(start).Seconds())
}
