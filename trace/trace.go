// Package trace sets up the global opentracing tracer and provides span helpers.
package trace

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/beatlabs/resource/log"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/uber/jaeger-client-go"
	"github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-client-go/rpcmetrics"
	"github.com/uber/jaeger-lib/metrics"
	"github.com/uber/jaeger-lib/metrics/prometheus"
)

const (
	// VersionTag is used to tag the spans with the version of the service.
	VersionTag = "version"
	// TraceID is the label of the trace id in metric exemplars.
	TraceID = "traceID"
	// CorrelationIDTag tags spans with the correlation id of the call.
	CorrelationIDTag = "correlationID"
)

var (
	mu      sync.Mutex
	cls     io.Closer
	version = "dev"
)

// Setup tracing by providing a local agent address.
func Setup(name, ver, agentAddress, samplerType string, samplerParam float64) error {
	if ver != "" {
		version = ver
	}
	cfg := config.Configuration{
		ServiceName: name,
		Sampler: &config.SamplerConfig{
			Type:  samplerType,
			Param: samplerParam,
		},
		Reporter: &config.ReporterConfig{
			LogSpans:            false,
			BufferFlushInterval: 1 * time.Second,
			LocalAgentHostPort:  agentAddress,
		},
	}
	metricsFactory := prometheus.New()
	tr, clsTemp, err := cfg.NewTracer(
		config.Logger(jaegerLoggerAdapter{}),
		config.Observer(rpcmetrics.NewObserver(metricsFactory.Namespace(metrics.NSOptions{Name: name}), rpcmetrics.DefaultNameNormalizer)),
	)
	if err != nil {
		return fmt.Errorf("cannot initialize jaeger tracer: %w", err)
	}
	mu.Lock()
	cls = clsTemp
	mu.Unlock()
	opentracing.SetGlobalTracer(tr)
	return nil
}

// Close the tracer.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if cls == nil {
		return nil
	}
	log.Debug("closing tracer")
	err := cls.Close()
	cls = nil
	return err
}

// ComponentOpName returns a operation name for a component.
func ComponentOpName(cmp, target string) string {
	return cmp + " " + target
}

// ChildSpan starts a new child span with specified tags.
func ChildSpan(ctx context.Context, opName, cmp string, tags ...opentracing.Tag) (opentracing.Span, context.Context) {
	sp, ctx := opentracing.StartSpanFromContext(ctx, opName)
	ext.Component.Set(sp, cmp)
	for _, t := range tags {
		sp.SetTag(t.Key, t.Value)
	}
	sp.SetTag(VersionTag, version)
	return sp, ctx
}

// SpanComplete finishes a span with or without an error indicator.
func SpanComplete(sp opentracing.Span, err error) {
	if err != nil {
		SpanError(sp)
		return
	}
	SpanSuccess(sp)
}

// SpanSuccess finishes a span with a success indicator.
func SpanSuccess(sp opentracing.Span) {
	ext.Error.Set(sp, false)
	sp.Finish()
}

// SpanError finishes a span with a error indicator.
func SpanError(sp opentracing.Span) {
	ext.Error.Set(sp, true)
	sp.Finish()
}

// ID returns the trace id of the span in the context, when the tracer is jaeger.
func ID(ctx context.Context) (string, bool) {
	sp := opentracing.SpanFromContext(ctx)
	if sp == nil {
		return "", false
	}
	sctx, ok := sp.Context().(jaeger.SpanContext)
	if !ok {
		return "", false
	}
	return sctx.TraceID().String(), true
}

type jaegerLoggerAdapter struct{}

func (l jaegerLoggerAdapter) Error(msg string) {
	log.Error(msg)
}

func (l jaegerLoggerAdapter) Infof(msg string, args ...interface{}) {
	log.Infof(msg, args...)
}
