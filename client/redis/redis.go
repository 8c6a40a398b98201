// Package redis provides a Redis client with included tracing and metrics.
package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/beatlabs/resource/metric"
	"github.com/beatlabs/resource/trace"
	"github.com/go-redis/redis/extra/rediscmd"
	"github.com/go-redis/redis/v8"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

const (
	// Component of the spans.
	Component = "redis"
	// DBType of the spans.
	DBType = "kv"
	// Nil represents the error which is returned in case a key is not found.
	Nil = redis.Nil
)

var (
	cmdDurationMetrics = metric.MustRegister(metric.NewHistogram("redis", "cmd_duration_seconds",
		"Redis commands completed by the client.", nil, "command", "success"))
	_ redis.Hook = tracingHook{}
)

type duration struct{}

// Options wraps redis.Options for easier usage.
type Options redis.Options

// Client represents a connection with a Redis client.
type Client struct {
	*redis.Client
}

// New returns a new Redis client.
func New(opt Options) Client {
	clientOptions := redis.Options(opt)
	cl := redis.NewClient(&clientOptions)
	cl.AddHook(tracingHook{address: cl.Options().Addr})
	return Client{Client: cl}
}

type tracingHook struct {
	address string
}

func (th tracingHook) BeforeProcess(ctx context.Context, cmd redis.Cmder) (context.Context, error) {
	_, ctx = startSpan(ctx, th.address, rediscmd.CmdString(cmd))
	return context.WithValue(ctx, duration{}, time.Now()), nil
}

func (th tracingHook) AfterProcess(ctx context.Context, cmd redis.Cmder) error {
	finish(ctx, rediscmd.CmdString(cmd), cmd.Err())
	return nil
}

func (th tracingHook) BeforeProcessPipeline(ctx context.Context, cmds []redis.Cmder) (context.Context, error) {
	_, opName := rediscmd.CmdsString(cmds)
	_, ctx = startSpan(ctx, th.address, opName)
	return context.WithValue(ctx, duration{}, time.Now()), nil
}

func (th tracingHook) AfterProcessPipeline(ctx context.Context, cmds []redis.Cmder) error {
	_, opName := rediscmd.CmdsString(cmds)
	var err error
	if len(cmds) > 0 {
		err = cmds[0].Err()
	}
	finish(ctx, opName, err)
	return nil
}

func finish(ctx context.Context, cmd string, err error) {
	if errors.Is(err, redis.Nil) {
		err = nil
	}
	if sp := opentracing.SpanFromContext(ctx); sp != nil {
		trace.SpanComplete(sp, err)
	}
	start, ok := ctx.Value(duration{}).(time.Time)
	if !ok {
		return
	}
	durationHistogram := trace.Histogram{
		Observer: cmdDurationMetrics.WithLabelValues(cmd, strconv.FormatBool(err == nil)),
	}
	durationHistogram.Observe(ctx, time.Since(start).Seconds())
}

func startSpan(ctx context.Context, address, opName string) (opentracing.Span, context.Context) {
	sp, ctx := trace.ChildSpan(ctx, opName, Component)
	ext.DBType.Set(sp, DBType)
	ext.DBInstance.Set(sp, address)
	ext.DBStatement.Set(sp, opName)
	return sp, ctx
}
