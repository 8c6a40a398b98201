// Package http provides the traced HTTP transport of resources.
package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/beatlabs/resource/correlation"
	"github.com/beatlabs/resource/metric"
	"github.com/beatlabs/resource/reliability/circuitbreaker"
	"github.com/beatlabs/resource/reliability/retry"
	"github.com/beatlabs/resource/trace"
	"github.com/opentracing-contrib/go-stdlib/nethttp"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"golang.org/x/time/rate"
)

const (
	clientComponent = "http-client"
)

var reqDurationMetrics = metric.MustRegister(metric.NewHistogram("http_client", "request_duration_seconds",
	"HTTP requests completed by the client.", nil, "method", "host", "status_code"))

// Client interface of a HTTP client.
type Client interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

var _ Client = &TracedClient{}

// TracedClient defines a HTTP client with tracing integrated.
type TracedClient struct {
	cl      *http.Client
	cb      *circuitbreaker.CircuitBreaker
	retry   *retry.Retry
	limiter *rate.Limiter
}

// New creates a new HTTP client.
func New(oo ...OptionFunc) (*TracedClient, error) {
	tc := &TracedClient{
		cl: &http.Client{
			Timeout:   60 * time.Second,
			Transport: &nethttp.Transport{},
		},
	}

	for _, o := range oo {
		err := o(tc)
		if err != nil {
			return nil, err
		}
	}

	return tc, nil
}

// Do executes a HTTP request with integrated tracing and tracing propagation downstream.
func (tc *TracedClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	req, ht := nethttp.TraceRequest(opentracing.GlobalTracer(), req,
		nethttp.OperationName(opName(req.Method, req.URL.String())),
		nethttp.ComponentName(clientComponent))
	defer ht.Finish()

	correlation.SetHeader(ctx, req)

	start := time.Now()
	rsp, err := tc.do(ctx, req)

	if sp := ht.Span(); sp != nil {
		if err != nil {
			ext.Error.Set(sp, true)
		} else {
			ext.HTTPStatusCode.Set(sp, uint16(rsp.StatusCode))
		}
		ext.HTTPMethod.Set(sp, req.Method)
		ext.HTTPUrl.Set(sp, req.URL.String())
		sp.SetTag(correlation.ID, req.Header.Get(correlation.HeaderID))
	}

	if err == nil {
		durationHistogram := trace.Histogram{
			Observer: reqDurationMetrics.WithLabelValues(req.Method, req.URL.Host, strconv.Itoa(rsp.StatusCode)),
		}
		durationHistogram.Observe(ctx, time.Since(start).Seconds())
	}
	return rsp, err
}

func (tc *TracedClient) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if tc.limiter != nil {
		if err := tc.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	attempt := 0
	call := func() (interface{}, error) {
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			req.Body = body
		}
		attempt++
		return tc.breaker(req)
	}

	if tc.retry == nil {
		return asResponse(call())
	}
	return asResponse(tc.retry.Execute(ctx, call))
}

func (tc *TracedClient) breaker(req *http.Request) (interface{}, error) {
	if tc.cb == nil {
		return tc.cl.Do(req)
	}
	return tc.cb.Execute(func() (interface{}, error) {
		return tc.cl.Do(req)
	})
}

func asResponse(r interface{}, err error) (*http.Response, error) {
	rsp, _ := r.(*http.Response)
	if err != nil {
		return rsp, err
	}
	return rsp, nil
}

func opName(method, path string) string {
	return "HTTP " + method + " " + path
}
