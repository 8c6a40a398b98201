package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/beatlabs/resource/reliability/circuitbreaker"
	"github.com/beatlabs/resource/reliability/retry"
	"github.com/opentracing-contrib/go-stdlib/nethttp"
	"golang.org/x/time/rate"
)

// OptionFunc definition for configuring the client in a functional way.
type OptionFunc func(*TracedClient) error

// WithTimeout option for adjusting the timeout of the connection.
func WithTimeout(timeout time.Duration) OptionFunc {
	return func(tc *TracedClient) error {
		if timeout <= 0 {
			return errors.New("timeout must be positive")
		}
		tc.cl.Timeout = timeout
		return nil
	}
}

// WithCircuitBreaker option for setting up a circuit breaker.
func WithCircuitBreaker(name string, set circuitbreaker.Setting) OptionFunc {
	return func(tc *TracedClient) error {
		cb, err := circuitbreaker.New(name, set)
		if err != nil {
			return fmt.Errorf("failed to set circuit breaker: %w", err)
		}
		tc.cb = cb
		return nil
	}
}

// WithRetry option for retrying failed round trips. Requests with a body are retried only
// when their body can be recreated.
func WithRetry(attempts int, delay time.Duration) OptionFunc {
	return func(tc *TracedClient) error {
		r, err := retry.New(attempts, delay)
		if err != nil {
			return fmt.Errorf("failed to set retry: %w", err)
		}
		tc.retry = r
		return nil
	}
}

// WithRateLimit option for limiting the requests per second sent by the client.
func WithRateLimit(limit float64, burst int) OptionFunc {
	return func(tc *TracedClient) error {
		if limit <= 0 {
			return errors.New("rate limit must be positive")
		}
		if burst <= 0 {
			return errors.New("rate limit burst must be positive")
		}
		tc.limiter = rate.NewLimiter(rate.Limit(limit), burst)
		return nil
	}
}

// WithTransport option for setting the round tripper of the client.
func WithTransport(rt http.RoundTripper) OptionFunc {
	return func(tc *TracedClient) error {
		if rt == nil {
			return errors.New("transport must be supplied")
		}
		tc.cl.Transport = &nethttp.Transport{RoundTripper: rt}
		return nil
	}
}

// WithCheckRedirect option for setting the redirect policy of the client.
func WithCheckRedirect(cr func(req *http.Request, via []*http.Request) error) OptionFunc {
	return func(tc *TracedClient) error {
		if cr == nil {
			return errors.New("check redirect must be supplied")
		}
		tc.cl.CheckRedirect = cr
		return nil
	}
}
