// Package retry provides a retry pattern implementation.
package retry

import (
	"context"
	"errors"
	"time"
)

// Action function to execute in retry.
type Action func() (interface{}, error)

// Retry pattern with attempts and optional delay.
type Retry struct {
	attempts int
	delay    time.Duration
}

// New constructor.
func New(attempts int, delay time.Duration) (*Retry, error) {
	if attempts <= 1 {
		return nil, errors.New("attempts should be greater than 1")
	}
	if delay < 0 {
		return nil, errors.New("delay should not be negative")
	}
	return &Retry{attempts: attempts, delay: delay}, nil
}

// Execute a specific action. Waiting between attempts stops when the context is done.
func (r Retry) Execute(ctx context.Context, act Action) (interface{}, error) {
	var err error
	var res interface{}

	for i := 0; i < r.attempts; i++ {
		res, err = act()
		if err == nil {
			return res, nil
		}
		if i == r.attempts-1 {
			break
		}
		if r.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Join(err, ctx.Err())
			case <-time.After(r.delay):
			}
		} else if ctx.Err() != nil {
			return nil, errors.Join(err, ctx.Err())
		}
	}
	return nil, err
}
