// Package circuitbreaker implements the circuit breaker pattern used by the HTTP transport.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/beatlabs/resource/metric"
)

type status int

const (
	closed status = iota
	halfOpen
	open
)

var (
	// ErrOpen is returned when the circuit is open.
	ErrOpen = errors.New("circuit is open")

	utcFuture = time.Date(9999, 12, 31, 23, 59, 59, 999999, time.UTC)
	now       = func() time.Time { return time.Now().UTC() }

	statusGauge = metric.MustRegister(metric.NewGauge("circuit_breaker", "status",
		"Status of the circuit breaker: 0 closed, 1 half open, 2 open.", "name"))
)

// Setting definition. Zero thresholds default to one.
type Setting struct {
	// The threshold for the circuit to open.
	FailureThreshold uint
	// The timeout after which we set the state to half-open and allow a retry.
	RetryTimeout time.Duration
	// The threshold of the retry successes which returns the state to closed.
	RetrySuccessThreshold uint
	// The threshold of how many retry executions are allowed when the status is half-open.
	MaxRetryExecutionThreshold uint
}

// Action function to execute in circuit breaker.
type Action func() (interface{}, error)

// CircuitBreaker implementation.
type CircuitBreaker struct {
	name string
	set  Setting
	sync.Mutex
	status     status
	executions uint
	failures   uint
	retries    uint
	nextRetry  time.Time
}

// New constructor.
func New(name string, s Setting) (*CircuitBreaker, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 1
	}
	if s.RetrySuccessThreshold == 0 {
		s.RetrySuccessThreshold = 1
	}
	if s.MaxRetryExecutionThreshold == 0 {
		s.MaxRetryExecutionThreshold = s.RetrySuccessThreshold
	}
	if s.RetrySuccessThreshold > s.MaxRetryExecutionThreshold {
		return nil, errors.New("max retry execution threshold should not be lower than the retry success threshold")
	}
	cb := &CircuitBreaker{
		name:      name,
		set:       s,
		nextRetry: utcFuture,
	}
	statusGauge.WithLabelValues(name).Set(float64(closed))
	return cb, nil
}

func (cb *CircuitBreaker) isHalfOpen() bool {
	return cb.status == halfOpen || (cb.status == open && !now().Before(cb.nextRetry))
}

func (cb *CircuitBreaker) isOpen() bool {
	return cb.status == open && now().Before(cb.nextRetry)
}

// Execute the function enclosed.
func (cb *CircuitBreaker) Execute(act Action) (interface{}, error) {
	cb.Lock()
	if cb.isOpen() {
		cb.Unlock()
		return nil, ErrOpen
	}
	if cb.isHalfOpen() {
		if cb.executions >= cb.set.MaxRetryExecutionThreshold {
			cb.Unlock()
			return nil, ErrOpen
		}
		cb.transition(halfOpen)
		cb.executions++
	}
	cb.Unlock()

	resp, err := act()

	cb.Lock()
	defer cb.Unlock()
	if err != nil {
		cb.incFailure()
		return nil, err
	}
	cb.incSuccess()
	return resp, nil
}

func (cb *CircuitBreaker) incFailure() {
	cb.failures++
	if cb.status == closed && cb.failures < cb.set.FailureThreshold {
		return
	}
	cb.transition(open)
	cb.executions = 0
	cb.retries = 0
	cb.nextRetry = now().Add(cb.set.RetryTimeout)
}

func (cb *CircuitBreaker) incSuccess() {
	if cb.status == closed {
		cb.failures = 0
		return
	}
	cb.retries++
	if cb.retries < cb.set.RetrySuccessThreshold {
		return
	}
	cb.transition(closed)
	cb.failures = 0
	cb.executions = 0
	cb.retries = 0
	cb.nextRetry = utcFuture
}

func (cb *CircuitBreaker) transition(s status) {
	cb.status = s
	statusGauge.WithLabelValues(cb.name).Set(float64(s))
}
