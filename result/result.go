// Package result provides the value returned by every resource action. A result is handed
// out before the call completes and is filled in place once the response arrives, so a
// reference taken early observes the final data.
package result

import (
	"context"
	"sync"

	"github.com/beatlabs/resource/model"
	"github.com/beatlabs/resource/request"
)

// Outcome is the settled value of a promise.
type Outcome[M model.Model] struct {
	Result *Result[M]
	Err    error
}

// Result wraps the model, or list of models, produced by an action.
type Result[M model.Model] struct {
	mu       sync.RWMutex
	isList   bool
	data     M
	items    []M
	req      *request.Request
	rsp      *request.Response
	resolved bool
	err      error
	obs      *Observable[M]
}

// NewObject returns an unresolved result holding the blank instance.
func NewObject[M model.Model](data M) *Result[M] {
	return &Result[M]{data: data, obs: newObservable[M]()}
}

// NewList returns an unresolved, empty list result.
func NewList[M model.Model]() *Result[M] {
	return &Result[M]{isList: true, items: []M{}, obs: newObservable[M]()}
}

// IsList reports whether the result holds a list.
func (r *Result[M]) IsList() bool {
	return r.isList
}

// Data returns the instance of an object result. It is updated in place, so the returned
// value is the one hydrated later.
func (r *Result[M]) Data() M {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data
}

// Items returns a copy of the instances of a list result.
func (r *Result[M]) Items() []M {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]M, len(r.items))
	copy(items, r.items)
	return items
}

// Len returns the number of instances of a list result.
func (r *Result[M]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Resolved reports whether the action completed, successfully or not.
func (r *Result[M]) Resolved() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolved
}

// Err returns the error of a failed action.
func (r *Result[M]) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Request returns the request that produced the result.
func (r *Result[M]) Request() *request.Request {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.req
}

// Response returns the response the result was hydrated from, nil until resolved.
func (r *Result[M]) Response() *request.Response {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rsp
}

// Observable returns the stream of the terminal event of the result.
func (r *Result[M]) Observable() *Observable[M] {
	return r.obs
}

// Promise returns a channel receiving the outcome once. An already settled result is ready
// immediately.
func (r *Result[M]) Promise() <-chan Outcome[M] {
	ch := make(chan Outcome[M], 1)
	r.obs.Subscribe(
		func(res *Result[M]) { ch <- Outcome[M]{Result: res} },
		func(err error) { ch <- Outcome[M]{Result: r, Err: err} },
	)
	return ch
}

// Await blocks until the result settles and returns it, the same pointer, or the error.
func (r *Result[M]) Await(ctx context.Context) (*Result[M], error) {
	res, err := r.obs.Wait(ctx)
	if err != nil {
		return r, err
	}
	return res, nil
}

// Attach records the request of the result.
func (r *Result[M]) Attach(req *request.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.req = req
}

// SetItems replaces the contents of a list result.
func (r *Result[M]) SetItems(items []M) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = items
}

// Mutate runs fn with exclusive access to the instance of an object result.
func (r *Result[M]) Mutate(fn func(M) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.data)
}

// Resolve settles the result successfully with the response it was hydrated from.
// Only the first settlement counts.
func (r *Result[M]) Resolve(rsp *request.Response) {
	if !r.settle(rsp, nil) {
		return
	}
	r.obs.emit(r, nil)
}

// Reject settles the result with an error. The data stays blank.
func (r *Result[M]) Reject(err error) {
	if !r.settle(nil, err) {
		return
	}
	r.obs.emit(r, err)
}

func (r *Result[M]) settle(rsp *request.Response, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved {
		return false
	}
	r.resolved = true
	r.rsp = rsp
	r.err = err
	return true
}
