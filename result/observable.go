package result

import (
	"context"
	"sync"

	"github.com/beatlabs/resource/model"
)

type subscriber[M model.Model] struct {
	onNext  func(*Result[M])
	onError func(error)
}

// Observable is a multicast stream of exactly one terminal event, a result or an error.
// Every subscriber receives the event, including the ones subscribing after it happened.
type Observable[M model.Model] struct {
	mu      sync.Mutex
	done    chan struct{}
	settled bool
	res     *Result[M]
	err     error
	subs    []subscriber[M]
}

func newObservable[M model.Model]() *Observable[M] {
	return &Observable[M]{done: make(chan struct{})}
}

// Subscribe registers the callbacks of the terminal event. Either callback may be nil.
// Subscribers are notified in subscription order. After the event, the matching callback
// runs immediately on the calling goroutine.
func (o *Observable[M]) Subscribe(onNext func(*Result[M]), onError func(error)) {
	sub := subscriber[M]{onNext: onNext, onError: onError}
	o.mu.Lock()
	if !o.settled {
		o.subs = append(o.subs, sub)
		o.mu.Unlock()
		return
	}
	res, err := o.res, o.err
	o.mu.Unlock()
	notify(sub, res, err)
}

// Done is closed when the event happened.
func (o *Observable[M]) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the event or the end of the context.
func (o *Observable[M]) Wait(ctx context.Context) (*Result[M], error) {
	select {
	case <-o.done:
		o.mu.Lock()
		defer o.mu.Unlock()
		return o.res, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// emit settles the observable once. Later calls are ignored.
func (o *Observable[M]) emit(res *Result[M], err error) bool {
	o.mu.Lock()
	if o.settled {
		o.mu.Unlock()
		return false
	}
	o.settled = true
	o.res, o.err = res, err
	subs := o.subs
	o.subs = nil
	close(o.done)
	o.mu.Unlock()

	for _, sub := range subs {
		notify(sub, res, err)
	}
	return true
}

func notify[M model.Model](sub subscriber[M], res *Result[M], err error) {
	if err != nil {
		if sub.onError != nil {
			sub.onError(err)
		}
		return
	}
	if sub.onNext != nil {
		sub.onNext(res)
	}
}
