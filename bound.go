package resource

import (
	"context"
	"fmt"

	"github.com/beatlabs/resource/model"
	"github.com/beatlabs/resource/result"
)

// Bound runs the actions of a resource on an instance. The instance is the payload of every
// call and object responses are loaded onto it.
type Bound[M model.Model] struct {
	res      *Resource[M]
	instance M
}

// Bind returns the actions of the instance.
func (r *Resource[M]) Bind(m M) *Bound[M] {
	return &Bound[M]{res: r, instance: m}
}

// Instance returns the bound instance.
func (b *Bound[M]) Instance() M {
	return b.instance
}

// Call invokes the named action on the instance with the arguments (query, success, error).
// The query and the callbacks are optional.
func (b *Bound[M]) Call(ctx context.Context, name string, args ...interface{}) (*result.Result[M], error) {
	act, ok := b.res.actions[name]
	if !ok {
		return nil, &ConfigurationError{Resource: b.res.name, Action: name, Reason: "action is not declared"}
	}
	call, err := boundArgs[M](args)
	if err != nil {
		return nil, &ConfigurationError{Resource: b.res.name, Action: name, Reason: err.Error()}
	}
	call.Payload = b.instance
	if act.IsList {
		return b.res.invoke(ctx, name, call, nil)
	}
	return b.res.invoke(ctx, name, call, &b.instance)
}

func boundArgs[M model.Model](args []interface{}) (Call[M], error) {
	var query, success, fail interface{}
	switch len(args) {
	case 0:
	case 1:
		if isCallable(args[0]) {
			success = args[0]
		} else {
			query = args[0]
		}
	case 2:
		if isCallable(args[0]) {
			success, fail = args[0], args[1]
		} else {
			query, success = args[0], args[1]
		}
	case 3:
		query, success, fail = args[0], args[1], args[2]
	default:
		return Call[M]{}, fmt.Errorf("expected up to 3 arguments, got %d", len(args))
	}

	return newCall[M](query, nil, success, fail)
}

// Get reloads the instance.
func (b *Bound[M]) Get(ctx context.Context, args ...interface{}) (*result.Result[M], error) {
	return b.Call(ctx, ActionGet, args...)
}

// Save creates the instance.
func (b *Bound[M]) Save(ctx context.Context, args ...interface{}) (*result.Result[M], error) {
	return b.Call(ctx, ActionSave, args...)
}

// Update replaces the instance.
func (b *Bound[M]) Update(ctx context.Context, args ...interface{}) (*result.Result[M], error) {
	return b.Call(ctx, ActionUpdate, args...)
}

// Patch partially updates the instance.
func (b *Bound[M]) Patch(ctx context.Context, args ...interface{}) (*result.Result[M], error) {
	return b.Call(ctx, ActionPatch, args...)
}

// Remove deletes the instance.
func (b *Bound[M]) Remove(ctx context.Context, args ...interface{}) (*result.Result[M], error) {
	return b.Call(ctx, ActionRemove, args...)
}
