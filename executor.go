package resource

import (
	"context"
	"net/http"
	"time"

	"github.com/beatlabs/resource/correlation"
	"github.com/beatlabs/resource/encoding/json"
	"github.com/beatlabs/resource/errors"
	"github.com/beatlabs/resource/log"
	"github.com/beatlabs/resource/model"
	"github.com/beatlabs/resource/request"
	"github.com/beatlabs/resource/result"
	"github.com/beatlabs/resource/store"
	"github.com/beatlabs/resource/trace"
	"github.com/opentracing/opentracing-go"
)

const component = "resource"

// Action invokes the named action with positional arguments:
//
//	Action(ctx, name, query, payload, success, error)
//	Action(ctx, name, payload, success, error)
//	Action(ctx, name, query, payload, success)
//	Action(ctx, name, success, error)
//	Action(ctx, name, payload, success)
//	Action(ctx, name, query, payload)
//	Action(ctx, name, payload)
//
// The result is returned before the call completes and is filled in place. Setup problems are
// returned as errors, failures of the call settle the result with an error.
func (r *Resource[M]) Action(ctx context.Context, name string, args ...interface{}) (*result.Result[M], error) {
	act, ok := r.actions[name]
	if !ok {
		return nil, &ConfigurationError{Resource: r.name, Action: name, Reason: "action is not declared"}
	}
	call, err := normalizeArgs[M](act.hasBody(), args)
	if err != nil {
		return nil, &ConfigurationError{Resource: r.name, Action: name, Reason: err.Error()}
	}
	return r.invoke(ctx, name, call, nil)
}

// Invoke invokes the named action with named arguments.
func (r *Resource[M]) Invoke(ctx context.Context, name string, call Call[M]) (*result.Result[M], error) {
	return r.invoke(ctx, name, call, nil)
}

// Get invokes the get action.
func (r *Resource[M]) Get(ctx context.Context, args ...interface{}) (*result.Result[M], error) {
	return r.Action(ctx, ActionGet, args...)
}

// Query invokes the query action.
func (r *Resource[M]) Query(ctx context.Context, args ...interface{}) (*result.Result[M], error) {
	return r.Action(ctx, ActionQuery, args...)
}

// Save invokes the save action.
func (r *Resource[M]) Save(ctx context.Context, args ...interface{}) (*result.Result[M], error) {
	return r.Action(ctx, ActionSave, args...)
}

// Update invokes the update action.
func (r *Resource[M]) Update(ctx context.Context, args ...interface{}) (*result.Result[M], error) {
	return r.Action(ctx, ActionUpdate, args...)
}

// Patch invokes the patch action.
func (r *Resource[M]) Patch(ctx context.Context, args ...interface{}) (*result.Result[M], error) {
	return r.Action(ctx, ActionPatch, args...)
}

// Remove invokes the remove action.
func (r *Resource[M]) Remove(ctx context.Context, args ...interface{}) (*result.Result[M], error) {
	return r.Action(ctx, ActionRemove, args...)
}

func (r *Resource[M]) invoke(ctx context.Context, name string, call Call[M], target *M) (*result.Result[M], error) {
	act, ok := r.actions[name]
	if !ok {
		return nil, &ConfigurationError{Resource: r.name, Action: name, Reason: "action is not declared"}
	}
	ctx, _ = correlation.EnsureID(ctx)

	var res *result.Result[M]
	switch {
	case act.IsList:
		res = result.NewList[M]()
	case target != nil:
		res = result.NewObject(*target)
	default:
		res = result.NewObject(r.factory())
	}

	req, err := r.request(name, act, call)
	if err != nil {
		return nil, err
	}
	key, err := store.KeyOf(req)
	if err != nil {
		return nil, &MalformedRequestError{URL: req.URL, Err: err}
	}
	res.Attach(req)

	if call.Success != nil || call.Error != nil {
		res.Observable().Subscribe(call.Success, call.Error)
	}

	logger := log.FromContext(ctx)
	st := r.storeFor(act)
	p := store.NewPending()

	it, owner := st.Claim(ctx, req, p)
	if !owner {
		switch t := it.(type) {
		case *store.Entry:
			logger.Debugf("%s.%s: cache hit %s", r.name, name, key)
			countAction(ctx, r.name, name, outcomeHit)
			r.settle(res, name, act, t.Response())
			return res, nil
		case *store.Pending:
			logger.Debugf("%s.%s: joining in-flight call %s", r.name, name, key)
			countAction(ctx, r.name, name, outcomeDedup)
			go r.join(ctx, res, name, act, t)
			return res, nil
		}
	}
	if key != "" && !act.NoCache {
		logger.Debugf("%s.%s: cache miss %s", r.name, name, key)
	}

	go r.fetch(ctx, name, act, req, res, st, p)
	return res, nil
}

// request builds the outbound call. The payload is cleaned and phantom primary keys are removed.
func (r *Resource[M]) request(name string, act ActionOptions, call Call[M]) (*request.Request, error) {
	payload, err := r.payload(call.Payload)
	if err != nil {
		return nil, &MalformedRequestError{URL: act.URL, Err: err}
	}

	u, err := request.BuildURL(act.URL, call.Query, payload, request.URLOptions{
		ParamDefaults:        act.ParamDefaults,
		StripTrailingSlashes: r.opts.StripTrailingSlashes,
	})
	if err != nil {
		return nil, &MalformedRequestError{URL: act.URL, Err: err}
	}

	hdr, err := request.BuildHeaders(act.HeaderDefaults, request.HeaderContext{
		Query:   call.Query.Clone(),
		Payload: payload,
		Method:  act.Method,
		Action:  name,
	})
	if err != nil {
		return nil, &ConfigurationError{Resource: r.name, Action: name, Reason: err.Error()}
	}

	req := &request.Request{Method: act.Method, URL: u, Header: hdr, ResponseType: act.ResponseType}
	if act.hasBody() {
		req.Body = payload
	}
	return req, nil
}

func (r *Resource[M]) payload(v interface{}) (interface{}, error) {
	data, err := model.Clean(v)
	if err != nil {
		return nil, err
	}
	fields, ok := data.(map[string]interface{})
	if !ok || r.phantom == nil {
		return data, nil
	}
	if pk, ok := fields[r.opts.PKAttr]; ok && r.phantom.Is(pk) {
		fields = model.Clone(fields)
		delete(fields, r.opts.PKAttr)
	}
	return fields, nil
}

func (r *Resource[M]) storeFor(act ActionOptions) store.Store {
	if act.NoCache {
		return store.NewNoop()
	}
	return r.store
}

// settle hydrates the result from the response and settles it.
func (r *Resource[M]) settle(res *result.Result[M], name string, act ActionOptions, rsp *request.Response) {
	if err := r.process(res, name, act, rsp); err != nil {
		res.Reject(err)
		return
	}
	res.Resolve(rsp)
}

// join waits for the in-flight call of another result and replays its response.
func (r *Resource[M]) join(ctx context.Context, res *result.Result[M], name string, act ActionOptions, p *store.Pending) {
	e, err := p.Wait(ctx)
	if err != nil {
		res.Reject(err)
		return
	}
	r.settle(res, name, act, e.Response())
}

// fetch performs the call owning the pending slot of the store.
func (r *Resource[M]) fetch(ctx context.Context, name string, act ActionOptions, req *request.Request,
	res *result.Result[M], st store.Store, p *store.Pending,
) {
	sp, ctx := trace.ChildSpan(ctx, trace.ComponentOpName(component, r.name+"."+name), component,
		opentracing.Tag{Key: "resource", Value: r.name},
		opentracing.Tag{Key: "action", Value: name},
	)

	start := time.Now()
	rsp, err := r.roundTrip(ctx, req)
	if err == nil {
		err = r.process(res, name, act, rsp)
	}
	observeAction(ctx, r.name, name, err == nil, start)
	trace.SpanComplete(sp, err)

	if err != nil {
		log.FromContext(ctx).Debugf("%s.%s: %s failed: %v", r.name, name, req, err)
		countAction(ctx, r.name, name, outcomeFailed)
		st.Release(ctx, req, p)
		p.Reject(err)
		res.Reject(err)
		return
	}
	countAction(ctx, r.name, name, outcomeFetched)

	entry := store.NewEntry(rsp, store.EntryContext{
		Resource: r.name,
		Action:   name,
		IsList:   act.IsList,
		DataAttr: act.DataAttr,
	}, act.CacheTTL)
	cached := st.Settle(ctx, req, p, entry) != nil
	p.Resolve(entry)

	r.invalidate(ctx, name, act, cached)
	if act.IsList && act.URLAttr != "" {
		r.prepopulate(ctx, name, act, rsp)
	}
	res.Resolve(rsp)
}

func (r *Resource[M]) roundTrip(ctx context.Context, req *request.Request) (*request.Response, error) {
	hreq, err := req.HTTP(ctx)
	if err != nil {
		return nil, &MalformedRequestError{URL: req.URL, Err: err}
	}
	hrsp, err := r.transport.Do(ctx, hreq)
	if err != nil {
		return nil, err
	}
	rsp, err := request.FromHTTP(hrsp)
	if err != nil {
		return nil, err
	}
	if rsp.URL == "" {
		rsp.URL = req.URL
	}
	if !rsp.OK() {
		return nil, &ResponseError{StatusCode: rsp.StatusCode, Body: rsp.Body, Response: rsp}
	}
	return rsp, nil
}

// invalidate flushes the stores named by the action. Failures are logged, the call succeeded.
func (r *Resource[M]) invalidate(ctx context.Context, name string, act ActionOptions, cached bool) {
	var ee []error
	if act.InvalidateSelf && !cached {
		ee = append(ee, r.store.Invalidate(ctx))
	}
	if len(act.Invalidates) > 0 {
		if r.registry == nil {
			ee = append(ee, &ConfigurationError{Resource: r.name, Action: name, Reason: "invalidates requires a registry"})
		} else {
			ee = append(ee, r.registry.Invalidate(ctx, act.Invalidates...))
		}
	}
	if err := errors.Aggregate(ee...); err != nil {
		log.FromContext(ctx).Errorf("%s.%s: failed to invalidate stores: %v", r.name, name, err)
	}
}

// prepopulate stores a get entry for every item of a list response carrying its url.
func (r *Resource[M]) prepopulate(ctx context.Context, name string, act ActionOptions, rsp *request.Response) {
	get, ok := r.actions[ActionGet]
	if !ok || get.NoCache {
		return
	}
	body, err := rsp.Decode()
	if err != nil {
		return
	}
	items, _ := extract(body, act.DataAttr).([]interface{})

	for _, v := range items {
		fields, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		u, ok := fields[act.URLAttr].(string)
		if !ok || u == "" {
			continue
		}

		var data interface{} = fields
		if get.DataAttr != "" {
			data = map[string]interface{}{get.DataAttr: fields}
		}
		b, err := json.Encode(data)
		if err != nil {
			log.FromContext(ctx).Errorf("%s.%s: failed to encode item %s: %v", r.name, name, u, err)
			continue
		}

		req := &request.Request{Method: get.Method, URL: u, ResponseType: get.ResponseType}
		itemRsp := &request.Response{StatusCode: http.StatusOK, Header: rsp.Header.Clone(), Body: b, URL: u}
		r.store.Put(ctx, req, store.NewEntry(itemRsp, store.EntryContext{
			Resource: r.name,
			Action:   ActionGet,
			DataAttr: get.DataAttr,
		}, get.CacheTTL))
	}
}
