package resource

import (
	"fmt"
	"reflect"

	"github.com/beatlabs/resource/model"
	"github.com/beatlabs/resource/request"
	"github.com/beatlabs/resource/result"
)

// Call holds the arguments of an action.
type Call[M model.Model] struct {
	Query   request.Params
	Payload interface{}
	// Success and Error are subscribed to the result before the call is dispatched.
	Success func(*result.Result[M])
	Error   func(error)
}

// normalizeArgs maps positional action arguments by count, then by which of them are functions:
//
//	4: query, payload, success, error
//	3: payload, success, error when the second is a function, else query, payload, success
//	2: success, error when the first is a function, else payload, success when the second
//	   is a function, else query, payload
//	1: payload
//
// A function passed as payload is taken for a callback. Actions without a body read a lone
// payload as the query.
func normalizeArgs[M model.Model](hasBody bool, args []interface{}) (Call[M], error) {
	var query, payload, success, fail interface{}
	switch len(args) {
	case 0:
	case 1:
		payload = args[0]
	case 2:
		switch {
		case isCallable(args[0]):
			success, fail = args[0], args[1]
		case isCallable(args[1]):
			payload, success = args[0], args[1]
		default:
			query, payload = args[0], args[1]
		}
	case 3:
		if isCallable(args[1]) {
			payload, success, fail = args[0], args[1], args[2]
		} else {
			query, payload, success = args[0], args[1], args[2]
		}
	case 4:
		query, payload, success, fail = args[0], args[1], args[2], args[3]
	default:
		return Call[M]{}, fmt.Errorf("expected up to 4 arguments, got %d", len(args))
	}

	if !hasBody && query == nil {
		query, payload = payload, nil
	}

	return newCall[M](query, payload, success, fail)
}

func newCall[M model.Model](query, payload, success, fail interface{}) (Call[M], error) {
	c := Call[M]{Payload: payload}
	var err error
	if c.Query, err = toParams(query); err != nil {
		return Call[M]{}, err
	}
	if c.Success, err = toSuccess[M](success); err != nil {
		return Call[M]{}, err
	}
	if c.Error, err = toError(fail); err != nil {
		return Call[M]{}, err
	}
	return c, nil
}

func isCallable(v interface{}) bool {
	return v != nil && reflect.ValueOf(v).Kind() == reflect.Func
}

func toParams(v interface{}) (request.Params, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case request.Params:
		return t, nil
	case map[string]interface{}:
		return request.Params(t), nil
	case map[string]string:
		p := make(request.Params, len(t))
		for k, s := range t {
			p[k] = s
		}
		return p, nil
	}
	return nil, fmt.Errorf("query of type %T is not supported", v)
}

func toSuccess[M model.Model](v interface{}) (func(*result.Result[M]), error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case func(*result.Result[M]):
		return t, nil
	case func():
		return func(*result.Result[M]) { t() }, nil
	}
	return nil, fmt.Errorf("success callback of type %T is not supported", v)
}

func toError(v interface{}) (func(error), error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case func(error):
		return t, nil
	case func():
		return func(error) { t() }, nil
	}
	return nil, fmt.Errorf("error callback of type %T is not supported", v)
}
