package resource

import (
	"fmt"

	"github.com/beatlabs/resource/request"
	"github.com/beatlabs/resource/result"
)

// process hydrates the result from the response. Responses that are not JSON are not
// hydrated, the raw body stays available through the result response.
func (r *Resource[M]) process(res *result.Result[M], name string, act ActionOptions, rsp *request.Response) error {
	if act.ResponseType != request.JSON {
		return nil
	}
	body, err := rsp.Decode()
	if err != nil {
		return fmt.Errorf("failed to decode %s.%s response: %w", r.name, name, err)
	}
	data := extract(body, act.DataAttr)
	if act.IsList {
		return r.processList(res, name, data)
	}
	return r.processObject(res, name, data)
}

// processList replaces the items of the result with the hydrated list, in server order.
func (r *Resource[M]) processList(res *result.Result[M], name string, data interface{}) error {
	raw, ok := data.([]interface{})
	if !ok {
		return &UnexpectedResponseError{Action: name, Expected: "list", Got: shape(data)}
	}
	items := make([]M, 0, len(raw))
	for _, v := range raw {
		fields, ok := v.(map[string]interface{})
		if !ok {
			return &UnexpectedResponseError{Action: name, Expected: "list of objects", Got: "list of " + shape(v)}
		}
		m := r.factory()
		if err := m.Load(fields); err != nil {
			return fmt.Errorf("failed to load %s item: %w", r.name, err)
		}
		items = append(items, m)
	}
	res.SetItems(items)
	return nil
}

// processObject loads the object onto the instance of the result. An empty body leaves it untouched.
func (r *Resource[M]) processObject(res *result.Result[M], name string, data interface{}) error {
	switch fields := data.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		if err := r.factory().Load(fields); err != nil {
			return fmt.Errorf("failed to load %s: %w", r.name, err)
		}
		return res.Mutate(func(m M) error {
			return m.Load(fields)
		})
	}
	return &UnexpectedResponseError{Action: name, Expected: "object", Got: shape(data)}
}

func extract(body interface{}, dataAttr string) interface{} {
	if dataAttr == "" {
		return body
	}
	m, ok := body.(map[string]interface{})
	if !ok {
		return body
	}
	if v, ok := m[dataAttr]; ok {
		return v
	}
	return body
}

func shape(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case []interface{}:
		return "list"
	case map[string]interface{}:
		return "object"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}
