package model

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/beatlabs/resource/encoding/json"
)

// PrivateField matches the keys that never leave the client.
var PrivateField = regexp.MustCompile(`^\$`)

// Clean strips private and function valued fields from a payload, recursively.
// Models are dumped, structs are converted to their JSON shape first.
func Clean(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Model:
		return t.Dump(), nil
	case map[string]interface{}:
		return cleanMap(t)
	case []interface{}:
		out := make([]interface{}, 0, len(t))
		for _, item := range t {
			c, err := Clean(item)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	case string, bool, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return t, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil, fmt.Errorf("value of type %T cannot be serialized", v)
	case reflect.Ptr:
		if rv.IsNil() {
			return nil, nil
		}
	}

	b, err := json.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	var generic interface{}
	if err := json.DecodeRaw(b, &generic); err != nil {
		return nil, fmt.Errorf("failed to decode %T: %w", v, err)
	}
	return Clean(generic)
}

func cleanMap(m map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if PrivateField.MatchString(k) || isFunc(v) {
			continue
		}
		c, err := Clean(v)
		if err != nil {
			return nil, err
		}
		out[k] = c
	}
	return out, nil
}

func isFunc(v interface{}) bool {
	return v != nil && reflect.ValueOf(v).Kind() == reflect.Func
}

// Clone deep copies raw JSON shaped data.
func Clone(raw map[string]interface{}) map[string]interface{} {
	if raw == nil {
		return nil
	}
	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return Clone(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	}
	return v
}
