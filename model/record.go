package model

import (
	"sort"
	"sync"

	"github.com/beatlabs/resource/encoding/json"
)

var _ Model = &Record{}

// Record is a schemaless model backed by a map. It is safe for concurrent use.
type Record struct {
	mu     sync.RWMutex
	fields map[string]interface{}
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{fields: make(map[string]interface{})}
}

// Load merges the raw fields into the record, overwriting existing keys.
func (r *Record) Load(raw map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fields == nil {
		r.fields = make(map[string]interface{}, len(raw))
	}
	for k, v := range Clone(raw) {
		r.fields[k] = v
	}
	return nil
}

// Dump returns a copy of the public fields.
func (r *Record) Dump() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]interface{}, len(r.fields))
	for k, v := range r.fields {
		if PrivateField.MatchString(k) || isFunc(v) {
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}

// Get returns a field.
func (r *Record) Get(key string) (interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.fields[key]
	return v, ok
}

// Set assigns a field.
func (r *Record) Set(key string, value interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fields == nil {
		r.fields = make(map[string]interface{})
	}
	r.fields[key] = value
}

// Delete removes a field.
func (r *Record) Delete(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.fields, key)
}

// Keys returns the sorted field names.
func (r *Record) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON encodes the public fields.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Encode(r.Dump())
}

// UnmarshalJSON loads a JSON object.
func (r *Record) UnmarshalJSON(b []byte) error {
	var raw map[string]interface{}
	if err := json.DecodeRaw(b, &raw); err != nil {
		return err
	}
	return r.Load(raw)
}
