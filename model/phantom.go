package model

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// PhantomGenerator assigns client side identifiers to models the server has not persisted yet.
type PhantomGenerator interface {
	Generate(m Model) interface{}
	Is(id interface{}) bool
}

// Sequential generates negative integers: -1, -2, ...
type Sequential struct {
	last int64
}

// NewSequential returns a sequential negative integer generator.
func NewSequential() *Sequential {
	return &Sequential{}
}

// Generate returns the next negative identifier.
func (s *Sequential) Generate(Model) interface{} {
	return atomic.AddInt64(&s.last, -1)
}

// Is reports whether the id is a negative number.
func (s *Sequential) Is(id interface{}) bool {
	rv := reflect.ValueOf(id)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() < 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() < 0
	}
	return false
}

// UUID generates random version 4 identifiers and remembers the ones it issued.
type UUID struct {
	issued sync.Map
}

// NewUUID returns a random UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new random UUID string.
func (u *UUID) Generate(Model) interface{} {
	id := uuid.New().String()
	u.issued.Store(id, struct{}{})
	return id
}

// Is reports whether the id was issued by this generator.
func (u *UUID) Is(id interface{}) bool {
	s, ok := id.(string)
	if !ok {
		return false
	}
	_, ok = u.issued.Load(s)
	return ok
}
