package store

import (
	"errors"
	"time"

	"github.com/beatlabs/resource/encoding/json"
	"github.com/beatlabs/resource/request"
)

// ErrEntryImmutable is returned when an entry is asked to change.
var ErrEntryImmutable = errors.New("cache entries are immutable, put a new entry instead")

// Now returns the current time. It is a variable so tests can control the clock.
var Now = time.Now

// EntryContext describes the action that produced an entry.
type EntryContext struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	IsList   bool   `json:"is_list"`
	DataAttr string `json:"data_attr,omitempty"`
}

// Entry is a completed response snapshot stored under a cache key.
type Entry struct {
	rsp     *request.Response
	ctx     EntryContext
	created time.Time
	ttl     time.Duration
}

// NewEntry captures the response, stamped with the current time.
func NewEntry(rsp *request.Response, ec EntryContext, ttl time.Duration) *Entry {
	return &Entry{
		rsp:     rsp.Clone(),
		ctx:     ec,
		created: Now(),
		ttl:     ttl,
	}
}

func (e *Entry) item() {}

// Response returns an independent copy of the stored response.
func (e *Entry) Response() *request.Response {
	return e.rsp.Clone()
}

// Context returns the originating action context.
func (e *Entry) Context() EntryContext {
	return e.ctx
}

// Created returns the creation time.
func (e *Entry) Created() time.Time {
	return e.created
}

// TTL returns the time to live.
func (e *Entry) TTL() time.Duration {
	return e.ttl
}

// Age returns the time passed since creation.
func (e *Entry) Age() time.Duration {
	return Now().Sub(e.created)
}

// Stale reports whether created+ttl lies in the past.
func (e *Entry) Stale() bool {
	return e.created.Add(e.ttl).Before(Now())
}

// Update is not supported.
func (e *Entry) Update(*request.Response) error {
	return ErrEntryImmutable
}

type entryJSON struct {
	Response *request.Response `json:"response"`
	Context  EntryContext      `json:"context"`
	Created  time.Time         `json:"created"`
	TTL      time.Duration     `json:"ttl"`
}

// MarshalJSON encodes the entry for key value backends.
func (e *Entry) MarshalJSON() ([]byte, error) {
	return json.Encode(entryJSON{Response: e.rsp, Context: e.ctx, Created: e.created, TTL: e.ttl})
}

// UnmarshalJSON decodes an entry written by MarshalJSON.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var ej entryJSON
	if err := json.DecodeRaw(b, &ej); err != nil {
		return err
	}
	if ej.Response == nil {
		return errors.New("entry without response")
	}
	e.rsp = ej.Response
	e.ctx = ej.Context
	e.created = ej.Created
	e.ttl = ej.TTL
	return nil
}
