package model

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_RoundTrip(t *testing.T) {
	x := NewRecord()
	require.NoError(t, x.Load(map[string]interface{}{
		"id":       float64(1),
		"title":    "a",
		"nested":   map[string]interface{}{"tags": []interface{}{"x", "$y"}},
		"$private": true,
		"fn":       func() {},
	}))

	y := NewRecord()
	require.NoError(t, y.Load(x.Dump()))

	assert.Equal(t, x.Dump(), y.Dump())
	assert.Equal(t, []string{"id", "nested", "title"}, y.Keys())
	_, ok := y.Get("$private")
	assert.False(t, ok)
}

func TestRecord_LoadOverwrites(t *testing.T) {
	r := NewRecord()
	raw := map[string]interface{}{"id": float64(1), "tags": []interface{}{"a"}}
	require.NoError(t, r.Load(raw))
	require.NoError(t, r.Load(raw))
	assert.Equal(t, raw, r.Dump())

	raw["tags"].([]interface{})[0] = "changed"
	v, _ := r.Get("tags")
	assert.Equal(t, []interface{}{"a"}, v)
}

func TestRecord_SetDeleteJSON(t *testing.T) {
	r := &Record{}
	r.Set("id", 1)
	r.Set("$resolved", true)
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(b))

	r.Delete("id")
	_, ok := r.Get("id")
	assert.False(t, ok)

	var u Record
	require.NoError(t, json.Unmarshal([]byte(`{"title":"b"}`), &u))
	v, ok := u.Get("title")
	assert.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestClean(t *testing.T) {
	type payload struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
		Skip  string `json:"-"`
	}
	rec := NewRecord()
	rec.Set("id", 3)

	tests := map[string]struct {
		in      interface{}
		want    interface{}
		wantErr bool
	}{
		"nil":    {in: nil, want: nil},
		"scalar": {in: "a", want: "a"},
		"map": {
			in:   map[string]interface{}{"id": 1, "$resolved": true, "fn": func() {}, "sub": map[string]interface{}{"$x": 1, "y": 2}},
			want: map[string]interface{}{"id": 1, "sub": map[string]interface{}{"y": 2}},
		},
		"slice":    {in: []interface{}{map[string]interface{}{"$a": 1, "b": 2}}, want: []interface{}{map[string]interface{}{"b": 2}}},
		"struct":   {in: payload{ID: 1, Title: "t", Skip: "s"}, want: map[string]interface{}{"id": float64(1), "title": "t"}},
		"pointer":  {in: &payload{ID: 2}, want: map[string]interface{}{"id": float64(2), "title": ""}},
		"nil ptr":  {in: (*payload)(nil), want: nil},
		"model":    {in: rec, want: map[string]interface{}{"id": 3}},
		"function": {in: func() {}, wantErr: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Clean(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSequential(t *testing.T) {
	s := NewSequential()
	assert.Equal(t, int64(-1), s.Generate(nil))
	assert.Equal(t, int64(-2), s.Generate(nil))
	assert.True(t, s.Is(int64(-2)))
	assert.True(t, s.Is(float64(-1)))
	assert.True(t, s.Is(-5))
	assert.False(t, s.Is(1))
	assert.False(t, s.Is("x"))
	assert.False(t, s.Is(nil))
}

func TestSequential_Concurrent(t *testing.T) {
	s := NewSequential()
	seen := sync.Map{}
	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, loaded := seen.LoadOrStore(s.Generate(nil), struct{}{})
			assert.False(t, loaded)
		}()
	}
	wg.Wait()
}

func TestUUID(t *testing.T) {
	u := NewUUID()
	id := u.Generate(nil)
	assert.IsType(t, "", id)
	assert.Len(t, id, 36)
	assert.True(t, u.Is(id))
	assert.False(t, u.Is("9b2b1c5e-0d6e-4b53-9e33-6f1a6a0f2f11"))
	assert.False(t, u.Is(1))
}
