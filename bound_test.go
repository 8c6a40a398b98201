package resource

import (
	"context"
	"net/http"
	"testing"

	"github.com/beatlabs/resource/model"
	"github.com/beatlabs/resource/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBound_Save(t *testing.T) {
	tr := newFakeTransport(okWith(`{"id":5,"name":"a","created":true}`))
	r := newTestResource(t, tr, testOptions(), WithPhantom(model.NewSequential()))
	ctx := context.Background()

	m, err := r.New(map[string]interface{}{"name": "a"})
	require.NoError(t, err)

	res, err := r.Bind(m).Save(ctx)
	require.NoError(t, err)
	_, err = await(t, res)
	require.NoError(t, err)

	assert.Same(t, m, res.Data())
	assert.Equal(t, float64(5), field(t, m, "id"))
	assert.Equal(t, true, field(t, m, "created"))
	assert.Equal(t, []string{"POST http://test/res/"}, tr.requests())
	assert.JSONEq(t, `{"name":"a"}`, tr.sent()[0])
}

func TestBound_UsesInstanceForURL(t *testing.T) {
	tr := newFakeTransport(okWith(`{"id":3,"name":"b"}`))
	r := newTestResource(t, tr, testOptions())
	ctx := context.Background()

	m := model.NewRecord()
	m.Set("id", 3)
	b := r.Bind(m)
	assert.Same(t, m, b.Instance())

	res, err := b.Update(ctx)
	require.NoError(t, err)
	_, err = await(t, res)
	require.NoError(t, err)

	res, err = b.Remove(ctx, request.Params{"force": true})
	require.NoError(t, err)
	_, err = await(t, res)
	require.NoError(t, err)

	res, err = b.Get(ctx)
	require.NoError(t, err)
	_, err = await(t, res)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"PUT http://test/res/3/",
		"DELETE http://test/res/3/?force=true",
		"GET http://test/res/3/",
	}, tr.requests())
	assert.JSONEq(t, `{"id":3}`, tr.sent()[0])
	assert.Empty(t, tr.sent()[1])
	assert.Equal(t, "b", field(t, m, "name"))
}

func TestBound_Call(t *testing.T) {
	tr := newFakeTransport(func(req *http.Request) (int, string) {
		if req.Method == http.MethodGet {
			return http.StatusOK, `[{"id":1}]`
		}
		return http.StatusOK, `{"id":1,"patched":true}`
	})
	r := newTestResource(t, tr, testOptions())
	ctx := context.Background()

	m := model.NewRecord()
	m.Set("id", 1)
	b := r.Bind(m)

	done := make(chan struct{})
	res, err := b.Call(ctx, ActionPatch, func() { close(done) })
	require.NoError(t, err)
	<-done
	assert.Same(t, m, res.Data())
	assert.Equal(t, true, field(t, m, "patched"))

	list, err := b.Call(ctx, ActionQuery)
	require.NoError(t, err)
	_, err = await(t, list)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Len())

	_, err = b.Call(ctx, "missing")
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	_, err = b.Call(ctx, ActionGet, 1, 2, 3, 4)
	assert.ErrorAs(t, err, &cfgErr)
}
