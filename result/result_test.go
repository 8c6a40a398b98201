package result

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/beatlabs/resource/model"
	"github.com/beatlabs/resource/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObject(t *testing.T) {
	rec := model.NewRecord()
	res := NewObject(rec)
	assert.False(t, res.IsList())
	assert.False(t, res.Resolved())
	assert.Same(t, rec, res.Data())
	assert.Nil(t, res.Response())
	assert.NoError(t, res.Err())

	req := &request.Request{Method: "GET", URL: "http://test/res/1"}
	res.Attach(req)
	assert.Same(t, req, res.Request())
}

func TestNewList(t *testing.T) {
	res := NewList[*model.Record]()
	assert.True(t, res.IsList())
	assert.Equal(t, 0, res.Len())
	assert.Empty(t, res.Items())

	a, b := model.NewRecord(), model.NewRecord()
	res.SetItems([]*model.Record{a, b})
	items := res.Items()
	require.Len(t, items, 2)
	assert.Same(t, a, items[0])
	items[0] = b
	assert.Same(t, a, res.Items()[0])
}

func TestResult_Resolve(t *testing.T) {
	rec := model.NewRecord()
	res := NewObject(rec)
	early := res.Promise()

	var order []string
	res.Observable().Subscribe(func(r *Result[*model.Record]) {
		assert.True(t, r.Resolved())
		order = append(order, "first")
	}, nil)
	res.Observable().Subscribe(func(*Result[*model.Record]) { order = append(order, "second") }, nil)

	require.NoError(t, res.Mutate(func(r *model.Record) error { return r.Load(map[string]interface{}{"id": 1.0}) }))
	rsp := &request.Response{StatusCode: 200}
	res.Resolve(rsp)
	res.Resolve(&request.Response{StatusCode: 201})
	res.Reject(errors.New("ignored"))

	assert.True(t, res.Resolved())
	assert.Same(t, rsp, res.Response())
	assert.Equal(t, []string{"first", "second"}, order)

	out := <-early
	assert.NoError(t, out.Err)
	assert.Same(t, res, out.Result)

	late := false
	res.Observable().Subscribe(func(r *Result[*model.Record]) { late = true }, func(error) { t.Fail() })
	assert.True(t, late)

	select {
	case out := <-res.Promise():
		assert.Same(t, res, out.Result)
	default:
		t.Fatal("promise of a settled result is not ready")
	}

	got, err := res.Await(context.Background())
	require.NoError(t, err)
	assert.Same(t, res, got)
	v, _ := got.Data().Get("id")
	assert.Equal(t, 1.0, v)
}

func TestResult_Reject(t *testing.T) {
	rec := model.NewRecord()
	res := NewObject(rec)
	errFailed := errors.New("failed")

	var got []error
	res.Observable().Subscribe(func(*Result[*model.Record]) { t.Fail() }, func(err error) { got = append(got, err) })
	res.Reject(errFailed)
	res.Observable().Subscribe(nil, func(err error) { got = append(got, err) })

	assert.True(t, res.Resolved())
	assert.Equal(t, []error{errFailed, errFailed}, got)
	assert.ErrorIs(t, res.Err(), errFailed)
	assert.Empty(t, rec.Dump())

	out := <-res.Promise()
	assert.ErrorIs(t, out.Err, errFailed)
	assert.Same(t, res, out.Result)

	awaited, err := res.Await(context.Background())
	assert.ErrorIs(t, err, errFailed)
	assert.Same(t, res, awaited)
}

func TestResult_Await_ContextDone(t *testing.T) {
	res := NewList[*model.Record]()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err := res.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, res.Resolved())
}

func TestResult_ConcurrentSubscribers(t *testing.T) {
	res := NewList[*model.Record]()
	const n = 20
	wg := sync.WaitGroup{}
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			res.Observable().Subscribe(func(*Result[*model.Record]) { wg.Done() }, nil)
		}()
	}
	go res.Resolve(&request.Response{StatusCode: 200})
	wg.Wait()
	<-res.Observable().Done()
	assert.True(t, res.Resolved())
}
