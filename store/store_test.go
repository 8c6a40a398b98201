package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/beatlabs/resource/cache"
	"github.com/beatlabs/resource/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRequest(url string) *request.Request {
	return &request.Request{Method: "GET", URL: url, ResponseType: request.JSON}
}

func newLRU(t *testing.T) Store {
	s, err := NewLRU(100)
	require.NoError(t, err)
	return s
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemory(),
		"lru":    newLRU(t),
	}
}

func TestStore_PutGetPop(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			clock(t)
			req := getRequest("http://test/res/1")
			assert.Nil(t, s.Get(ctx, req))
			assert.False(t, s.Has(ctx, req))

			e := NewEntry(testResponse(`{"id":1}`), EntryContext{Resource: "res", Action: "get"}, time.Minute)
			assert.Equal(t, e, s.Put(ctx, req, e))
			assert.True(t, s.Has(ctx, req))

			got, ok := s.Get(ctx, req).(*Entry)
			require.True(t, ok)
			assert.Equal(t, e.Response(), got.Response())
			assert.Equal(t, e.Context(), got.Context())

			popped, ok := s.Pop(ctx, req).(*Entry)
			require.True(t, ok)
			assert.Equal(t, e.Response(), popped.Response())
			assert.Nil(t, s.Get(ctx, req))
			assert.Nil(t, s.Pop(ctx, req))
		})
	}
}

func TestStore_NotCacheable(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			e := NewEntry(testResponse(`{}`), EntryContext{}, time.Minute)
			for _, req := range []*request.Request{
				{Method: "POST", URL: "http://test/res", ResponseType: request.JSON},
				{Method: "GET", URL: "http://test/res", ResponseType: request.Blob},
				{Method: "GET", URL: "http://test/%zz", ResponseType: request.JSON},
			} {
				assert.Nil(t, s.Put(ctx, req, e))
				assert.Nil(t, s.Get(ctx, req))
				assert.Nil(t, s.Pop(ctx, req))
				got, owner := s.Claim(ctx, req, NewPending())
				assert.Nil(t, got)
				assert.True(t, owner)
				assert.Nil(t, s.Get(ctx, req))
			}
		})
	}
}

func TestStore_Stale(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			now := clock(t)
			req := getRequest("http://test/res/1")
			s.Put(ctx, req, NewEntry(testResponse(`{}`), EntryContext{}, 250*time.Millisecond))

			*now = now.Add(125 * time.Millisecond)
			assert.NotNil(t, s.Get(ctx, req))

			*now = now.Add(375 * time.Millisecond)
			assert.Nil(t, s.Get(ctx, req))
			assert.Nil(t, s.Pop(ctx, req))
		})
	}
}

func TestStore_PopReturnsStale(t *testing.T) {
	ctx := context.Background()
	now := clock(t)
	s := NewMemory()
	req := getRequest("http://test/res/1")
	s.Put(ctx, req, NewEntry(testResponse(`{}`), EntryContext{}, time.Millisecond))
	*now = now.Add(time.Second)
	assert.NotNil(t, s.Pop(ctx, req))
	assert.Equal(t, 0, s.Len())
}

func TestMemory_ZeroTTLNeverStale(t *testing.T) {
	ctx := context.Background()
	now := clock(t)
	s := NewMemory()
	req := getRequest("http://test/res/1")
	s.Put(ctx, req, NewEntry(testResponse(`{}`), EntryContext{}, 0))
	*now = now.Add(24 * time.Hour)
	assert.NotNil(t, s.Get(ctx, req))
}

func TestStore_Invalidate(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			clock(t)
			r1, r2 := getRequest("http://test/res/1"), getRequest("http://test/res/2")
			s.Put(ctx, r1, NewEntry(testResponse(`{}`), EntryContext{}, time.Minute))
			s.Put(ctx, r2, NewPending())
			require.NoError(t, s.Invalidate(ctx))
			assert.False(t, s.Has(ctx, r1))
			assert.False(t, s.Has(ctx, r2))
		})
	}
}

func TestStore_Claim(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			clock(t)
			req := getRequest("http://test/res/")
			p := NewPending()
			got, owner := s.Claim(ctx, req, p)
			assert.Nil(t, got)
			assert.True(t, owner)

			got, owner = s.Claim(ctx, req, NewPending())
			assert.False(t, owner)
			assert.Same(t, p, got)

			e := NewEntry(testResponse(`[]`), EntryContext{IsList: true}, time.Minute)
			s.Put(ctx, req, e)
			p.Resolve(e)

			got, owner = s.Claim(ctx, req, NewPending())
			assert.False(t, owner)
			_, isEntry := got.(*Entry)
			assert.True(t, isEntry)
		})
	}
}

func TestStore_SettleRelease(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			clock(t)
			req := getRequest("http://test/res/")
			stale := NewPending()
			_, owner := s.Claim(ctx, req, stale)
			require.True(t, owner)
			require.NoError(t, s.Invalidate(ctx))

			current := NewPending()
			_, owner = s.Claim(ctx, req, current)
			require.True(t, owner)

			assert.False(t, s.Release(ctx, req, stale))
			old := NewEntry(testResponse(`{"v":1}`), EntryContext{}, time.Minute)
			assert.Nil(t, s.Settle(ctx, req, stale, old))
			got, owner := s.Claim(ctx, req, NewPending())
			assert.False(t, owner)
			assert.Same(t, current, got)

			e := NewEntry(testResponse(`{"v":2}`), EntryContext{}, time.Minute)
			assert.Same(t, e, s.Settle(ctx, req, current, e))
			assert.Nil(t, s.Settle(ctx, req, current, e))
			stored, ok := s.Get(ctx, req).(*Entry)
			require.True(t, ok)
			assert.Equal(t, e.Response(), stored.Response())

			p := NewPending()
			require.NoError(t, s.Invalidate(ctx))
			_, owner = s.Claim(ctx, req, p)
			require.True(t, owner)
			assert.True(t, s.Release(ctx, req, p))
			assert.False(t, s.Release(ctx, req, p))
			assert.Nil(t, s.Get(ctx, req))
		})
	}
}

func TestStore_ClaimConcurrent(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			req := getRequest("http://test/res/")
			var mu sync.Mutex
			owners := 0
			wg := sync.WaitGroup{}
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, owner := s.Claim(ctx, req, NewPending()); owner {
						mu.Lock()
						owners++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			assert.Equal(t, 1, owners)
		})
	}
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	s := NewNoop()
	req := getRequest("http://test/res/1")
	e := NewEntry(testResponse(`{}`), EntryContext{}, time.Minute)

	assert.Same(t, e, s.Put(ctx, req, e))
	assert.Nil(t, s.Get(ctx, req))
	assert.Nil(t, s.Pop(ctx, req))
	assert.False(t, s.Has(ctx, req))
	assert.NoError(t, s.Invalidate(ctx))
	assert.Nil(t, s.Settle(ctx, req, NewPending(), e))
	assert.False(t, s.Release(ctx, req, NewPending()))
	for i := 0; i < 2; i++ {
		got, owner := s.Claim(ctx, req, NewPending())
		assert.Nil(t, got)
		assert.True(t, owner)
	}
}

type failingCache struct {
	cache.Cache
	err error
}

func (f failingCache) Get(context.Context, string) (interface{}, bool, error) {
	return nil, false, f.err
}

func (f failingCache) Set(context.Context, string, interface{}) error {
	return f.err
}

func (f failingCache) Purge(context.Context) error {
	return f.err
}

func TestKV_FailsClosed(t *testing.T) {
	ctx := context.Background()
	errBackend := errors.New("backend down")
	s, err := NewKV("failing", failingCache{err: errBackend})
	require.NoError(t, err)

	req := getRequest("http://test/res/1")
	assert.Nil(t, s.Put(ctx, req, NewEntry(testResponse(`{}`), EntryContext{}, time.Minute)))
	assert.Nil(t, s.Get(ctx, req))
	_, owner := s.Claim(ctx, req, NewPending())
	assert.True(t, owner)
	assert.ErrorIs(t, s.Invalidate(ctx), errBackend)
}

type corruptCache struct {
	cache.Cache
}

func (corruptCache) Get(context.Context, string) (interface{}, bool, error) {
	return "not json", true, nil
}

func TestKV_CorruptEntryIsAMiss(t *testing.T) {
	s, err := NewKV("corrupt", corruptCache{})
	require.NoError(t, err)
	assert.Nil(t, s.Get(context.Background(), getRequest("http://test/res/1")))
}

func TestNewKV(t *testing.T) {
	_, err := NewKV("nil", nil)
	assert.Error(t, err)

	_, err = NewLRU(0)
	assert.Error(t, err)
}

type recordingMetrics struct {
	metrics
	mu      sync.Mutex
	evicted []string
}

func (r *recordingMetrics) evict(store, reason string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evicted = append(r.evicted, store+":"+reason)
}

func TestLRU_ReportsCapacityEvictions(t *testing.T) {
	rec := &recordingMetrics{metrics: monitor}
	prev := monitor
	monitor = rec
	t.Cleanup(func() { monitor = prev })
	clock(t)

	ctx := context.Background()
	s, err := NewLRU(1)
	require.NoError(t, err)
	first, second := getRequest("http://test/res/1"), getRequest("http://test/res/2")

	require.NotNil(t, s.Put(ctx, first, NewEntry(testResponse(`{"id":1}`), EntryContext{}, time.Minute)))
	require.NotNil(t, s.Put(ctx, second, NewEntry(testResponse(`{"id":2}`), EntryContext{}, time.Minute)))

	assert.Equal(t, []string{"lru:capacity"}, rec.evicted)
	assert.Nil(t, s.Get(ctx, first))
	assert.NotNil(t, s.Get(ctx, second))
}
