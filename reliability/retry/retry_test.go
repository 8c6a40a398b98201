package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errTest    = errors.New("test error")
	testResult = "test result"
)

func TestNew(t *testing.T) {
	tests := map[string]struct {
		attempts int
		delay    time.Duration
		wantErr  bool
	}{
		"success":          {attempts: 3, delay: 3 * time.Second},
		"invalid attempts": {attempts: 1, wantErr: true},
		"negative delay":   {attempts: 2, delay: -time.Second, wantErr: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := New(tt.attempts, tt.delay)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestRetry_Execute(t *testing.T) {
	tests := map[string]struct {
		failures  int
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		"first attempt succeeds":  {failures: 0, attempts: 3, wantCalls: 1},
		"second attempt succeeds": {failures: 1, attempts: 3, wantCalls: 2},
		"all attempts fail":       {failures: 5, attempts: 3, wantCalls: 3, wantErr: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := New(tt.attempts, time.Millisecond)
			require.NoError(t, err)
			calls := 0
			res, err := r.Execute(context.Background(), func() (interface{}, error) {
				calls++
				if calls <= tt.failures {
					return nil, errTest
				}
				return testResult, nil
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.ErrorIs(t, err, errTest)
				assert.Nil(t, res)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, testResult, res)
		})
	}
}

func TestRetry_Execute_ContextDone(t *testing.T) {
	r, err := New(5, time.Hour)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err = r.Execute(ctx, func() (interface{}, error) {
		calls++
		return nil, errTest
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, errTest)
	assert.ErrorIs(t, err, context.Canceled)
}
