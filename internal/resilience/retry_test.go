package resilience

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() Policy {
	return Policy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestRetryVal_SucceedsAfterTransient(t *testing.T) {
	calls := 0
	v, err := RetryVal(context.Background(), fastPolicy(), func(_ context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", Transient(errors.New("503"), http.StatusServiceUnavailable)
		}
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", v)
	assert.Equal(t, 3, calls)
}

func TestRetryVal_StopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := RetryVal(context.Background(), fastPolicy(), func(_ context.Context) (int, error) {
		calls++
		return 0, errors.New("bad request")
	})
	assert.EqualError(t, err, "bad request")
	assert.Equal(t, 1, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	var retried []int
	p := fastPolicy()
	p.Retryable = func(error) bool { return true }
	p.OnRetry = func(attempt int, _ error) { retried = append(retried, attempt) }

	calls := 0
	err := Retry(context.Background(), p, func(_ context.Context) error {
		calls++
		return errors.New("still failing")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestRetry_ContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{Attempts: 5, BaseDelay: time.Hour, MaxDelay: time.Hour, Retryable: func(error) bool { return true }}

	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := Retry(ctx, p, func(_ context.Context) error {
		calls++
		return errors.New("fail")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestPolicy_DelayCapped(t *testing.T) {
	p := Policy{BaseDelay: time.Second, MaxDelay: 10 * time.Second}.normalized()
	p.Jitter = 0
	assert.Equal(t, time.Second, p.delay(0))
	assert.Equal(t, 2*time.Second, p.delay(1))
	assert.Equal(t, 8*time.Second, p.delay(3))
	assert.Equal(t, 10*time.Second, p.delay(6))
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.True(t, IsTransient(Transient(errors.New("x"), 429)))
	assert.True(t, IsTransient(errors.New("read tcp: connection reset by peer")))
	assert.False(t, IsTransient(errors.New("invalid json")))
	assert.Nil(t, Transient(nil, 500))
}

func TestIsTransientStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 400, 401, 404} {
		assert.False(t, IsTransientStatus(code), "status %d", code)
	}
}
