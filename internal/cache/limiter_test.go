package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_NeverExceedsBound(t *testing.T) {
	l := NewLimiter(5)

	var current, peak atomic.Int64
	var violations atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.Run(context.Background(), func(_ context.Context) error {
				n := current.Add(1)
				if n > 5 {
					violations.Add(1)
				}
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				current.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Zero(t, violations.Load())
	assert.LessOrEqual(t, peak.Load(), int64(5))
	assert.Equal(t, 0, l.InFlight())
}

func TestLimiter_FIFOAdmission(t *testing.T) {
	l := NewLimiter(1)

	release := make(chan struct{})
	holding := make(chan struct{})
	go func() {
		_ = l.Run(context.Background(), func(_ context.Context) error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = l.Run(context.Background(), func(_ context.Context) error {
				mu.Lock()
				order = append(order, id)
				mu.Unlock()
				return nil
			})
		}(i)
		want := i + 1
		require.Eventually(t, func() bool { return l.Queued() == want }, time.Second, time.Millisecond)
		time.Sleep(5 * time.Millisecond)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3}, order)
}

func TestLimiter_CancelWhileQueued(t *testing.T) {
	l := NewLimiter(1)

	release := make(chan struct{})
	holding := make(chan struct{})
	go func() {
		_ = l.Run(context.Background(), func(_ context.Context) error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	called := false
	err := l.Run(ctx, func(_ context.Context) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadline exceeded")
	assert.False(t, called)
}

func TestRunVal_PropagatesValueAndError(t *testing.T) {
	l := NewLimiter(2)

	v, err := RunVal(context.Background(), l, func(_ context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	_, err = RunVal(context.Background(), l, func(_ context.Context) (int, error) {
		return 0, errors.New("task failed")
	})
	assert.EqualError(t, err, "task failed")
	assert.Equal(t, 0, l.InFlight())
}

func TestNewLimiter_Default(t *testing.T) {
	assert.Equal(t, DefaultConcurrency, NewLimiter(0).Size())
	assert.Equal(t, 3, NewLimiter(3).Size())
}
