package cache

import (
	"context"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the number of browser sessions allowed at once.
const DefaultConcurrency = 5

// Limiter admits at most K tasks at a time. Waiting tasks are admitted in
// arrival order.
type Limiter struct {
	sem      *semaphore.Weighted
	size     int64
	inFlight atomic.Int64
	queued   atomic.Int64
}

// NewLimiter creates a Limiter admitting k concurrent tasks. A non-positive
// k falls back to DefaultConcurrency.
func NewLimiter(k int) *Limiter {
	if k <= 0 {
		k = DefaultConcurrency
	}
	return &Limiter{sem: semaphore.NewWeighted(int64(k)), size: int64(k)}
}

// Size returns K.
func (l *Limiter) Size() int { return int(l.size) }

// InFlight returns the number of tasks currently admitted.
func (l *Limiter) InFlight() int { return int(l.inFlight.Load()) }

// Queued returns the number of tasks waiting for admission.
func (l *Limiter) Queued() int { return int(l.queued.Load()) }

// Run waits for a slot, then runs fn. If ctx is done while waiting, fn is
// never called and the context error is returned.
func (l *Limiter) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	l.queued.Add(1)
	err := l.sem.Acquire(ctx, 1)
	l.queued.Add(-1)
	if err != nil {
		return eris.Wrap(err, "limiter: acquire")
	}
	l.inFlight.Add(1)
	defer func() {
		l.inFlight.Add(-1)
		l.sem.Release(1)
	}()
	return fn(ctx)
}

// RunVal is Run for tasks that produce a value.
func RunVal[T any](ctx context.Context, l *Limiter, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := l.Run(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		out = v
		return err
	})
	return out, err
}
