// Package scrape extracts structured records from live browser pages. Every
// scrape goes through a Runner, which serves cached results, bounds
// concurrent sessions, and turns failures into SourceResult errors.
package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jpdehyl/BSA-demo/internal/browser"
	"github.com/jpdehyl/BSA-demo/internal/cache"
	"github.com/jpdehyl/BSA-demo/internal/model"
)

// Adapter extracts a T from a page already positioned at the target.
type Adapter[T any] func(ctx context.Context, p browser.Page) (T, error)

// Runner composes the result cache, the session limiter and a session
// opener.
type Runner struct {
	cache   *cache.Cache
	limiter *cache.Limiter
	opener  browser.Opener
	flights singleflight.Group
}

// NewRunner creates a Runner.
func NewRunner(c *cache.Cache, l *cache.Limiter, o browser.Opener) *Runner {
	return &Runner{cache: c, limiter: l, opener: o}
}

// Cache returns the result cache.
func (r *Runner) Cache() *cache.Cache { return r.cache }

// Limiter returns the session limiter.
func (r *Runner) Limiter() *cache.Limiter { return r.limiter }

// Do serves req from cache when possible, otherwise opens a session under
// the limiter, navigates to req.Locator and runs fn. Concurrent misses for
// the same key wait on one fetch; SkipCache requests always fetch. It never
// returns an error: failures, including panics in fn, come back as a failed
// result.
func Do[T any](ctx context.Context, r *Runner, req model.EnrichmentRequest, fn Adapter[T]) model.SourceResult[T] {
	start := time.Now()
	key := req.CacheKey()
	log := zap.L().With(
		zap.String("source", string(req.Kind)),
		zap.String("url", req.Locator),
	)

	if !req.Options.SkipCache {
		if v, ok := cache.Lookup[T](r.cache, key); ok {
			log.Debug("scrape: cache hit")
			return model.Succeeded(v, true, time.Since(start))
		}
	}

	fetch := func() (any, error) {
		v, err := cache.RunVal(ctx, r.limiter, func(ctx context.Context) (T, error) {
			v, err := guarded(ctx, r.opener, req, fn)
			if err != nil {
				return v, err
			}
			r.cache.Put(key, v)
			return v, nil
		})
		return flightResult[T]{v: v}, err
	}

	var (
		out any
		err error
	)
	if req.Options.SkipCache {
		out, err = fetch()
	} else {
		out, err, _ = r.flights.Do(key, func() (any, error) {
			// A flight that finished after our lookup already filled the cache.
			if v, ok := cache.Lookup[T](r.cache, key); ok {
				return flightResult[T]{v: v, cached: true}, nil
			}
			return fetch()
		})
	}
	elapsed := time.Since(start)
	if err != nil {
		log.Warn("scrape: failed", zap.Int64("duration_ms", elapsed.Milliseconds()), zap.Error(err))
		return model.Failed[T](err, elapsed)
	}

	f, ok := out.(flightResult[T])
	if !ok {
		// Another caller used the same key with a different record type.
		return model.Failed[T](eris.Errorf("scrape: %s result has unexpected type %T", req.Kind, out), elapsed)
	}
	log.Info("scrape: complete", zap.Int64("duration_ms", elapsed.Milliseconds()), zap.Bool("cached", f.cached))
	return model.Succeeded(f.v, f.cached, elapsed)
}

// flightResult is what one shared fetch hands to every caller waiting on it.
type flightResult[T any] struct {
	v      T
	cached bool
}

// guarded runs one scoped session and converts a panic into an error. The
// session is already closed by the time the panic is recovered.
func guarded[T any](ctx context.Context, o browser.Opener, req model.EnrichmentRequest, fn Adapter[T]) (v T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = eris.New(fmt.Sprintf("scrape: %s adapter panicked: %v", req.Kind, rec))
		}
	}()
	return browser.WithSession(ctx, o, browser.OptionsFor(req.Options), req.Locator, fn)
}
