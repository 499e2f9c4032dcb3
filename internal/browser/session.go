package browser

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// WithSession opens a session, navigates a fresh page to target and runs fn
// on it. The session is closed on every exit path, including a panic in fn.
func WithSession[T any](ctx context.Context, o Opener, opts Options, target string, fn func(ctx context.Context, p Page) (T, error)) (T, error) {
	var zero T
	start := time.Now()
	log := zap.L().With(zap.String("url", target))

	sess, err := o.Open(ctx, opts)
	if err != nil {
		return zero, err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			log.Warn("browser: close session", zap.Error(cerr))
		}
	}()

	page, err := sess.NewPage(ctx)
	if err != nil {
		return zero, eris.Wrap(err, "browser: new page")
	}

	if err := page.Goto(ctx, target); err != nil {
		log.Warn("browser: navigation failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return zero, err
	}

	v, err := fn(ctx, page)
	if err != nil {
		log.Warn("browser: scrape failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return zero, err
	}
	log.Debug("browser: scrape complete", zap.Duration("elapsed", time.Since(start)))
	return v, nil
}
