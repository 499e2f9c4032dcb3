package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jpdehyl/BSA-demo/internal/browser"
	"github.com/jpdehyl/BSA-demo/internal/cache"
	"github.com/jpdehyl/BSA-demo/internal/disposition"
	"github.com/jpdehyl/BSA-demo/internal/llm"
	"github.com/jpdehyl/BSA-demo/internal/research"
	"github.com/jpdehyl/BSA-demo/internal/resilience"
	"github.com/jpdehyl/BSA-demo/internal/scrape"
	"github.com/jpdehyl/BSA-demo/internal/store"
	anthropicpkg "github.com/jpdehyl/BSA-demo/pkg/anthropic"
	"github.com/jpdehyl/BSA-demo/pkg/gemini"
	"github.com/jpdehyl/BSA-demo/pkg/serpapi"
	"github.com/jpdehyl/BSA-demo/pkg/xai"
)

// researchEnv holds the initialized clients and the aggregator shared by
// the research, batch and serve commands.
type researchEnv struct {
	Aggregator *research.Aggregator
	Cache      *cache.Cache
	Limiter    *cache.Limiter
	Browser    *browser.Manager
	Store      store.Store // nil when persistence is off

	connector *browser.PlaywrightConnector
}

// Close releases the browser driver and the store.
func (e *researchEnv) Close() {
	if e.connector != nil {
		if err := e.connector.Stop(); err != nil {
			zap.L().Warn("stop browser driver", zap.Error(err))
		}
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initResearch validates config for mode, builds every client and, when
// withStore is set, opens and migrates the store. Callers should defer
// env.Close().
func initResearch(ctx context.Context, mode string, withStore bool) (*researchEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	deep, err := newCompleter(ctx, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	env := &researchEnv{
		Cache:     cache.New(cfg.Research.CacheTTL()),
		Limiter:   cache.NewLimiter(cfg.Research.MaxConcurrentSessions),
		connector: browser.NewPlaywrightConnector(),
	}
	env.Browser = browser.NewManager(browser.Config{
		Token: cfg.Browserless.Token,
		Host:  cfg.Browserless.Host,
	}, env.connector)
	if !env.Browser.Configured() {
		zap.L().Warn("BSA_BROWSERLESS_TOKEN not set, browser scrapes will report unavailable")
	}

	opts := []research.Option{
		research.WithPolicy(llmPolicy()),
		research.WithRequestOptions(cfg.Browserless.RequestOptions()),
		research.WithSellerContext(cfg.Research.SellerContext),
	}
	if cfg.SerpAPI.Key != "" {
		opts = append(opts, research.WithSearch(serpapi.NewClient(cfg.SerpAPI.Key,
			serpapi.WithBaseURL(cfg.SerpAPI.BaseURL),
			serpapi.WithRateLimit(cfg.SerpAPI.RatePerSec),
		)))
	} else {
		zap.L().Debug("BSA_SERPAPI_KEY not set, profile search disabled")
	}
	if cfg.XAI.Key != "" {
		opts = append(opts, research.WithSocial(xai.Completer{Client: xai.NewClient(cfg.XAI.Key,
			xai.WithBaseURL(cfg.XAI.BaseURL),
			xai.WithModel(cfg.XAI.Model),
			xai.WithRateLimit(cfg.XAI.RatePerSec),
		)}))
	} else {
		zap.L().Debug("BSA_XAI_KEY not set, social activity disabled")
	}

	runner := scrape.NewRunner(env.Cache, env.Limiter, env.Browser)
	env.Aggregator = research.New(runner, deep, opts...)

	if withStore {
		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			env.Close()
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			env.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
		env.Store = st
	}
	return env, nil
}

// newCompleter builds the configured LLM provider. geminiModel selects the
// Gemini model so disposition can use a lighter one.
func newCompleter(ctx context.Context, geminiModel string) (llm.Completer, error) {
	switch cfg.LLM.Provider {
	case "anthropic":
		return anthropicpkg.NewCompleter(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model), nil
	default:
		c, err := gemini.New(ctx, gemini.Config{
			APIKey:  cfg.Gemini.Key,
			Model:   geminiModel,
			BaseURL: cfg.Gemini.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// newSuggester builds the disposition suggester. Without credentials it
// still works on the rule ladder alone.
func newSuggester(ctx context.Context) *disposition.Suggester {
	c, err := newCompleter(ctx, cfg.Gemini.DispositionModel)
	if err != nil {
		zap.L().Debug("disposition: no completer, rules only", zap.Error(err))
	}
	return disposition.NewSuggester(c, disposition.WithPolicy(llmPolicy()))
}

func llmPolicy() resilience.Policy {
	p := resilience.DefaultPolicy()
	if cfg.LLM.MaxParseAttempts > 0 {
		p.Attempts = cfg.LLM.MaxParseAttempts
	}
	return p
}

// sessionTimeout bounds one research call from the CLI.
const sessionTimeout = 5 * time.Minute
