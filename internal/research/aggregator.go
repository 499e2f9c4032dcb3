// Package research fans a subject out to every enrichment source at once,
// tolerates any of them failing, and merges what came back into one
// composite record with discovered fields, a penalized fit score and
// formatted text blocks.
package research

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jpdehyl/BSA-demo/internal/llm"
	"github.com/jpdehyl/BSA-demo/internal/model"
	"github.com/jpdehyl/BSA-demo/internal/resilience"
	"github.com/jpdehyl/BSA-demo/internal/scorer"
	"github.com/jpdehyl/BSA-demo/internal/scrape"
	"github.com/jpdehyl/BSA-demo/pkg/serpapi"
)

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithSocial sets the completer used for the social activity branch.
func WithSocial(c llm.Completer) Option {
	return func(a *Aggregator) { a.social = c }
}

// WithSearch sets the search client used to locate the contact's profile.
func WithSearch(c serpapi.Client) Option {
	return func(a *Aggregator) { a.search = c }
}

// WithPolicy overrides the retry policy for LLM branches.
func WithPolicy(p resilience.Policy) Option {
	return func(a *Aggregator) { a.policy = p }
}

// WithRequestOptions overrides the options attached to scrape requests.
func WithRequestOptions(o model.RequestOptions) Option {
	return func(a *Aggregator) { a.reqOpts = o }
}

// WithSellerContext replaces DefaultSellerContext in the dossier prompt.
func WithSellerContext(s string) Option {
	return func(a *Aggregator) {
		if s != "" {
			a.sellerContext = s
		}
	}
}

// WithClock overrides the clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// Aggregator runs the research branches for one subject.
type Aggregator struct {
	runner        *scrape.Runner
	deep          llm.Completer
	social        llm.Completer
	search        serpapi.Client
	policy        resilience.Policy
	reqOpts       model.RequestOptions
	sellerContext string
	now           func() time.Time
}

// New creates an Aggregator. deep is required by Research.
func New(runner *scrape.Runner, deep llm.Completer, opts ...Option) *Aggregator {
	a := &Aggregator{
		runner:        runner,
		deep:          deep,
		policy:        resilience.DefaultPolicy(),
		reqOpts:       model.DefaultRequestOptions(),
		sellerContext: DefaultSellerContext,
		now:           time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Research starts every branch before waiting on any, then merges. Branch
// failures become unavailable slots. The only error returned is a
// ConfigurationError when no deep-research completer is configured.
func (a *Aggregator) Research(ctx context.Context, s model.Subject) (*model.CompositeResearchRecord, error) {
	if a.deep == nil {
		return nil, &model.ConfigurationError{Setting: "gemini.key"}
	}

	start := time.Now()
	log := zap.L().With(zap.String("contact", s.ContactName), zap.String("company", s.CompanyName))
	log.Info("research: starting parallel research")

	rec := &model.CompositeResearchRecord{
		ID:        uuid.NewString(),
		Subject:   s,
		CreatedAt: a.now().UTC(),
	}

	var g errgroup.Group
	g.Go(func() error {
		rec.Dossier = deepResearch(ctx, a.deep, a.policy, s, a.sellerContext)
		return nil
	})
	g.Go(func() error {
		rec.Profile = a.profileIntel(ctx, s)
		return nil
	})
	g.Go(func() error {
		rec.Company = a.companyIntel(ctx, s)
		return nil
	})
	g.Go(func() error {
		rec.Activity = a.socialActivity(ctx, s)
		return nil
	})
	_ = g.Wait()

	d := Fallback(s)
	if rec.Dossier.OK() {
		d = *rec.Dossier.Data
	} else {
		log.Warn("research: deep research unavailable, using fallback dossier", zap.String("reason", rec.Dossier.Error))
	}

	rec.Discovered = Reconcile(s, Candidates(rec))
	enriched := ApplyDiscovered(s, rec.Discovered)

	score := scorer.Penalize(d.FitScore, scorer.FactsFor(enriched))
	rec.Score = score.Summary()
	rec.Score.Breakdown = scorer.FormatBreakdown(score, d.FitScoreBreakdown)

	rec.Packet = BuildPacket(rec, d)
	rec.DurationMs = time.Since(start).Milliseconds()

	log.Info("research: complete",
		zap.Int64("duration_ms", rec.DurationMs),
		zap.Int("fit_score", rec.Score.Final),
		zap.String("priority", string(rec.Score.Priority)),
		zap.Strings("unavailable", unavailable(rec)),
	)
	return rec, nil
}

// unavailable lists the sources that failed.
func unavailable(rec *model.CompositeResearchRecord) []string {
	var out []string
	check := func(kind model.SourceKind, ok bool) {
		if !ok {
			out = append(out, string(kind))
		}
	}
	check(model.SourceDeepResearch, rec.Dossier.OK())
	check(model.SourceSocialProfile, rec.Profile.OK())
	check(model.SourceWebsite, rec.Company.Website.OK())
	check(model.SourceSocialCompany, rec.Company.Page.OK())
	check(model.SourceJobPostings, rec.Company.Jobs.OK())
	check(model.SourceSocialActivity, rec.Activity.OK())
	return out
}
