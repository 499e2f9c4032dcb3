package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jpdehyl/BSA-demo/internal/llm"
	"github.com/jpdehyl/BSA-demo/internal/model"
	"github.com/jpdehyl/BSA-demo/internal/resilience"
	"github.com/jpdehyl/BSA-demo/internal/scrape"
	"github.com/jpdehyl/BSA-demo/pkg/serpapi"
)

// profileIntel locates the contact's social profile through search and
// then scrapes it best-effort. A subject that already carries a profile
// URL still searches, for the headline and snippet.
func (a *Aggregator) profileIntel(ctx context.Context, s model.Subject) model.SourceResult[model.SocialProfileIntel] {
	start := time.Now()
	log := zap.L().With(zap.String("source", string(model.SourceSocialProfile)), zap.String("contact", s.ContactName))

	lookup := model.ProfileLookup{ProfileURL: strings.TrimSpace(s.LinkedInURL)}
	if isEmpty(lookup.ProfileURL) {
		lookup.ProfileURL = ""
	}

	switch {
	case a.search != nil:
		found, err := serpapi.FindProfile(ctx, a.search, s.ContactName, s.CompanyName)
		switch {
		case err == nil:
			lookup = found
		case lookup.ProfileURL == "":
			return model.Failed[model.SocialProfileIntel](err, time.Since(start))
		default:
			log.Warn("research: profile search failed, using known profile url", zap.Error(err))
		}
	case lookup.ProfileURL == "":
		return model.Failed[model.SocialProfileIntel](&model.ConfigurationError{Setting: "serpapi.key"}, time.Since(start))
	}

	intel := model.SocialProfileIntel{Lookup: lookup}
	if req, ok := scrape.ProfileRequest(lookup.ProfileURL, a.reqOpts); ok {
		res := scrape.Do(ctx, a.runner, req, scrape.Profile)
		if res.OK() {
			intel.Profile = res.Data
		} else {
			log.Debug("research: profile scrape unavailable", zap.String("reason", res.Error))
		}
	}
	return model.Succeeded(intel, false, time.Since(start))
}

// companyIntel fans out the three company scrapes and waits for all.
func (a *Aggregator) companyIntel(ctx context.Context, s model.Subject) model.CompanyIntel {
	var out model.CompanyIntel
	var g errgroup.Group

	g.Go(func() error {
		req, ok := scrape.WebsiteRequest(s.CompanyWebsite, a.reqOpts)
		if !ok {
			out.Website = model.Unavailable[model.WebsiteRecord]("no company website on record")
			return nil
		}
		out.Website = scrape.Do(ctx, a.runner, req, scrape.Website)
		return nil
	})
	g.Go(func() error {
		req, ok := scrape.CompanyPageRequest(s.CompanyName, a.reqOpts)
		if !ok {
			out.Page = model.Unavailable[model.CompanyPageRecord]("no company name on record")
			return nil
		}
		out.Page = scrape.Do(ctx, a.runner, req, scrape.CompanyPage)
		return nil
	})
	g.Go(func() error {
		req, ok := scrape.JobsRequest(s.CompanyName, a.reqOpts)
		if !ok {
			out.Jobs = model.Unavailable[model.HiringSignal]("no company name on record")
			return nil
		}
		out.Jobs = scrape.Do(ctx, a.runner, req, scrape.Jobs(s.CompanyName))
		return nil
	})

	_ = g.Wait()
	return out
}

const (
	activityTemperature = 0.7
	activitySystem      = "You are an expert at researching professionals on X.com (Twitter). Provide accurate intelligence about their social media presence and engagement patterns."
)

// socialActivity asks the social completer about the contact's public
// posting. A missing completer is reported as not configured.
func (a *Aggregator) socialActivity(ctx context.Context, s model.Subject) model.SourceResult[model.SocialActivity] {
	start := time.Now()
	if a.social == nil {
		return model.Failed[model.SocialActivity](&model.ConfigurationError{Setting: "xai.key"}, 0)
	}

	policy := a.policy
	policy.OnRetry = resilience.LogRetry("xai", "social_activity")
	act, err := llm.DecodeJSON[model.SocialActivity](ctx, a.social, activityPrompt(s), policy)
	if err != nil {
		return model.Failed[model.SocialActivity](err, time.Since(start))
	}
	if isEmpty(act.Handle) {
		act.Handle = ""
	}
	return model.Succeeded(act, false, time.Since(start))
}

func activityPrompt(s model.Subject) llm.Prompt {
	user := fmt.Sprintf(`Search X.com (Twitter) for information about this person:
Name: %s
Title: %s
Company: %s
Industry: %s

Find their X/Twitter profile if possible and analyze:
1. Recent posts and topics they discuss
2. Their engagement style (thought leader, casual, technical, etc.)
3. Professional interests based on what they share/retweet
4. Overall tone (formal, conversational, humorous, etc.)
5. Any recent activity or announcements

Return a JSON object with these exact keys:
{
  "xHandle": "their @handle if found, null if not found",
  "posts": ["array of 3-5 notable recent posts or topics they discuss"],
  "engagementStyle": "description of how they engage on the platform",
  "interests": ["array of 3-5 professional interests based on their activity"],
  "professionalTone": "brief description of their communication style",
  "recentActivity": "summary of their recent X.com activity or any announcements"
}

If you cannot find their profile, return reasonable inferences based on their role and industry.`,
		s.ContactName, orUnknown(s.ContactTitle, "Unknown"), s.CompanyName, orUnknown(s.Industry, "Unknown"))
	return llm.Prompt{System: activitySystem, User: user, Temperature: activityTemperature}
}
