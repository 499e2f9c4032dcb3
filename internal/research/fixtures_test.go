package research_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jpdehyl/BSA-demo/internal/browser"
	"github.com/jpdehyl/BSA-demo/internal/browser/browsertest"
	"github.com/jpdehyl/BSA-demo/internal/cache"
	"github.com/jpdehyl/BSA-demo/internal/llm"
	"github.com/jpdehyl/BSA-demo/internal/resilience"
	"github.com/jpdehyl/BSA-demo/internal/scrape"
	"github.com/jpdehyl/BSA-demo/pkg/serpapi"
)

const (
	acmeHome    = "https://acme.example/"
	acmeProfile = "https://www.linkedin.com/in/dana-smith/"
	acmeName    = "Acme Robotics"
)

func acmeSite() browsertest.Site {
	return browsertest.Site{
		acmeHome: `<html><head><title>Acme Robotics</title>
<meta name="description" content="Industrial robots for small factories."></head>
<body>
<div class="hero"><h1>Automate everything</h1></div>
<nav><a href="/about">About us</a><a href="/products">Products</a></nav>
<footer><p>Contact sales@acme.example or call (555) 123-4567</p></footer>
</body></html>`,
		"https://acme.example/about": `<html><body>
<section class="mission"><p>We build robots that help factories.</p></section>
</body></html>`,
		"https://acme.example/products": `<html><body>
<div class="product"><h3>Arm X1</h3><p>Six-axis arm.</p></div>
</body></html>`,
		acmeProfile: `<html><body>
<div class="pv-top-card"><div class="pv-text-details__left-panel">
  <h1>Dana Smith</h1>
  <div class="text-body-medium">VP Engineering at Acme</div>
</div></div>
<ul>
  <li class="pvs-list__item--line-separated">
    <span class="t-bold"><span aria-hidden="true">VP Engineering</span></span>
    <span class="t-normal"><span aria-hidden="true">Acme</span></span>
    <span class="pvs-entity__caption-wrapper">2021 - Present</span>
  </li>
</ul>
</body></html>`,
		scrape.BuildCompanyPageURL(acmeName): `<html><body>
<div class="org-top-card">
  <h1 class="org-top-card-summary__title">Acme Robotics</h1>
  <div class="org-top-card-primary-actions__inner"><a href="https://acme.example">Visit website</a></div>
</div>
<p class="org-about-us-organization-description__text">We make robots.</p>
</body></html>`,
		scrape.JobsSearchURL(acmeName): `<html><body>
<ul class="jobs-search-results-list">
  <li class="jobs-search-results__list-item"><div class="job-card-container">
    <a class="job-card-container__link">Senior Software Engineer</a>
  </div></li>
</ul>
</body></html>`,
	}
}

func fastPolicy() resilience.Policy {
	return resilience.Policy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func newRunner(t *testing.T, conn *browsertest.Connector) *scrape.Runner {
	t.Helper()
	m := browser.NewManager(browser.Config{Token: "tok"}, conn)
	return scrape.NewRunner(cache.New(0), cache.NewLimiter(cache.DefaultConcurrency), m)
}

// reply returns a completer that always answers text and counts calls.
func reply(text string, calls *atomic.Int32) llm.Completer {
	return llm.CompleterFunc(func(ctx context.Context, p llm.Prompt) (string, error) {
		if calls != nil {
			calls.Add(1)
		}
		return text, nil
	})
}

type fakeSearch struct {
	resp *serpapi.SearchResponse
	err  error
}

func (f fakeSearch) Search(ctx context.Context, q serpapi.Query) (*serpapi.SearchResponse, error) {
	return f.resp, f.err
}

const dossierJSON = "```json\n" + `{
  "personalBackground": "Twenty years in robotics.",
  "commonGround": "Both ran marathons.",
  "companyContext": "Acme builds arms.",
  "painSignals": "Legacy 2D CAD.",
  "techStackIntel": "AutoCAD",
  "buyingTriggers": "New plant in Ohio.",
  "solutionFit": "SOLIDWORKS and PDM.",
  "fitScore": 82.4,
  "fitScoreBreakdown": "Strong industry fit.",
  "openingLine": "Hi Dana, congrats on the Ohio plant.",
  "talkTrack": ["Faster design", "Less rework"],
  "discoveryQuestions": ["What CAD do you use?", "Who signs off?"],
  "objectionHandles": [{"objection": "No budget", "response": "Financing exists."}],
  "theAsk": "A 20 minute demo.",
  "linkedInUrl": null,
  "phoneNumber": "555-0100",
  "jobTitle": "VP of Engineering",
  "companyWebsite": "null"
}` + "\n```"

const activityJSON = `{
  "xHandle": "@danabuilds",
  "posts": ["Robots in small shops"],
  "engagementStyle": "Thought leader",
  "interests": ["automation", "CAD"],
  "professionalTone": "Conversational",
  "recentActivity": "Announced the Ohio plant"
}`

var profileSearch = fakeSearch{resp: &serpapi.SearchResponse{OrganicResults: []serpapi.OrganicResult{
	{Position: 1, Title: "Acme careers", Link: "https://acme.example/careers"},
	{Position: 2, Title: "Dana Smith - VP Engineering | LinkedIn", Link: acmeProfile, Snippet: "VP Engineering at Acme Robotics. Located in Austin, Texas · 500+ connections"},
}}}
