package scrape_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpdehyl/BSA-demo/internal/browser/browsertest"
	"github.com/jpdehyl/BSA-demo/internal/model"
	"github.com/jpdehyl/BSA-demo/internal/scrape"
)

func pageAt(t *testing.T, site browsertest.Site, url string) *browsertest.Page {
	t.Helper()
	p := browsertest.NewPage(site)
	require.NoError(t, p.Goto(context.Background(), url))
	return p
}

func TestWebsite_FullExtraction(t *testing.T) {
	t.Parallel()

	p := pageAt(t, acmeSite(), acmeHome)
	rec, err := scrape.Website(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, acmeHome, rec.URL)
	assert.Equal(t, "Acme Robotics", rec.Homepage.Title)
	assert.Equal(t, "Industrial robots for small factories.", rec.Homepage.Description)
	assert.Equal(t, "Automate everything", rec.Homepage.HeroMessage)
	assert.Equal(t, "Book a demo", rec.Homepage.PrimaryCTA)
	assert.Equal(t, []string{"Shopify"}, rec.TechStack)

	assert.Equal(t, "sales@acme.example", rec.Contact.Email)
	assert.Equal(t, "(555) 123-4567", rec.Contact.Phone)

	assert.Equal(t, "https://www.linkedin.com/company/acme", rec.SocialLinks["linkedin"])
	assert.Equal(t, "https://x.com/acme", rec.SocialLinks["twitter"])
	assert.NotContains(t, rec.SocialLinks, "facebook")

	assert.Equal(t, "We build robots that help factories.", rec.About.Mission)
	assert.Equal(t, []string{"Safety", "Craft"}, rec.About.Values)
	require.Len(t, rec.About.Leadership, 2)
	assert.Equal(t, model.Person{Name: "Jane Roe", Title: "CEO"}, rec.About.Leadership[0])

	require.Len(t, rec.Products, 1, "cards without a description are skipped")
	assert.Equal(t, "Arm X1", rec.Products[0].Name)

	assert.Equal(t, 1, p.Scrolls)
	assert.Equal(t, acmeHome, p.URL(), "secondary pages navigate back")
}

func TestWebsite_NoSecondaryPages(t *testing.T) {
	t.Parallel()

	site := browsertest.Site{
		acmeHome: `<html><head><title>Tiny</title></head><body><h1>Hi</h1><a href="/about">About</a></body></html>`,
	}
	p := pageAt(t, site, acmeHome)
	rec, err := scrape.Website(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "Tiny", rec.Homepage.Title)
	assert.Empty(t, rec.About.Mission, "a dead about link is swallowed")
	assert.Empty(t, rec.Products)
}

func TestProfile_Extraction(t *testing.T) {
	t.Parallel()

	p := pageAt(t, acmeSite(), acmeProfile)
	rec, err := scrape.Profile(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "Dana Smith", rec.Name)
	assert.Equal(t, "VP Engineering at Acme", rec.Headline)
	assert.Equal(t, "Austin, Texas", rec.Location)
	assert.Equal(t, "Builder of teams.", rec.About)
	assert.Equal(t, "500+", rec.Connections)
	assert.Equal(t, []string{"Go", "Kubernetes"}, rec.Skills)

	require.Len(t, rec.Experience, 2)
	cur, ok := rec.CurrentRole()
	require.True(t, ok)
	assert.Equal(t, model.Experience{Title: "VP Engineering", Employer: "Acme", Duration: "2021 - Present"}, cur)

	require.Len(t, rec.Education, 1)
	assert.Equal(t, "MIT", rec.Education[0].School)
	assert.Equal(t, "BS Mechanical Engineering", rec.Education[0].Degree)
	assert.Equal(t, 1, p.Scrolls)
}

func TestProfile_MissingNameIsExtractionFailure(t *testing.T) {
	t.Parallel()

	site := browsertest.Site{acmeProfile: `<html><body><div class="pv-top-card"></div></body></html>`}
	_, err := scrape.Profile(context.Background(), pageAt(t, site, acmeProfile))

	var ef *scrape.ExtractionFailed
	require.ErrorAs(t, err, &ef)
	assert.Equal(t, model.SourceSocialProfile, ef.Source)
	assert.Equal(t, "profile name not found", ef.Reason)
}

func TestProfile_AuthWallNamedInReason(t *testing.T) {
	t.Parallel()

	site := browsertest.Site{acmeProfile: `<html><body><a href="/authwall">Join now to see Dana's profile</a></body></html>`}
	_, err := scrape.Profile(context.Background(), pageAt(t, site, acmeProfile))

	var ef *scrape.ExtractionFailed
	require.ErrorAs(t, err, &ef)
	assert.Contains(t, ef.Reason, "profile card did not load")
	assert.Contains(t, ef.Reason, "blocked: auth_wall")
}

func TestCompanyPage_Extraction(t *testing.T) {
	t.Parallel()

	p := pageAt(t, acmeSite(), acmeCompany)
	rec, err := scrape.CompanyPage(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "Acme Robotics", rec.Name)
	assert.Equal(t, "Robots for everyone", rec.Tagline)
	assert.Equal(t, "We make robots.", rec.About)
	assert.Equal(t, "Industrial Automation", rec.Industry, "dl pairs override definition terms")
	assert.Equal(t, "1999", rec.Founded)
	assert.Equal(t, "201-500 employees", rec.CompanySize)
	assert.Equal(t, []string{"robotics", "automation", "vision"}, rec.Specialties)
	assert.Equal(t, 1234, rec.JobOpenings)
	assert.Equal(t, "https://acme.example", rec.WebsiteURL)
	assert.Equal(t, "201-500 employees", rec.EmployeeCount)

	require.Len(t, rec.RecentPosts, 1)
	assert.Equal(t, "New plant opening in Ohio", rec.RecentPosts[0].Content)
	assert.Equal(t, "2d", rec.RecentPosts[0].Date)
}

func TestCompanyPage_NoAnchor(t *testing.T) {
	t.Parallel()

	site := browsertest.Site{acmeCompany: `<html><body><h1>Page not found</h1></body></html>`}
	_, err := scrape.CompanyPage(context.Background(), pageAt(t, site, acmeCompany))

	var ef *scrape.ExtractionFailed
	require.ErrorAs(t, err, &ef)
	assert.Equal(t, model.SourceSocialCompany, ef.Source)
}

func TestJobs_SearchResults(t *testing.T) {
	t.Parallel()

	p := pageAt(t, acmeSite(), acmeJobsSearch)
	sig, err := scrape.Jobs(acmeCompanyN)(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, acmeCompanyN, sig.CompanyName)
	assert.Equal(t, 3, sig.TotalOpenings, "nested cards are counted once")
	assert.Equal(t, map[string]int{"Engineering": 1, "Sales": 1, "Manufacturing": 1}, sig.Departments)
	assert.Equal(t, model.VelocityStable, sig.Velocity())
	assert.Contains(t, sig.PainSignals, "transformation")
	assert.Contains(t, sig.GrowthSignals, "Digital transformation")

	require.Len(t, sig.Jobs, 3)
	assert.Equal(t, "Austin, TX", sig.Jobs[0].Location)
	assert.Equal(t, "1 week ago", sig.Jobs[0].PostedDate)
	assert.Equal(t, 1, p.Scrolls)
}

func TestJobs_FallsBackToCompanyJobsPage(t *testing.T) {
	t.Parallel()

	site := browsertest.Site{
		acmeJobsSearch: `<html><body><p>No results</p></body></html>`,
		scrape.CompanyJobsURL(acmeCompanyN): `<html><body><div class="org-jobs-container">
<div class="job-card-container"><a class="job-card-container__link">Quality Engineer</a></div>
</div></body></html>`,
	}
	p := pageAt(t, site, acmeJobsSearch)
	sig, err := scrape.Jobs(acmeCompanyN)(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "https://www.linkedin.com/company/acme-robotics/jobs/", p.URL())
	assert.Equal(t, 1, sig.TotalOpenings)
	assert.Equal(t, 1, sig.Departments["Engineering"])
}

func TestJobs_BothAnchorsMissing(t *testing.T) {
	t.Parallel()

	site := browsertest.Site{
		acmeJobsSearch:                      `<html><body><p>No results</p></body></html>`,
		scrape.CompanyJobsURL(acmeCompanyN): `<html><body><p>Sign in</p></body></html>`,
	}
	_, err := scrape.Jobs(acmeCompanyN)(context.Background(), pageAt(t, site, acmeJobsSearch))

	var ef *scrape.ExtractionFailed
	require.ErrorAs(t, err, &ef)
	assert.Equal(t, model.SourceJobPostings, ef.Source)
}

func TestRequests(t *testing.T) {
	t.Parallel()

	opts := model.DefaultRequestOptions()

	req, ok := scrape.WebsiteRequest("acme.example", opts)
	require.True(t, ok)
	assert.Equal(t, "website:https://acme.example/", req.CacheKey())

	_, ok = scrape.WebsiteRequest("null", opts)
	assert.False(t, ok)

	_, ok = scrape.ProfileRequest("https://www.linkedin.com/company/acme/", opts)
	assert.False(t, ok, "company URLs are not profiles")

	req, ok = scrape.CompanyPageRequest("Café Société GmbH", opts)
	require.True(t, ok)
	assert.Equal(t, "https://www.linkedin.com/company/cafe-societe-gmbh/", req.Locator)

	req, ok = scrape.JobsRequest(acmeCompanyN, opts)
	require.True(t, ok)
	assert.Equal(t, "https://www.linkedin.com/jobs/search/?keywords=Acme+Robotics&location=", req.Locator)

	_, ok = scrape.JobsRequest("  ", opts)
	assert.False(t, ok)
}

func TestFormatters_FailedResult(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Company website data not available: timed out",
		scrape.FormatWebsite(model.Unavailable[model.WebsiteRecord]("timed out")))
	assert.Equal(t, "LinkedIn profile data not available: blocked",
		scrape.FormatProfile(model.Unavailable[model.ProfileRecord]("blocked")))
	assert.Equal(t, "LinkedIn company page data not available",
		scrape.FormatCompanyPage(model.Unavailable[model.CompanyPageRecord]("")))
	assert.Contains(t, scrape.FormatJobs(model.Unavailable[model.HiringSignal]("x")), "Job postings data not available")
}

func TestFormatJobs(t *testing.T) {
	t.Parallel()

	sig := scrape.BuildHiringSignal("Acme", []model.JobPosting{
		{Title: "Software Engineer", Location: "Remote"},
		{Title: "Backend Developer"},
		{Title: "Sales Manager"},
		{Title: "Barista"},
	})
	out := scrape.FormatJobs(model.Succeeded(sig, false, 0))

	assert.Contains(t, out, "## Job Postings Analysis: Acme")
	assert.Contains(t, out, "- **Hiring Velocity:** Stable")
	assert.Contains(t, out, "- **Engineering:** 2 positions (50%)")
	assert.Contains(t, out, "- **Other:** 1 positions (25%)")
	assert.Contains(t, out, "- Software Engineer (Remote)")
}

func TestFormatWebsite(t *testing.T) {
	t.Parallel()

	p := pageAt(t, acmeSite(), acmeHome)
	rec, err := scrape.Website(context.Background(), p)
	require.NoError(t, err)

	out := scrape.FormatWebsite(model.Succeeded(rec, false, 0))
	assert.Contains(t, out, "## Website Analysis: https://acme.example/")
	assert.Contains(t, out, "**Hero Message:** Automate everything")
	assert.Contains(t, out, "- Jane Roe - CEO")
	assert.Contains(t, out, "- **Twitter:** https://x.com/acme")
	assert.Contains(t, out, "Shopify")
}
