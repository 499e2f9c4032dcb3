package scrape

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jpdehyl/BSA-demo/internal/browser"
	"github.com/jpdehyl/BSA-demo/internal/model"
)

const (
	companyAnchor        = ".org-top-card, .organization-outlet"
	companyAnchorTimeout = 15 * time.Second

	maxPosts = 5
)

var (
	nonDigits      = regexp.MustCompile(`\D`)
	specialtySplit = regexp.MustCompile(`[,;]`)
)

// CompanyPageRequest builds the request for a company page. A locator that
// is not already a company page URL is treated as a company name.
func CompanyPageRequest(locator string, opts model.RequestOptions) (model.EnrichmentRequest, bool) {
	locator = strings.TrimSpace(locator)
	if !IsCompanyPageURL(locator) {
		locator = BuildCompanyPageURL(locator)
	}
	if locator == "" {
		return model.EnrichmentRequest{}, false
	}
	return model.EnrichmentRequest{Kind: model.SourceSocialCompany, Locator: locator, Options: opts}, true
}

// CompanyPage extracts a company's social page. A page without a company
// name is an extraction failure.
func CompanyPage(ctx context.Context, p browser.Page) (model.CompanyPageRecord, error) {
	rec := model.CompanyPageRecord{PageURL: p.URL()}
	if !p.WaitFor(ctx, companyAnchor, companyAnchorTimeout) {
		return rec, anchorMissing(ctx, model.SourceSocialCompany, p, "company card")
	}
	_ = p.AutoScroll(ctx)

	_, doc, err := loadDocument(ctx, p)
	if err != nil {
		return rec, err
	}

	rec.Name = firstText(doc, ".org-top-card-summary__title", ".top-card-layout__title", "h1")
	if rec.Name == "" {
		return rec, &ExtractionFailed{
			Source: model.SourceSocialCompany,
			URL:    rec.PageURL,
			Reason: "company name not found",
		}
	}
	rec.Tagline = firstText(doc, ".org-top-card-summary__tagline", ".top-card-layout__headline")
	rec.About = firstText(doc,
		".org-about-us-organization-description__text",
		".about-us-organization-description__text",
		`[data-test-id="about-us__description"]`,
	)

	details := companyDetails(doc)
	rec.Industry = details["Industry"]
	rec.CompanySize = firstNonEmpty(details["Company size"], details["Size"])
	rec.Headquarters = firstNonEmpty(details["Headquarters"], details["Location"])
	rec.Founded = details["Founded"]
	rec.Specialties = splitSpecialties(firstNonEmpty(details["Specialties"], details["Specializations"]))

	rec.RecentPosts = recentPosts(doc)
	rec.EmployeeCount = firstText(doc, ".org-top-card-summary-info-list__info-item", ".face-pile__text")
	rec.FollowerCount = firstText(doc,
		".org-top-card-summary-info-list__followers-count",
		`[data-test-id="about-us__followers"]`,
	)
	rec.JobOpenings = ParseCount(firstText(doc,
		".org-jobs-job-search-form-module__headline",
		`[data-test-id="org-jobs-module__headline"]`,
	))
	rec.WebsiteURL = firstAttr(doc, "href",
		`.org-top-card-primary-actions__inner a[href*="http"], .link-without-visited-state[href*="http"]`,
	)
	return rec, nil
}

// companyDetails reads the attribute list. Definition-term pairs are read
// first; dl pairs override them.
func companyDetails(doc *goquery.Document) map[string]string {
	details := make(map[string]string)

	values := doc.Find(".org-page-details__definition-text")
	doc.Find(".org-page-details__definition-term").Each(func(i int, term *goquery.Selection) {
		if i >= values.Length() {
			return
		}
		if key := clean(term.Text()); key != "" {
			details[key] = clean(values.Eq(i).Text())
		}
	})

	doc.Find("dl dt").Each(func(_ int, term *goquery.Selection) {
		dd := term.Next()
		if goquery.NodeName(dd) != "dd" {
			return
		}
		if key := clean(term.Text()); key != "" {
			details[key] = clean(dd.Text())
		}
	})
	return details
}

func recentPosts(doc *goquery.Document) []model.Post {
	var out []model.Post
	doc.Find(".org-update-card, .feed-shared-update-v2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		out = append(out, model.Post{
			Content:    firstText(s, ".update-components-text, .feed-shared-text"),
			Date:       firstText(s, ".update-components-actor__sub-description, .feed-shared-actor__sub-description"),
			Engagement: firstText(s, ".social-details-social-counts, .social-details-social-activity"),
		})
		return len(out) < maxPosts
	})
	return out
}

func splitSpecialties(s string) []string {
	var out []string
	for _, part := range specialtySplit.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseCount strips every non-digit from s and parses the rest, returning
// 0 when nothing numeric remains.
func ParseCount(s string) int {
	n, err := strconv.Atoi(nonDigits.ReplaceAllString(s, ""))
	if err != nil {
		return 0
	}
	return n
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// FormatCompanyPage renders a company page result as a Markdown block.
func FormatCompanyPage(r model.SourceResult[model.CompanyPageRecord]) string {
	return render(model.SourceSocialCompany, r, func(m *markdown, c model.CompanyPageRecord) {
		m.line("## LinkedIn Company Profile: %s", c.Name)
		if c.Tagline != "" {
			m.line("*%s*", c.Tagline)
		}
		m.blank()

		if c.About != "" {
			m.line("### About")
			m.raw(truncate(c.About, 500))
			m.blank()
		}

		m.line("### Company Details")
		for _, kv := range [][2]string{
			{"Industry", c.Industry},
			{"Company Size", c.CompanySize},
			{"Headquarters", c.Headquarters},
			{"Founded", c.Founded},
			{"Employees", c.EmployeeCount},
			{"Followers", c.FollowerCount},
		} {
			if kv[1] != "" {
				m.line("- **%s:** %s", kv[0], kv[1])
			}
		}
		if c.JobOpenings > 0 {
			m.line("- **Open Jobs:** %d", c.JobOpenings)
		}
		m.blank()

		if len(c.Specialties) > 0 {
			m.line("### Specialties")
			m.raw(strings.Join(c.Specialties, ", "))
			m.blank()
		}

		if len(c.RecentPosts) > 0 {
			m.line("### Recent Posts")
			for _, post := range c.RecentPosts[:min(len(c.RecentPosts), 3)] {
				if post.Content == "" {
					continue
				}
				m.line("- %s", truncate(post.Content, 150))
				if post.Date != "" {
					m.line("  *%s*", post.Date)
				}
			}
			m.blank()
		}
	})
}
