package scrape

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jpdehyl/BSA-demo/internal/browser"
	"github.com/jpdehyl/BSA-demo/internal/model"
)

const (
	jobsAnchor         = ".jobs-search-results, .jobs-search-results-list, .scaffold-layout__list-container"
	jobsFallbackAnchor = ".org-jobs-container, .jobs-unified-top-card"
	jobCardSelector    = ".job-card-container, .jobs-search-results__list-item, .job-card-list, .scaffold-layout__list-item"

	jobsAnchorTimeout = 15 * time.Second
)

// JobsRequest builds the job-search request for a company name.
func JobsRequest(company string, opts model.RequestOptions) (model.EnrichmentRequest, bool) {
	company = strings.TrimSpace(company)
	if company == "" {
		return model.EnrichmentRequest{}, false
	}
	return model.EnrichmentRequest{Kind: model.SourceJobPostings, Locator: JobsSearchURL(company), Options: opts}, true
}

// Jobs returns an adapter that reads job cards from a search results page,
// falling back to the company jobs tab when results never render.
func Jobs(company string) Adapter[model.HiringSignal] {
	return func(ctx context.Context, p browser.Page) (model.HiringSignal, error) {
		if !p.WaitFor(ctx, jobsAnchor, jobsAnchorTimeout) {
			if err := jobsFallback(ctx, p, company); err != nil {
				return model.HiringSignal{CompanyName: company}, err
			}
		}
		_ = p.AutoScroll(ctx)

		_, doc, err := loadDocument(ctx, p)
		if err != nil {
			return model.HiringSignal{CompanyName: company}, err
		}
		return BuildHiringSignal(company, jobCards(doc)), nil
	}
}

func jobsFallback(ctx context.Context, p browser.Page, company string) error {
	target := CompanyJobsURL(company)
	if target == "" {
		return anchorMissing(ctx, model.SourceJobPostings, p, "job results")
	}
	zap.L().Debug("scrape: job search empty, trying company jobs page",
		zap.String("url", target),
	)
	if err := p.Goto(ctx, target); err != nil {
		return err
	}
	if !p.WaitFor(ctx, jobsFallbackAnchor, browser.DefaultWaitTimeout) {
		return anchorMissing(ctx, model.SourceJobPostings, p, "job results")
	}
	return nil
}

// jobCards reads every outermost card. Cards nested inside another
// matching card are skipped so one posting is counted once.
func jobCards(doc *goquery.Document) []model.JobPosting {
	var out []model.JobPosting
	doc.Find(jobCardSelector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(jobCardSelector).Length() > 0 {
			return
		}
		title := firstText(s, ".job-card-list__title, .job-card-container__link, .base-search-card__title")
		if title == "" {
			return
		}
		out = append(out, model.JobPosting{
			Title:      title,
			Department: ClassifyDepartment(title),
			Location: firstText(s,
				".job-card-container__metadata-item, .job-card-container__metadata-wrapper, .base-search-card__subtitle"),
			PostedDate: firstText(s, ".job-card-container__footer-item, time"),
		})
	})
	return out
}

// FormatJobs renders a hiring signal as a Markdown block.
func FormatJobs(r model.SourceResult[model.HiringSignal]) string {
	return render(model.SourceJobPostings, r, func(m *markdown, h model.HiringSignal) {
		m.line("## Job Postings Analysis: %s", h.CompanyName)
		m.blank()

		m.line("### Hiring Overview")
		m.line("- **Total Open Positions:** %d", h.TotalOpenings)
		m.line("- **Hiring Velocity:** %s", Title(string(h.Velocity())))
		m.blank()

		if len(h.Departments) > 0 && h.TotalOpenings > 0 {
			m.line("### Department Breakdown")
			for _, dept := range sortedDepartments(h.Departments) {
				n := h.Departments[dept]
				pct := int(math.Round(float64(n) / float64(h.TotalOpenings) * 100))
				m.line("- **%s:** %d positions (%d%%)", dept, n, pct)
			}
			m.blank()
		}

		writeList(m, "### Growth Signals", h.GrowthSignals)

		if len(h.TechStack) > 0 {
			m.line("### Tech Stack (from job postings)")
			m.raw(strings.Join(h.TechStack, ", "))
			m.blank()
		}

		writeList(m, "### Pain Signals (from job titles)", h.PainSignals)

		if len(h.Jobs) > 0 {
			m.line("### Sample Open Positions")
			for _, j := range h.Jobs[:min(len(h.Jobs), 5)] {
				if j.Location != "" {
					m.line("- %s (%s)", j.Title, j.Location)
				} else {
					m.line("- %s", j.Title)
				}
			}
		}
	})
}

// sortedDepartments orders by count descending, then name.
func sortedDepartments(depts map[string]int) []string {
	names := slices.Collect(maps.Keys(depts))
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(depts[b], depts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return names
}

func writeList(m *markdown, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	m.raw(heading)
	for _, it := range items {
		m.raw(fmt.Sprintf("- %s", it))
	}
	m.blank()
}
