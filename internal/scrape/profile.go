package scrape

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jpdehyl/BSA-demo/internal/browser"
	"github.com/jpdehyl/BSA-demo/internal/model"
)

const (
	profileAnchor        = ".pv-top-card, .profile-view-grid, .top-card-layout"
	profileAnchorTimeout = 15 * time.Second

	maxExperience = 5
	maxEducation  = 3
	maxSkills     = 20
)

// ProfileRequest builds the request for a social profile page. It returns
// false when raw is not a profile URL.
func ProfileRequest(raw string, opts model.RequestOptions) (model.EnrichmentRequest, bool) {
	raw = strings.TrimSpace(raw)
	if !IsProfileURL(raw) {
		return model.EnrichmentRequest{}, false
	}
	return model.EnrichmentRequest{Kind: model.SourceSocialProfile, Locator: raw, Options: opts}, true
}

// Profile extracts a person's profile. A page without a name is an
// extraction failure.
func Profile(ctx context.Context, p browser.Page) (model.ProfileRecord, error) {
	rec := model.ProfileRecord{ProfileURL: p.URL()}
	if !p.WaitFor(ctx, profileAnchor, profileAnchorTimeout) {
		return rec, anchorMissing(ctx, model.SourceSocialProfile, p, "profile card")
	}
	_ = p.AutoScroll(ctx)

	_, doc, err := loadDocument(ctx, p)
	if err != nil {
		return rec, err
	}

	rec.Name = firstText(doc,
		".pv-top-card--list .text-heading-xlarge",
		".pv-text-details__left-panel h1",
		".top-card-layout__title",
	)
	if rec.Name == "" {
		return rec, &ExtractionFailed{
			Source: model.SourceSocialProfile,
			URL:    rec.ProfileURL,
			Reason: "profile name not found",
		}
	}
	rec.Headline = firstText(doc,
		".pv-top-card--list .text-body-medium",
		".pv-text-details__left-panel .text-body-medium",
		".top-card-layout__headline",
	)
	rec.Location = firstText(doc,
		".pv-top-card--list .text-body-small",
		".pv-text-details__left-panel .text-body-small",
		".top-card-layout__first-subline",
	)
	rec.About = firstText(doc,
		".pv-about-section .pv-about__summary-text",
		".pv-shared-text-with-see-more",
		"#about ~ .display-flex .pv-shared-text-with-see-more",
	)
	rec.Experience = experience(doc)
	rec.Education = education(doc)
	rec.Skills = allText(doc,
		`.pv-skill-category-entity__name, .pv-skill-entity__skill-name, #skills ~ .pvs-list .t-bold span[aria-hidden="true"]`,
		maxSkills)
	rec.Connections = firstText(doc,
		".pv-top-card--list .t-bold",
		".pv-text-details__left-panel .t-bold",
	)
	return rec, nil
}

func experience(doc *goquery.Document) []model.Experience {
	var out []model.Experience
	doc.Find(".experience-section .pv-entity__position-group-pager, .pvs-list__item--line-separated, #experience ~ .pvs-list .pvs-entity").
		EachWithBreak(func(_ int, s *goquery.Selection) bool {
			e := model.Experience{
				Title:       firstText(s, `.pv-entity__summary-info h3, .t-bold span[aria-hidden="true"]`),
				Employer:    firstText(s, `.pv-entity__secondary-title, .t-normal span[aria-hidden="true"]`),
				Duration:    firstText(s, ".pv-entity__date-range span:nth-child(2), .pvs-entity__caption-wrapper"),
				Description: firstText(s, ".pv-entity__description, .pvs-list__item--with-top-padding .t-normal"),
			}
			if e.Title != "" || e.Employer != "" {
				out = append(out, e)
			}
			return len(out) < maxExperience
		})
	return out
}

func education(doc *goquery.Document) []model.Education {
	var out []model.Education
	doc.Find(".education-section .pv-entity__degree-info, #education ~ .pvs-list .pvs-entity").
		EachWithBreak(func(_ int, s *goquery.Selection) bool {
			e := model.Education{
				School: firstText(s, `.pv-entity__school-name, .t-bold span[aria-hidden="true"]`),
				Degree: firstText(s, `.pv-entity__degree-name span:nth-child(2), .t-normal span[aria-hidden="true"]`),
				Dates:  firstText(s, ".pv-entity__dates span:nth-child(2), .pvs-entity__caption-wrapper"),
			}
			if e.School != "" {
				out = append(out, e)
			}
			return len(out) < maxEducation
		})
	return out
}

// FormatProfile renders a profile result as a Markdown block.
func FormatProfile(r model.SourceResult[model.ProfileRecord]) string {
	return render(model.SourceSocialProfile, r, formatProfile)
}

func formatProfile(m *markdown, pr model.ProfileRecord) {
	m.line("## LinkedIn Profile: %s", pr.Name)
	if pr.Headline != "" {
		m.line("*%s*", pr.Headline)
	}
	if pr.Location != "" {
		m.line("Location: %s", pr.Location)
	}
	m.blank()

	if pr.About != "" {
		m.line("### About")
		m.raw(truncate(pr.About, 500))
		m.blank()
	}

	if cur, ok := pr.CurrentRole(); ok {
		m.line("### Current Role")
		m.line("**%s** at %s", cur.Title, cur.Employer)
		if cur.Duration != "" {
			m.line("Duration: %s", cur.Duration)
		}
		if cur.Description != "" {
			m.raw(truncate(cur.Description, 200))
		}
		m.blank()
	}

	if len(pr.Experience) > 1 {
		m.line("### Experience")
		end := min(len(pr.Experience), 4)
		for _, e := range pr.Experience[1:end] {
			m.line("- **%s** at %s (%s)", e.Title, e.Employer, e.Duration)
		}
		m.blank()
	}

	if len(pr.Education) > 0 {
		m.line("### Education")
		for _, e := range pr.Education {
			if e.Degree != "" {
				m.line("- %s - %s", e.School, e.Degree)
			} else {
				m.line("- %s", e.School)
			}
		}
		m.blank()
	}

	if len(pr.Skills) > 0 {
		m.line("### Top Skills")
		m.raw(strings.Join(pr.Skills[:min(len(pr.Skills), 10)], ", "))
		m.blank()
	}

	if pr.Connections != "" {
		m.line("**Connections:** %s", pr.Connections)
	}
}
