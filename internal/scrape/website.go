package scrape

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jpdehyl/BSA-demo/internal/browser"
	"github.com/jpdehyl/BSA-demo/internal/model"
)

const (
	websiteAnchorTimeout = 15 * time.Second

	aboutLinkSelector    = `a[href*="about"], a[href*="company"], a[href*="who-we-are"]`
	productsLinkSelector = `a[href*="product"], a[href*="service"], a[href*="solution"]`

	maxValues     = 6
	maxLeadership = 6
	maxProducts   = 5
	maxMission    = 500
)

var (
	emailPattern = regexp.MustCompile(`[\w.+-]+@[\w.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)
)

type socialPattern struct {
	Platform string
	Pattern  *regexp.Regexp
}

var socialPatterns = []socialPattern{
	{"linkedin", regexp.MustCompile(`(?i)linkedin\.com`)},
	{"twitter", regexp.MustCompile(`(?i)(?:^|[/.])(?:twitter|x)\.com`)},
	{"facebook", regexp.MustCompile(`(?i)facebook\.com`)},
	{"youtube", regexp.MustCompile(`(?i)youtube\.com`)},
}

// WebsiteRequest builds the request for a company website. It returns
// false when raw is not a usable URL.
func WebsiteRequest(raw string, opts model.RequestOptions) (model.EnrichmentRequest, bool) {
	u := NormalizeWebsiteURL(raw)
	if u == "" {
		return model.EnrichmentRequest{}, false
	}
	return model.EnrichmentRequest{Kind: model.SourceWebsite, Locator: u, Options: opts}, true
}

// Website extracts homepage fields, tech fingerprint, contact details and
// social links, then best-effort about and products pages.
func Website(ctx context.Context, p browser.Page) (model.WebsiteRecord, error) {
	rec := model.WebsiteRecord{URL: p.URL()}
	if !p.WaitFor(ctx, "body", websiteAnchorTimeout) {
		return rec, anchorMissing(ctx, model.SourceWebsite, p, "page body")
	}

	html, doc, err := loadDocument(ctx, p)
	if err != nil {
		return rec, err
	}
	rec.TechStack = DetectTechStack(html)
	rec.Homepage = homepage(doc)
	rec.SocialLinks = socialLinks(doc, rec.URL)
	rec.Contact = contactInfo(doc)

	log := zap.L().With(zap.String("url", rec.URL))

	if doc.Find(aboutLinkSelector).Length() > 0 {
		if about, ok := followAndRead(ctx, p, aboutLinkSelector, aboutPage); ok {
			rec.About = about
		} else {
			log.Debug("scrape: about page unavailable")
		}
	}

	if doc.Find(productsLinkSelector).Length() > 0 {
		if items, ok := followAndRead(ctx, p, productsLinkSelector, products, withScroll()); ok {
			rec.Products = items
		} else {
			log.Debug("scrape: products page unavailable")
		}
	}

	return rec, nil
}

type followOpts struct {
	scroll bool
}

type followOpt func(*followOpts)

func withScroll() followOpt { return func(o *followOpts) { o.scroll = true } }

// followAndRead clicks the link, extracts with fn and navigates back.
// Navigation failures are swallowed; ok reports whether fn ran.
func followAndRead[T any](ctx context.Context, p browser.Page, selector string, fn func(*goquery.Document) T, opts ...followOpt) (T, bool) {
	var zero T
	var o followOpts
	for _, opt := range opts {
		opt(&o)
	}

	navCtx, cancel := context.WithTimeout(ctx, browser.SecondaryNavTimeout)
	defer cancel()
	if err := p.FollowLink(navCtx, selector); err != nil {
		return zero, false
	}
	defer func() { _ = p.Back(ctx) }()

	if o.scroll {
		_ = p.AutoScroll(ctx)
	}
	_, doc, err := loadDocument(ctx, p)
	if err != nil {
		return zero, false
	}
	return fn(doc), true
}

func homepage(doc *goquery.Document) model.Homepage {
	return model.Homepage{
		Title: textOf(doc.Find("title")),
		Description: firstAttr(doc, "content",
			`meta[name="description"]`,
			`meta[property="og:description"]`,
		),
		HeroMessage: firstText(doc,
			"h1",
			`.hero h1, .hero-title, [class*="hero"] h1, .banner h1`,
		),
		PrimaryCTA: firstText(doc,
			`a.cta, a.btn-primary, a[href*="demo"], a[href*="contact"], a[href*="trial"], .hero a.btn, [class*="hero"] a.btn`,
		),
	}
}

func socialLinks(doc *goquery.Document, base string) map[string]string {
	links := make(map[string]string)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = resolveHref(base, href)
		for _, sp := range socialPatterns {
			if _, seen := links[sp.Platform]; !seen && sp.Pattern.MatchString(href) {
				links[sp.Platform] = href
			}
		}
	})
	if len(links) == 0 {
		return nil
	}
	return links
}

func contactInfo(doc *goquery.Document) model.ContactInfo {
	text := visibleText(doc)
	return model.ContactInfo{
		Email: emailPattern.FindString(text),
		Phone: strings.TrimSpace(phonePattern.FindString(text)),
	}
}

func aboutPage(doc *goquery.Document) model.AboutPage {
	about := model.AboutPage{
		Mission: cut(firstText(doc,
			`.mission, [class*="mission"], [id*="mission"]`,
			"section p, article p",
		), maxMission),
		Values: allText(doc, `[class*="value"] h3, [class*="value"] h4, [class*="values"] li`, maxValues),
	}

	doc.Find(`[class*="team"] [class*="member"], [class*="leadership"] [class*="person"], [class*="executive"], .team-member`).
		EachWithBreak(func(_ int, s *goquery.Selection) bool {
			name := firstText(s, `h3, h4, [class*="name"], .name`)
			if name != "" {
				about.Leadership = append(about.Leadership, model.Person{
					Name:  name,
					Title: firstText(s, `p, [class*="title"], [class*="role"], .title, .position`),
				})
			}
			return len(about.Leadership) < maxLeadership
		})
	return about
}

func products(doc *goquery.Document) []model.Product {
	var out []model.Product
	doc.Find(`[class*="product"], [class*="service"], [class*="solution"], .card, article`).
		EachWithBreak(func(_ int, s *goquery.Selection) bool {
			name := firstText(s, "h2, h3, h4")
			desc := firstText(s, "p")
			if name != "" && desc != "" {
				out = append(out, model.Product{Name: name, Description: desc})
			}
			return len(out) < maxProducts
		})
	return out
}

// FormatWebsite renders a website result as a Markdown block.
func FormatWebsite(r model.SourceResult[model.WebsiteRecord]) string {
	return render(model.SourceWebsite, r, func(m *markdown, w model.WebsiteRecord) {
		m.line("## Website Analysis: %s", w.URL)
		m.blank()

		h := w.Homepage
		if h.Title != "" || h.HeroMessage != "" {
			m.line("### Homepage")
			if h.Title != "" {
				m.line("**Title:** %s", h.Title)
			}
			if h.HeroMessage != "" {
				m.line("**Hero Message:** %s", h.HeroMessage)
			}
			if h.Description != "" {
				m.line("**Description:** %s", truncate(h.Description, 200))
			}
			if h.PrimaryCTA != "" {
				m.line("**Primary CTA:** %s", h.PrimaryCTA)
			}
			m.blank()
		}

		a := w.About
		if a.Mission != "" || len(a.Leadership) > 0 {
			m.line("### About")
			if a.Mission != "" {
				m.line("**Mission:** %s", truncate(a.Mission, 300))
			}
			m.blank()
			if len(a.Leadership) > 0 {
				m.line("**Leadership Team:**")
				for _, l := range a.Leadership {
					if l.Title != "" {
						m.line("- %s - %s", l.Name, l.Title)
					} else {
						m.line("- %s", l.Name)
					}
				}
				m.blank()
			}
			if len(a.Values) > 0 {
				m.line("**Values:** %s", strings.Join(a.Values, ", "))
				m.blank()
			}
		}

		if len(w.Products) > 0 {
			m.line("### Products/Services")
			for _, pr := range w.Products {
				m.line("- **%s:** %s", pr.Name, truncate(pr.Description, 100))
			}
			m.blank()
		}

		if len(w.TechStack) > 0 {
			m.line("### Detected Tech Stack")
			m.raw(strings.Join(w.TechStack, ", "))
			m.blank()
		}

		if w.Contact.Email != "" || w.Contact.Phone != "" {
			m.line("### Contact Information")
			if w.Contact.Email != "" {
				m.line("- **Email:** %s", w.Contact.Email)
			}
			if w.Contact.Phone != "" {
				m.line("- **Phone:** %s", w.Contact.Phone)
			}
			m.blank()
		}

		if len(w.SocialLinks) > 0 {
			m.line("### Social Media")
			for _, sp := range socialPatterns {
				if u, ok := w.SocialLinks[sp.Platform]; ok {
					m.line("- **%s:** %s", Title(sp.Platform), u)
				}
			}
		}
	})
}
