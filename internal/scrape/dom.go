package scrape

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/jpdehyl/BSA-demo/internal/browser"
)

// finder is satisfied by *goquery.Document and *goquery.Selection.
type finder interface {
	Find(selector string) *goquery.Selection
}

func loadDocument(ctx context.Context, p browser.Page) (string, *goquery.Document, error) {
	html, err := p.Content(ctx)
	if err != nil {
		return "", nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", nil, eris.Wrap(err, "scrape: parse html")
	}
	return html, doc, nil
}

// clean collapses runs of whitespace.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func textOf(s *goquery.Selection) string {
	return clean(s.First().Text())
}

// firstText tries each selector in order and returns the first non-empty
// text.
func firstText(root finder, selectors ...string) string {
	for _, sel := range selectors {
		if t := textOf(root.Find(sel)); t != "" {
			return t
		}
	}
	return ""
}

// firstAttr tries each selector in order and returns the first non-empty
// attribute value.
func firstAttr(root finder, attr string, selectors ...string) string {
	for _, sel := range selectors {
		if v, ok := root.Find(sel).First().Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// allText returns the non-empty texts of every match, up to limit.
func allText(root finder, selector string, limit int) []string {
	var out []string
	root.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := clean(s.Text()); t != "" {
			out = append(out, t)
		}
		return limit <= 0 || len(out) < limit
	})
	return out
}

// visibleText is the body text with script and style content removed.
func visibleText(doc *goquery.Document) string {
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript, template").Remove()
	return body.Text()
}

func resolveHref(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	r, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return b.ResolveReference(r).String()
}

// truncate cuts s to at most n runes, appending "..." when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}

// cut trims s to at most n runes.
func cut(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
