package scrape

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	linkedInBase   = "https://www.linkedin.com"
	jobsSearchBase = linkedInBase + "/jobs/search/"
)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces     = regexp.MustCompile(`\s+`)
	slugDashes     = regexp.MustCompile(`-+`)
)

// NormalizeWebsiteURL adds an https scheme when raw has none. It returns
// "" for input that is not a usable host.
func NormalizeWebsiteURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "null") {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || !strings.Contains(u.Host, ".") {
		return ""
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// IsProfileURL reports whether raw points at a personal LinkedIn profile.
func IsProfileURL(raw string) bool {
	return strings.Contains(strings.ToLower(raw), "linkedin.com/in/")
}

// IsCompanyPageURL reports whether raw points at a LinkedIn company page.
func IsCompanyPageURL(raw string) bool {
	return strings.Contains(strings.ToLower(raw), "linkedin.com/company/")
}

// Slug lowercases name, strips diacritics and punctuation, and joins words
// with single dashes.
func Slug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, name)
	if err != nil {
		s = name
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(strings.TrimSpace(s), "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// BuildCompanyPageURL guesses the LinkedIn company page for a company name.
func BuildCompanyPageURL(company string) string {
	slug := Slug(company)
	if slug == "" {
		return ""
	}
	return linkedInBase + "/company/" + slug + "/"
}

// JobsSearchURL is the LinkedIn job search for a company name.
func JobsSearchURL(company string) string {
	return jobsSearchBase + "?keywords=" + url.QueryEscape(company) + "&location="
}

// CompanyJobsURL is the jobs tab of a company's LinkedIn page, used when the
// search results never render.
func CompanyJobsURL(company string) string {
	slug := Slug(company)
	if slug == "" {
		return ""
	}
	return linkedInBase + "/company/" + slug + "/jobs/"
}
