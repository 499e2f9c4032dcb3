package serpapi

import (
	"context"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jpdehyl/BSA-demo/internal/model"
)

// ErrNoProfile is returned when no organic result links to a profile page.
var ErrNoProfile = eris.New("serpapi: no profile found in search results")

const (
	profileMarker  = "linkedin.com/in/"
	profileResults = 5
)

var (
	positionRe    = regexp.MustCompile(`([A-Za-z\s]+)\s+at\s+([A-Za-z0-9\s&]+)`)
	locationRe    = regexp.MustCompile(`(?i)(?:Based in|Located in|·)\s*([A-Za-z\s,]+)`)
	connectionsRe = regexp.MustCompile(`(?i)(\d+\+?)\s*connections`)
)

// ProfileQuery is the search string used to locate a contact's profile.
func ProfileQuery(name, company string) string {
	return strings.TrimSpace(name+" "+company) + " site:linkedin.com/in"
}

// FindProfile searches for the contact's profile and parses what the
// result title and snippet reveal.
func FindProfile(ctx context.Context, c Client, name, company string) (model.ProfileLookup, error) {
	log := zap.L().With(zap.String("contact", name), zap.String("company", company))

	resp, err := c.Search(ctx, Query{Q: ProfileQuery(name, company), Num: profileResults})
	if err != nil {
		return model.ProfileLookup{}, err
	}

	for _, r := range resp.OrganicResults {
		if !strings.Contains(r.Link, profileMarker) {
			continue
		}
		lookup := model.ProfileLookup{
			ProfileURL: r.Link,
			Headline:   Headline(r.Title),
			Summary:    strings.TrimSpace(r.Snippet),
		}
		lookup.CurrentPosition, lookup.CurrentCompany, lookup.Location, lookup.Connections = ParseSnippet(r.Snippet)
		log.Debug("serpapi: profile found", zap.String("url", lookup.ProfileURL))
		return lookup, nil
	}

	log.Debug("serpapi: no profile in results", zap.Int("results", len(resp.OrganicResults)))
	return model.ProfileLookup{}, ErrNoProfile
}

// Headline strips the site suffix from a result title.
func Headline(title string) string {
	title = strings.Replace(title, " | LinkedIn", "", 1)
	title = strings.Replace(title, " - LinkedIn", "", 1)
	return strings.TrimSpace(title)
}

// ParseSnippet extracts position, company, location and connection count
// from a search snippet. Missing parts are empty.
func ParseSnippet(snippet string) (position, company, location, connections string) {
	if strings.Contains(snippet, " at ") {
		if m := positionRe.FindStringSubmatch(snippet); m != nil {
			position = strings.TrimSpace(m[1])
			company = strings.TrimSpace(m[2])
		}
	}
	if m := locationRe.FindStringSubmatch(snippet); m != nil {
		location = strings.TrimSpace(m[1])
	}
	if m := connectionsRe.FindStringSubmatch(snippet); m != nil {
		connections = m[1]
	}
	return position, company, location, connections
}
