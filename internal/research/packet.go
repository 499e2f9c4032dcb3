package research

import (
	"fmt"
	"strings"

	"github.com/jpdehyl/BSA-demo/internal/model"
	"github.com/jpdehyl/BSA-demo/internal/scrape"
)

const packetSources = "X.com via xAI | LinkedIn via SerpAPI | Company intel via headless browser"

// BuildPacket renders the record into the text blocks handed downstream.
// d is the dossier to render, which is the fallback when deep research
// failed.
func BuildPacket(rec *model.CompositeResearchRecord, d model.Dossier) model.ResearchPacket {
	return model.ResearchPacket{
		CompanyIntel:       d.CompanyContext,
		ContactIntel:       fmt.Sprintf("%s\n\nCommon Ground:\n%s", d.PersonalBackground, d.CommonGround),
		PainSignals:        d.PainSignals,
		CompetitorPresence: d.TechStackIntel,
		FitAnalysis:        fmt.Sprintf("%s\n\nBuying Triggers:\n%s", d.SolutionFit, d.BuyingTriggers),
		TalkTrack:          fmt.Sprintf("Opening Line:\n%s\n\nKey Value Props:\n%s\n\nThe Ask:\n%s", d.OpeningLine, d.TalkTrack, d.TheAsk),
		DiscoveryQuestions: numbered(d.DiscoveryQuestions),
		ObjectionHandles:   objections(d.ObjectionHandles),
		CompanyHardIntel:   FormatCompanyIntel(rec.Company),
		ProfileIntel:       FormatProfileIntel(rec.Profile),
		SocialActivity:     FormatActivity(rec.Activity),
		Sources:            d.Sources + " | " + packetSources,
	}
}

func numbered(items []string) string {
	lines := make([]string, len(items))
	for i, q := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, q)
	}
	return strings.Join(lines, "\n")
}

func objections(items []model.ObjectionHandle) string {
	blocks := make([]string, len(items))
	for i, o := range items {
		blocks[i] = fmt.Sprintf("%d. \"%s\"\n   Response: %s", i+1, o.Objection, o.Response)
	}
	return strings.Join(blocks, "\n\n")
}

// FormatCompanyIntel joins the three company blocks. Failed scrapes render
// their own unavailable line.
func FormatCompanyIntel(c model.CompanyIntel) string {
	return strings.Join([]string{
		scrape.FormatWebsite(c.Website),
		scrape.FormatCompanyPage(c.Page),
		scrape.FormatJobs(c.Jobs),
	}, "\n\n")
}

// FormatProfileIntel renders the search lookup followed by the scraped
// profile when one was read.
func FormatProfileIntel(r model.SourceResult[model.SocialProfileIntel]) string {
	if !r.OK() {
		return scrape.Unavailable(model.SourceSocialProfile, r.Error)
	}
	l := r.Data.Lookup
	var sections []string
	add := func(label, v string) {
		if v != "" {
			sections = append(sections, label+": "+v)
		}
	}
	add("Profile", l.ProfileURL)
	add("Headline", l.Headline)
	add("Current Role", l.CurrentPosition)
	add("Location", l.Location)
	if l.Connections != "" {
		sections = append(sections, fmt.Sprintf("Network: %s connections", l.Connections))
	}
	add("About", l.Summary)

	if r.Data.Profile != nil {
		sections = append(sections, scrape.FormatProfile(model.Succeeded(*r.Data.Profile, false, 0)))
	}
	return strings.Join(sections, "\n\n")
}

// FormatActivity renders the social activity block.
func FormatActivity(r model.SourceResult[model.SocialActivity]) string {
	if !r.OK() {
		return scrape.Unavailable(model.SourceSocialActivity, r.Error)
	}
	a := r.Data
	var sections []string
	if a.Handle != "" {
		sections = append(sections, "X Handle: @"+strings.TrimPrefix(a.Handle, "@"))
	}
	sections = append(sections,
		"Engagement Style: "+a.EngagementStyle,
		"Professional Tone: "+a.ProfessionalTone,
		"Recent Activity: "+a.RecentActivity,
	)
	if len(a.Interests) > 0 {
		sections = append(sections, "Interests: "+strings.Join(a.Interests, ", "))
	}
	if len(a.Posts) > 0 {
		lines := make([]string, len(a.Posts))
		for i, p := range a.Posts {
			lines[i] = fmt.Sprintf("  %d. %s", i+1, p)
		}
		sections = append(sections, "Notable Posts/Topics:\n"+strings.Join(lines, "\n"))
	}
	return strings.Join(sections, "\n\n")
}
