// Package scorer applies data-quality penalties to an externally supplied
// fit score and derives the priority bucket from the result.
package scorer

import (
	"fmt"
	"strings"

	"github.com/jpdehyl/BSA-demo/internal/model"
)

// Penalty points.
const (
	GenericEmailPenalty = 30
	NoWebsitePenalty    = 15
	UnknownTitlePenalty = 10
	NoIndustryPenalty   = 10
	NameOverlapPenalty  = 25
)

// Priority thresholds, lower bound inclusive.
const (
	HotThreshold  = 80
	WarmThreshold = 60
	CoolThreshold = 40
)

var genericEmailDomains = map[string]bool{
	"gmail.com":      true,
	"hotmail.com":    true,
	"live.com":       true,
	"outlook.com":    true,
	"yahoo.com":      true,
	"aol.com":        true,
	"icloud.com":     true,
	"mail.com":       true,
	"protonmail.com": true,
	"zoho.com":       true,
}

// Facts are the subject attributes the penalizer inspects. Values should
// already include anything research discovered.
type Facts struct {
	ContactEmail string
	ContactName  string
	ContactTitle string
	CompanyName  string
	Website      string
	Industry     string
}

// FactsFor reads Facts from a subject.
func FactsFor(s model.Subject) Facts {
	return Facts{
		ContactEmail: s.ContactEmail,
		ContactName:  s.ContactName,
		ContactTitle: s.ContactTitle,
		CompanyName:  s.CompanyName,
		Website:      s.CompanyWebsite,
		Industry:     s.Industry,
	}
}

// Result is a penalized score.
type Result struct {
	Base      int
	Final     int
	Penalties []model.Penalty
}

// Summary attaches the priority derived from the final score.
func (r Result) Summary() model.ScoreSummary {
	return model.ScoreSummary{
		Base:      r.Base,
		Final:     r.Final,
		Penalties: r.Penalties,
		Priority:  PriorityFor(r.Final),
	}
}

// Penalize subtracts the penalties that apply to f from base and clamps
// the result to [0, 100].
func Penalize(base int, f Facts) Result {
	var penalties []model.Penalty
	if IsGenericEmailDomain(f.ContactEmail) {
		penalties = append(penalties, model.Penalty{Points: GenericEmailPenalty, Reason: "Gmail/personal email domain"})
	}
	if blank(f.Website) {
		penalties = append(penalties, model.Penalty{Points: NoWebsitePenalty, Reason: "No company website found"})
	}
	if blank(f.ContactTitle) {
		penalties = append(penalties, model.Penalty{Points: UnknownTitlePenalty, Reason: "Contact title unknown"})
	}
	if blank(f.Industry) {
		penalties = append(penalties, model.Penalty{Points: NoIndustryPenalty, Reason: "No industry information"})
	}
	if CompanyNameLooksLikePerson(f.CompanyName, f.ContactName) {
		penalties = append(penalties, model.Penalty{Points: NameOverlapPenalty, Reason: "Company name appears to be a person's name"})
	}

	final := base
	for _, p := range penalties {
		final -= p.Points
	}
	return Result{Base: base, Final: clamp(final), Penalties: penalties}
}

// PriorityFor buckets a 0-100 score.
func PriorityFor(score int) model.PriorityLevel {
	switch {
	case score >= HotThreshold:
		return model.PriorityHot
	case score >= WarmThreshold:
		return model.PriorityWarm
	case score >= CoolThreshold:
		return model.PriorityCool
	default:
		return model.PriorityCold
	}
}

// IsGenericEmailDomain reports whether email belongs to a personal mail
// provider.
func IsGenericEmailDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return genericEmailDomains[strings.ToLower(strings.TrimSpace(email[at+1:]))]
}

// CompanyNameLooksLikePerson reports whether the company name contains a
// token of the contact's name longer than two characters.
func CompanyNameLooksLikePerson(company, contact string) bool {
	company = strings.ToLower(company)
	for _, part := range strings.Fields(strings.ToLower(contact)) {
		if len(part) > 2 && strings.Contains(company, part) {
			return true
		}
	}
	return false
}

// FormatBreakdown prefixes the model's own breakdown with the penalties
// applied. With no penalties the original text is returned unchanged.
func FormatBreakdown(r Result, original string) string {
	if len(r.Penalties) == 0 {
		return original
	}
	lines := []string{fmt.Sprintf("AI Score: %d", r.Base), "Penalties Applied:"}
	for _, p := range r.Penalties {
		lines = append(lines, fmt.Sprintf("-%d: %s", p.Points, p.Reason))
	}
	lines = append(lines, fmt.Sprintf("Final Score: %d", r.Final), "", original)
	return strings.Join(lines, "\n")
}

func blank(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "null")
}

func clamp(n int) int {
	return max(0, min(100, n))
}
