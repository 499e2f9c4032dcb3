package research

import (
	"github.com/jpdehyl/BSA-demo/internal/model"
)

// DiscoveryPrecedence orders the sources consulted for discovered contact
// fields. For each field the first source with a non-empty value wins.
var DiscoveryPrecedence = []model.SourceKind{
	model.SourceDeepResearch,
	model.SourceSocialProfile,
	model.SourceWebsite,
	model.SourceSocialCompany,
}

// Candidates collects the contact fields each source surfaced.
func Candidates(rec *model.CompositeResearchRecord) map[model.SourceKind]model.DiscoveredFields {
	out := make(map[model.SourceKind]model.DiscoveredFields, len(DiscoveryPrecedence))

	if d := rec.Dossier; d.OK() && !d.Data.IsFallback() {
		out[model.SourceDeepResearch] = model.DiscoveredFields{
			LinkedInURL:    d.Data.LinkedInURL,
			Phone:          d.Data.PhoneNumber,
			JobTitle:       d.Data.JobTitle,
			CompanyWebsite: d.Data.CompanyWebsite,
		}
	}

	if p := rec.Profile; p.OK() {
		f := model.DiscoveredFields{
			LinkedInURL: p.Data.Lookup.ProfileURL,
			JobTitle:    p.Data.Lookup.CurrentPosition,
		}
		if p.Data.Profile != nil {
			if cur, ok := p.Data.Profile.CurrentRole(); ok && isEmpty(f.JobTitle) {
				f.JobTitle = cur.Title
			}
		}
		out[model.SourceSocialProfile] = f
	}

	if w := rec.Company.Website; w.OK() {
		out[model.SourceWebsite] = model.DiscoveredFields{
			CompanyWebsite: w.Data.URL,
			Phone:          w.Data.Contact.Phone,
		}
	}

	if c := rec.Company.Page; c.OK() {
		out[model.SourceSocialCompany] = model.DiscoveredFields{
			CompanyWebsite: c.Data.WebsiteURL,
		}
	}
	return out
}

// Reconcile picks, for each field still empty on s, the value from the
// highest-precedence source that has one. Fields already set on s are
// never part of the result.
func Reconcile(s model.Subject, candidates map[model.SourceKind]model.DiscoveredFields) model.DiscoveredFields {
	var out model.DiscoveredFields
	for _, kind := range DiscoveryPrecedence {
		c, ok := candidates[kind]
		if !ok {
			continue
		}
		fill(&out.LinkedInURL, s.LinkedInURL, c.LinkedInURL)
		fill(&out.Phone, s.ContactPhone, c.Phone)
		fill(&out.JobTitle, s.ContactTitle, c.JobTitle)
		fill(&out.CompanyWebsite, s.CompanyWebsite, c.CompanyWebsite)
	}
	return out
}

func fill(dst *string, existing, candidate string) {
	if !isEmpty(existing) || !isEmpty(*dst) || isEmpty(candidate) {
		return
	}
	*dst = candidate
}

// ApplyDiscovered writes d into the fields of s that are empty and
// returns the updated subject.
func ApplyDiscovered(s model.Subject, d model.DiscoveredFields) model.Subject {
	set := func(dst *string, v string) {
		if isEmpty(*dst) && !isEmpty(v) {
			*dst = v
		}
	}
	set(&s.LinkedInURL, d.LinkedInURL)
	set(&s.ContactPhone, d.Phone)
	set(&s.ContactTitle, d.JobTitle)
	set(&s.CompanyWebsite, d.CompanyWebsite)
	return s
}
