package model

// WebsiteRecord is the structured result of scraping a company website.
type WebsiteRecord struct {
	URL         string            `json:"url"`
	Homepage    Homepage          `json:"homepage"`
	About       AboutPage         `json:"about"`
	Products    []Product         `json:"products,omitempty"`
	TechStack   []string          `json:"tech_stack,omitempty"`
	Contact     ContactInfo       `json:"contact"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
}

// Homepage holds the landing page headline fields.
type Homepage struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	HeroMessage string `json:"hero_message,omitempty"`
	PrimaryCTA  string `json:"primary_cta,omitempty"`
}

// AboutPage holds fields read from the about page, when one was found.
type AboutPage struct {
	Mission    string   `json:"mission,omitempty"`
	Values     []string `json:"values,omitempty"`
	Leadership []Person `json:"leadership,omitempty"`
}

// Person is a named individual with a title.
type Person struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// Product is one product or service card.
type Product struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ContactInfo is contact data lifted from visible page text.
type ContactInfo struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ProfileRecord is the structured result of scraping a social profile.
type ProfileRecord struct {
	ProfileURL  string       `json:"profile_url"`
	Name        string       `json:"name"`
	Headline    string       `json:"headline,omitempty"`
	Location    string       `json:"location,omitempty"`
	About       string       `json:"about,omitempty"`
	Experience  []Experience `json:"experience,omitempty"`
	Education   []Education  `json:"education,omitempty"`
	Skills      []string     `json:"skills,omitempty"`
	Connections string       `json:"connections,omitempty"`
}

// CurrentRole returns the most recent experience entry.
func (p ProfileRecord) CurrentRole() (Experience, bool) {
	if len(p.Experience) == 0 {
		return Experience{}, false
	}
	return p.Experience[0], true
}

// Experience is one position on a profile.
type Experience struct {
	Title       string `json:"title,omitempty"`
	Employer    string `json:"employer,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is one school entry on a profile.
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
	Dates  string `json:"dates,omitempty"`
}

// CompanyPageRecord is the structured result of scraping a social company page.
type CompanyPageRecord struct {
	PageURL       string   `json:"page_url"`
	Name          string   `json:"name"`
	Tagline       string   `json:"tagline,omitempty"`
	About         string   `json:"about,omitempty"`
	Industry      string   `json:"industry,omitempty"`
	CompanySize   string   `json:"company_size,omitempty"`
	Headquarters  string   `json:"headquarters,omitempty"`
	Founded       string   `json:"founded,omitempty"`
	Specialties   []string `json:"specialties,omitempty"`
	RecentPosts   []Post   `json:"recent_posts,omitempty"`
	EmployeeCount string   `json:"employee_count,omitempty"`
	FollowerCount string   `json:"follower_count,omitempty"`
	JobOpenings   int      `json:"job_openings"`
	WebsiteURL    string   `json:"website_url,omitempty"`
}

// Post is a recent company post snippet.
type Post struct {
	Content    string `json:"content"`
	Date       string `json:"date,omitempty"`
	Engagement string `json:"engagement,omitempty"`
}

// HiringVelocity is the 3-valued hiring pace classification.
type HiringVelocity string

const (
	VelocityAggressive HiringVelocity = "aggressive"
	VelocityModerate   HiringVelocity = "moderate"
	VelocityStable     HiringVelocity = "stable"
)

// JobPosting is one matched job card.
type JobPosting struct {
	Title      string `json:"title"`
	Department string `json:"department"`
	Location   string `json:"location,omitempty"`
	PostedDate string `json:"posted_date,omitempty"`
}

// HiringSignal is the job-postings adapter output. Velocity is derived from
// TotalOpenings and is never set independently.
type HiringSignal struct {
	CompanyName   string         `json:"company_name"`
	TotalOpenings int            `json:"total_openings"`
	Jobs          []JobPosting   `json:"jobs,omitempty"`
	Departments   map[string]int `json:"departments"`
	TechStack     []string       `json:"tech_stack,omitempty"`
	PainSignals   []string       `json:"pain_signals,omitempty"`
	GrowthSignals []string       `json:"growth_signals,omitempty"`
}

// Velocity classifies hiring pace from the total opening count.
func (h HiringSignal) Velocity() HiringVelocity {
	return VelocityFor(h.TotalOpenings)
}

// VelocityFor maps an opening count to a velocity tier. Lower bounds are
// inclusive.
func VelocityFor(openings int) HiringVelocity {
	switch {
	case openings >= 50:
		return VelocityAggressive
	case openings >= 20:
		return VelocityModerate
	default:
		return VelocityStable
	}
}

// ProfileLookup is the search-derived view of a contact's social profile.
type ProfileLookup struct {
	ProfileURL      string `json:"profile_url"`
	Headline        string `json:"headline,omitempty"`
	CurrentPosition string `json:"current_position,omitempty"`
	CurrentCompany  string `json:"current_company,omitempty"`
	Location        string `json:"location,omitempty"`
	Connections     string `json:"connections,omitempty"`
	Summary         string `json:"summary,omitempty"`
}

// SocialProfileIntel joins the search lookup with a best-effort profile scrape.
type SocialProfileIntel struct {
	Lookup  ProfileLookup  `json:"lookup"`
	Profile *ProfileRecord `json:"profile,omitempty"`
}

// SocialActivity is the LLM-derived view of a contact's public posting.
type SocialActivity struct {
	Handle           string   `json:"xHandle,omitempty"`
	Posts            []string `json:"posts,omitempty"`
	EngagementStyle  string   `json:"engagementStyle,omitempty"`
	Interests        []string `json:"interests,omitempty"`
	ProfessionalTone string   `json:"professionalTone,omitempty"`
	RecentActivity   string   `json:"recentActivity,omitempty"`
}
