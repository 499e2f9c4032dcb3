package model

import (
	"strings"
	"time"
)

// PriorityLevel is the coarse bucket derived from a fit score.
type PriorityLevel string

const (
	PriorityHot  PriorityLevel = "hot"
	PriorityWarm PriorityLevel = "warm"
	PriorityCool PriorityLevel = "cool"
	PriorityCold PriorityLevel = "cold"
)

// FallbackSources marks a dossier produced from the canned template.
const FallbackSources = "Fallback template - AI research unavailable"

// Dossier is the deep-research LLM output for one subject. JSON keys match
// the shape requested from the model.
type Dossier struct {
	PersonalBackground string            `json:"personalBackground"`
	CommonGround       string            `json:"commonGround"`
	CompanyContext     string            `json:"companyContext"`
	PainSignals        string            `json:"painSignals"`
	TechStackIntel     string            `json:"techStackIntel"`
	BuyingTriggers     string            `json:"buyingTriggers"`
	SolutionFit        string            `json:"solutionFit"`
	FitScore           int               `json:"fitScore"`
	FitScoreBreakdown  string            `json:"fitScoreBreakdown"`
	OpeningLine        string            `json:"openingLine"`
	TalkTrack          string            `json:"talkTrack"`
	DiscoveryQuestions []string          `json:"discoveryQuestions"`
	ObjectionHandles   []ObjectionHandle `json:"objectionHandles"`
	TheAsk             string            `json:"theAsk"`
	Sources            string            `json:"sources"`
	LinkedInURL        string            `json:"linkedInUrl,omitempty"`
	PhoneNumber        string            `json:"phoneNumber,omitempty"`
	JobTitle           string            `json:"jobTitle,omitempty"`
	CompanyWebsite     string            `json:"companyWebsite,omitempty"`
}

// IsFallback reports whether the dossier came from the canned template.
func (d Dossier) IsFallback() bool {
	return strings.Contains(d.Sources, "Fallback template")
}

// ObjectionHandle pairs a likely objection with a response.
type ObjectionHandle struct {
	Objection string `json:"objection"`
	Response  string `json:"response"`
}

// DiscoveredFields are contact facts surfaced by research sources.
type DiscoveredFields struct {
	LinkedInURL    string `json:"linkedin_url,omitempty"`
	Phone          string `json:"phone,omitempty"`
	JobTitle       string `json:"job_title,omitempty"`
	CompanyWebsite string `json:"company_website,omitempty"`
}

// IsZero reports whether no field is set.
func (d DiscoveredFields) IsZero() bool {
	return d == DiscoveredFields{}
}

// CompanyIntel groups the three company-level scrapes.
type CompanyIntel struct {
	Website SourceResult[WebsiteRecord]     `json:"website"`
	Page    SourceResult[CompanyPageRecord] `json:"company_page"`
	Jobs    SourceResult[HiringSignal]      `json:"jobs"`
}

// Penalty is one data-quality deduction applied to a fit score.
type Penalty struct {
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

// ScoreSummary carries a fit score with the priority derived from it.
type ScoreSummary struct {
	Base      int           `json:"base"`
	Final     int           `json:"final"`
	Penalties []Penalty     `json:"penalties,omitempty"`
	Priority  PriorityLevel `json:"priority"`
	Breakdown string        `json:"breakdown,omitempty"`
}

// ResearchPacket is the set of formatted text blocks handed to downstream
// consumers.
type ResearchPacket struct {
	CompanyIntel       string `json:"company_intel"`
	ContactIntel       string `json:"contact_intel"`
	PainSignals        string `json:"pain_signals"`
	CompetitorPresence string `json:"competitor_presence"`
	FitAnalysis        string `json:"fit_analysis"`
	TalkTrack          string `json:"talk_track"`
	DiscoveryQuestions string `json:"discovery_questions"`
	ObjectionHandles   string `json:"objection_handles"`
	CompanyHardIntel   string `json:"company_hard_intel"`
	ProfileIntel       string `json:"profile_intel"`
	SocialActivity     string `json:"social_activity"`
	Sources            string `json:"sources"`
}

// CompositeResearchRecord is the merged result of all sources for one subject.
type CompositeResearchRecord struct {
	ID         string                           `json:"id"`
	Subject    Subject                          `json:"subject"`
	Dossier    SourceResult[Dossier]            `json:"dossier"`
	Profile    SourceResult[SocialProfileIntel] `json:"profile"`
	Company    CompanyIntel                     `json:"company"`
	Activity   SourceResult[SocialActivity]     `json:"social_activity"`
	Discovered DiscoveredFields                 `json:"discovered_fields"`
	Score      ScoreSummary                     `json:"score"`
	Packet     ResearchPacket                   `json:"packet"`
	DurationMs int64                            `json:"duration_ms"`
	CreatedAt  time.Time                        `json:"created_at"`
}
