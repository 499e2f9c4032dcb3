package research

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jpdehyl/BSA-demo/internal/llm"
	"github.com/jpdehyl/BSA-demo/internal/model"
	"github.com/jpdehyl/BSA-demo/internal/resilience"
)

const (
	dossierTemperature = 0.7
	dossierMaxTokens   = 4000
	defaultFitScore    = 50
	dossierSources     = "Gemini AI with web grounding"
)

// DefaultSellerContext describes what is being sold. The deep-research
// prompt scores fit against it.
const DefaultSellerContext = `Hawk Ridge Systems is a leading provider of 3D design, manufacturing, and product data management solutions.

PRIMARY OFFERINGS:
1. SOLIDWORKS - 3D CAD design software for mechanical engineering
2. CAMWorks - Computer-aided manufacturing for CNC machining
3. 3D Printing / Additive Manufacturing - Stratasys, Desktop Metal, Markforged
4. Data Management - SOLIDWORKS PDM, 3DEXPERIENCE
5. Simulation - SOLIDWORKS Simulation, Flow Analysis
6. Technical Support & Training

TARGET INDUSTRIES:
- Aerospace & Defense
- Medical Devices
- Industrial Machinery
- Consumer Products
- Automotive
- Electronics

IDEAL FIT SIGNALS:
- Uses legacy CAD (AutoCAD 2D, Pro/E, Inventor) - ready to upgrade
- Growing engineering team - need collaboration tools
- Manufacturing in-house or planning to - need CAM software
- Rapid prototyping needs - 3D printing opportunity
- Compliance requirements (FDA, AS9100) - need PDM
- Design bottlenecks - simulation and optimization`

// rawDossier is the model reply before normalization. Loosely typed
// fields tolerate the model returning the wrong JSON kind.
type rawDossier struct {
	PersonalBackground any `json:"personalBackground"`
	CommonGround       any `json:"commonGround"`
	CompanyContext     any `json:"companyContext"`
	PainSignals        any `json:"painSignals"`
	TechStackIntel     any `json:"techStackIntel"`
	BuyingTriggers     any `json:"buyingTriggers"`
	SolutionFit        any `json:"solutionFit"`
	FitScore           any `json:"fitScore"`
	FitScoreBreakdown  any `json:"fitScoreBreakdown"`
	OpeningLine        any `json:"openingLine"`
	TalkTrack          any `json:"talkTrack"`
	DiscoveryQuestions any `json:"discoveryQuestions"`
	ObjectionHandles   any `json:"objectionHandles"`
	TheAsk             any `json:"theAsk"`
	LinkedInURL        any `json:"linkedInUrl"`
	PhoneNumber        any `json:"phoneNumber"`
	JobTitle           any `json:"jobTitle"`
	CompanyWebsite     any `json:"companyWebsite"`
}

func (r rawDossier) normalize() model.Dossier {
	return model.Dossier{
		PersonalBackground: text(r.PersonalBackground),
		CommonGround:       text(r.CommonGround),
		CompanyContext:     text(r.CompanyContext),
		PainSignals:        text(r.PainSignals),
		TechStackIntel:     text(r.TechStackIntel),
		BuyingTriggers:     text(r.BuyingTriggers),
		SolutionFit:        text(r.SolutionFit),
		FitScore:           fitScore(r.FitScore),
		FitScoreBreakdown:  text(r.FitScoreBreakdown),
		OpeningLine:        text(r.OpeningLine),
		TalkTrack:          text(r.TalkTrack),
		DiscoveryQuestions: stringList(r.DiscoveryQuestions),
		ObjectionHandles:   objectionList(r.ObjectionHandles),
		TheAsk:             text(r.TheAsk),
		Sources:            dossierSources,
		LinkedInURL:        optional(r.LinkedInURL),
		PhoneNumber:        optional(r.PhoneNumber),
		JobTitle:           optional(r.JobTitle),
		CompanyWebsite:     optional(r.CompanyWebsite),
	}
}

// fitScore accepts a JSON number or a numeric string and defaults
// anything else.
func fitScore(v any) int {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return defaultFitScore
		}
		f = n
	default:
		return defaultFitScore
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return defaultFitScore
	}
	return max(0, min(100, int(math.Round(f))))
}

// text reads a prose field. Strings pass through; arrays are joined one
// item per line; any other kind is dropped.
func text(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return strings.Join(stringList(v), "\n")
}

// stringList accepts a JSON array of strings or a single string.
func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}

func objectionList(v any) []model.ObjectionHandle {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []model.ObjectionHandle
	for _, e := range items {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		obj, _ := m["objection"].(string)
		resp, _ := m["response"].(string)
		if obj == "" && resp == "" {
			continue
		}
		out = append(out, model.ObjectionHandle{Objection: obj, Response: resp})
	}
	return out
}

// optional returns a trimmed string value, treating JSON null and the
// literal "null" as absent.
func optional(v any) string {
	s, _ := v.(string)
	if isEmpty(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

func isEmpty(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "null")
}

func orUnknown(s, unknown string) string {
	if isEmpty(s) {
		return unknown
	}
	return s
}

func dossierPrompt(s model.Subject, sellerContext string) llm.Prompt {
	var b strings.Builder
	b.WriteString("You are an expert B2B sales intelligence analyst preparing a comprehensive dossier for a sales call.\n\n")
	b.WriteString(sellerContext)
	b.WriteString("\n\nLEAD INFORMATION:\n")
	fmt.Fprintf(&b, "- Contact Name: %s\n", s.ContactName)
	fmt.Fprintf(&b, "- Job Title: %s\n", orUnknown(s.ContactTitle, "Unknown"))
	fmt.Fprintf(&b, "- Company: %s\n", s.CompanyName)
	fmt.Fprintf(&b, "- Industry: %s\n", orUnknown(s.Industry, "Unknown"))
	fmt.Fprintf(&b, "- Website: %s\n", orUnknown(s.CompanyWebsite, "Unknown"))
	fmt.Fprintf(&b, "- LinkedIn: %s\n", orUnknown(s.LinkedInURL, "Not provided"))
	fmt.Fprintf(&b, "- Email Domain: %s\n", orUnknown(s.EmailDomain(), "Unknown"))
	b.WriteString(dossierShape)
	return llm.Prompt{User: b.String(), Temperature: dossierTemperature, MaxTokens: dossierMaxTokens}
}

const dossierShape = `
Research this lead and company thoroughly. Generate a comprehensive sales intelligence dossier.

Return a JSON object with these exact keys:

{
  "personalBackground": "Career history, education, professional achievements. What drives this person? Decision-making style?",
  "commonGround": "3-4 specific conversation starters. Shared interests, connections, or experiences.",
  "companyContext": "What does this company do? Recent news, funding, growth. What pressures is leadership under?",
  "painSignals": "Specific challenges they likely face that our offerings can solve.",
  "techStackIntel": "Current tools they likely use (CAD, PLM, manufacturing tech).",
  "buyingTriggers": "Why would they buy NOW? Launches, expansion, funding, new executives, fiscal timing.",
  "solutionFit": "Which 1-3 specific offerings match their needs? Clear reasoning and ROI points.",
  "fitScore": 0-100 integer score based on: industry fit (25pts), company size (20pts), pain signals (25pts), tech readiness (15pts), buying triggers (15pts),
  "fitScoreBreakdown": "Brief explanation of how each factor contributed to the score.",
  "openingLine": "A personalized 1-2 sentence opener. Conversational, not salesy.",
  "talkTrack": "3 key value propositions tailored to this lead, each 1-2 sentences.",
  "discoveryQuestions": ["5-7 strategic questions to uncover needs, budget, timeline, decision process."],
  "objectionHandles": [{"objection": "Likely objection", "response": "Specific response strategy"}],
  "theAsk": "The specific next step to propose (demo, assessment, trial).",
  "linkedInUrl": "The contact's LinkedIn profile URL if found. Return null if not found.",
  "phoneNumber": "The contact's phone number if found. Return null if not found.",
  "jobTitle": "The contact's current job title if discovered. Return null if not found.",
  "companyWebsite": "The company's website URL if found. Return null if not found."
}

Be thorough but concise. Focus on actionable intelligence.`

// Fallback is the canned dossier used when deep research fails.
func Fallback(s model.Subject) model.Dossier {
	first := s.FirstName()
	if first == "" {
		first = "there"
	}
	return model.Dossier{
		PersonalBackground: "Research pending - unable to generate at this time",
		CommonGround:       "Research pending",
		CompanyContext:     fmt.Sprintf("%s - %s", s.CompanyName, orUnknown(s.Industry, "Industry unknown")),
		PainSignals:        "Manual research recommended",
		TechStackIntel:     "Check company website and job postings",
		BuyingTriggers:     "Needs discovery call to identify",
		SolutionFit:        "Recommend SOLIDWORKS suite based on industry",
		FitScore:           defaultFitScore,
		FitScoreBreakdown:  "Default score - research unavailable",
		OpeningLine: fmt.Sprintf("Hi %s, I'm reaching out because we help companies like %s streamline their design and manufacturing processes.",
			first, s.CompanyName),
		TalkTrack: "Focus on design efficiency, manufacturing integration, and data management.",
		DiscoveryQuestions: []string{
			"What CAD tools are you currently using?",
			"What's your biggest challenge in product development?",
			"Are you looking to bring any manufacturing in-house?",
			"How do you currently manage design data and revisions?",
			"What's your timeline for making improvements to your design process?",
		},
		ObjectionHandles: []model.ObjectionHandle{
			{Objection: "We're happy with our current tools", Response: "Understood. Many of our customers felt the same before seeing a 30% improvement in design time. Would a quick comparison be valuable?"},
			{Objection: "Budget is tight", Response: "We offer flexible licensing and financing. Plus, customers typically see ROI within 6 months through efficiency gains."},
			{Objection: "Too busy to switch", Response: "We provide full migration support and training. Most teams are fully productive within 2 weeks."},
		},
		TheAsk:  "I'd love to show you a quick demo tailored to your workflow. Do you have 20 minutes this week?",
		Sources: model.FallbackSources,
	}
}

// deepResearch asks the completer for a dossier. Parse failures are
// retried per policy.
func deepResearch(ctx context.Context, c llm.Completer, policy resilience.Policy, s model.Subject, sellerContext string) model.SourceResult[model.Dossier] {
	start := time.Now()
	policy.OnRetry = resilience.LogRetry("llm", "deep_research")
	raw, err := llm.DecodeJSON[rawDossier](ctx, c, dossierPrompt(s, sellerContext), policy)
	if err != nil {
		return model.Failed[model.Dossier](err, time.Since(start))
	}
	return model.Succeeded(raw.normalize(), false, time.Since(start))
}
