package scrape

import (
	"strings"

	"github.com/jpdehyl/BSA-demo/internal/model"
)

// techSignature fingerprints a technology by markers in raw page HTML.
type techSignature struct {
	Name    string
	Markers []string
}

// techSignatures is ordered; detected names are reported in this order.
var techSignatures = []techSignature{
	{"React", []string{"react", "_reactrootcontainer", "data-reactroot", "data-react"}},
	{"Vue.js", []string{"vue", "__vue__", "data-v-"}},
	{"Angular", []string{"ng-", "angular", "ng-version"}},
	{"WordPress", []string{"wp-content", "wp-includes", "wordpress"}},
	{"Shopify", []string{"shopify", "cdn.shopify"}},
	{"HubSpot", []string{"hubspot", "hs-scripts", "hbspt"}},
	{"Salesforce", []string{"salesforce", "pardot", "sfdc"}},
	{"Google Analytics", []string{"google-analytics", "gtag", "ga.js", "googletagmanager"}},
	{"Google Tag Manager", []string{"googletagmanager", "gtm.js"}},
	{"Segment", []string{"segment", "analytics.js", "cdn.segment"}},
	{"Intercom", []string{"intercom", "intercomcdn"}},
	{"Drift", []string{"drift", "driftt"}},
	{"Marketo", []string{"marketo", "munchkin", "mktoforms"}},
	{"Cloudflare", []string{"cloudflare", "__cf_bm"}},
	{"AWS", []string{"amazonaws", "cloudfront"}},
	{"Azure", []string{"azure", "azureedge", "windows.net"}},
	{"Stripe", []string{"stripe", "js.stripe"}},
	{"Zendesk", []string{"zendesk", "zdassets"}},
	{"Hotjar", []string{"hotjar", "static.hotjar"}},
	{"Mixpanel", []string{"mixpanel", "cdn.mxpnl"}},
}

// DetectTechStack returns the technologies whose markers appear in html.
func DetectTechStack(html string) []string {
	lower := strings.ToLower(html)
	var out []string
	for _, sig := range techSignatures {
		if containsAny(lower, sig.Markers...) {
			out = append(out, sig.Name)
		}
	}
	return out
}

// techKeywords are matched case-insensitively against job titles.
var techKeywords = []string{
	"Python", "JavaScript", "TypeScript", "React", "Node.js", "AWS", "Azure", "GCP",
	"Kubernetes", "Docker", "PostgreSQL", "MongoDB", "Salesforce", "SAP", "Oracle",
	"SOLIDWORKS", "AutoCAD", "Revit", "CAD", "CAM", "PLM", "PDM", "ERP", "CRM",
	"Inventor", "Creo", "NX", "CATIA", "Fusion 360", "SolidEdge", "MasterCAM",
	"3D printing", "additive manufacturing", "CNC", "machining", "simulation",
	"FEA", "CFD", "GD&T", "DFM", "DFMA", "ISO 9001", "AS9100", "ITAR",
}

var painKeywords = []string{
	"scaling", "growth", "transformation", "modernization", "automation",
	"efficiency", "streamline", "optimize", "migrate", "upgrade", "replace",
	"challenge", "bottleneck", "manual process", "legacy", "outdated",
	"integration", "collaboration", "data management", "version control",
	"compliance", "regulatory", "quality control", "time to market",
	"design cycle", "prototype", "reduce cost", "improve productivity",
}

type department struct {
	Name    string
	Markers []string
	Exclude []string
}

// departments is checked in order; the first match wins.
var departments = []department{
	{Name: "Engineering", Markers: []string{"engineer", "developer", "software"}},
	{Name: "Sales", Markers: []string{"sales", "account", "business development"}},
	{Name: "Marketing", Markers: []string{"marketing", "brand", "content"}},
	{Name: "Product", Markers: []string{"product"}, Exclude: []string{"production"}},
	{Name: "Design", Markers: []string{"design", "ux", "ui"}},
	{Name: "Customer Success", Markers: []string{"support", "success", "customer"}},
	{Name: "HR", Markers: []string{"hr", "people", "recruiting", "talent"}},
	{Name: "Finance", Markers: []string{"finance", "accounting", "controller"}},
	{Name: "Operations", Markers: []string{"operations", "supply chain", "logistics"}},
	{Name: "Manufacturing", Markers: []string{"manufacturing", "production", "quality"}},
	{Name: "IT", Markers: []string{"it", "infrastructure", "devops"}},
}

// DepartmentOther is assigned when no department matches.
const DepartmentOther = "Other"

// ClassifyDepartment maps a job title to a department by substring match
// in fixed precedence order.
func ClassifyDepartment(title string) string {
	lower := strings.ToLower(title)
	for _, d := range departments {
		if containsAny(lower, d.Markers...) && !containsAny(lower, d.Exclude...) {
			return d.Name
		}
	}
	return DepartmentOther
}

type growthRule struct {
	Signal  string
	Phrases []string
}

var growthRules = []growthRule{
	{"Rapid growth", []string{"rapid growth", "fast-growing", "scaling"}},
	{"Expansion", []string{"expand", "expansion"}},
	{"Building new team", []string{"new team", "building team"}},
	{"Digital transformation", []string{"digital transformation"}},
	{"Innovation focus", []string{"innovation", "innovative"}},
}

const (
	maxSampleJobs = 20

	signalAggressive = "Hiring aggressively (50+ open roles)"
	signalActive     = "Active hiring (20+ open roles)"
)

// BuildHiringSignal classifies postings and derives keyword, growth and
// velocity signals. Only titles are scanned; descriptions are not fetched.
func BuildHiringSignal(company string, postings []model.JobPosting) model.HiringSignal {
	sig := model.HiringSignal{
		CompanyName: company,
		Departments: make(map[string]int),
	}
	tech := newOrderedSet()
	pain := newOrderedSet()
	growth := newOrderedSet()

	for _, p := range postings {
		if p.Title == "" {
			continue
		}
		if p.Department == "" {
			p.Department = ClassifyDepartment(p.Title)
		}
		sig.Departments[p.Department]++
		sig.TotalOpenings++

		lower := strings.ToLower(p.Title)
		for _, kw := range techKeywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				tech.add(kw)
			}
		}
		for _, kw := range painKeywords {
			if strings.Contains(lower, kw) {
				pain.add(kw)
			}
		}
		for _, r := range growthRules {
			if containsAny(lower, r.Phrases...) {
				growth.add(r.Signal)
			}
		}
		if len(sig.Jobs) < maxSampleJobs {
			sig.Jobs = append(sig.Jobs, p)
		}
	}

	switch sig.Velocity() {
	case model.VelocityAggressive:
		growth.add(signalAggressive)
	case model.VelocityModerate:
		growth.add(signalActive)
	}
	if sig.Departments["Engineering"] > 10 {
		growth.add("Heavy engineering investment")
	}
	if sig.Departments["Sales"] > 5 {
		growth.add("Sales team expansion")
	}
	if sig.Departments["Manufacturing"] > 5 {
		growth.add("Manufacturing capacity growth")
	}

	sig.TechStack = tech.items
	sig.PainSignals = pain.items
	sig.GrowthSignals = growth.items
	return sig
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(v string) {
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}
