package model

import "time"

// SourceKind identifies one enrichment channel.
type SourceKind string

const (
	SourceWebsite        SourceKind = "website"
	SourceSocialProfile  SourceKind = "social_profile"
	SourceSocialCompany  SourceKind = "social_company"
	SourceJobPostings    SourceKind = "job_postings"
	SourceDeepResearch   SourceKind = "llm_deep_research"
	SourceProfileLookup  SourceKind = "profile_lookup"
	SourceSocialActivity SourceKind = "social_activity"
)

// Label is the human-readable name used in formatted blocks.
func (k SourceKind) Label() string {
	switch k {
	case SourceWebsite:
		return "Company website"
	case SourceSocialProfile:
		return "LinkedIn profile"
	case SourceSocialCompany:
		return "LinkedIn company page"
	case SourceJobPostings:
		return "Job postings"
	case SourceDeepResearch:
		return "Deep research"
	case SourceProfileLookup:
		return "LinkedIn search"
	case SourceSocialActivity:
		return "X/Twitter activity"
	default:
		return string(k)
	}
}

// ProxyClass selects the egress proxy pool used by the remote browser.
type ProxyClass string

const (
	ProxyResidential ProxyClass = "residential"
	ProxyDatacenter  ProxyClass = "datacenter"
	ProxyNone        ProxyClass = "none"
)

// RequestOptions is the options bag carried by an EnrichmentRequest.
type RequestOptions struct {
	Stealth   bool       `json:"stealth"`
	Proxy     ProxyClass `json:"proxy"`
	SkipCache bool       `json:"skip_cache"`
}

// DefaultRequestOptions returns stealth on, residential proxy, caching on.
func DefaultRequestOptions() RequestOptions {
	return RequestOptions{Stealth: true, Proxy: ProxyResidential}
}

// EnrichmentRequest identifies one (subject, source) pair to fetch.
type EnrichmentRequest struct {
	Kind    SourceKind     `json:"kind"`
	Locator string         `json:"locator"`
	Options RequestOptions `json:"options"`
}

// NewRequest builds a request with default options.
func NewRequest(kind SourceKind, locator string) EnrichmentRequest {
	return EnrichmentRequest{Kind: kind, Locator: locator, Options: DefaultRequestOptions()}
}

// CacheKey is the cache identity of the request: source kind plus locator.
func (r EnrichmentRequest) CacheKey() string {
	return string(r.Kind) + ":" + r.Locator
}

// SourceResult is the outcome of one enrichment call. Exactly one of Data
// and Error is set.
type SourceResult[T any] struct {
	Data       *T     `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	Cached     bool   `json:"cached,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Succeeded builds a populated result.
func Succeeded[T any](data T, cached bool, d time.Duration) SourceResult[T] {
	return SourceResult[T]{Data: &data, Cached: cached, DurationMs: d.Milliseconds()}
}

// Failed builds an error result. A nil err is recorded as "unknown error".
func Failed[T any](err error, d time.Duration) SourceResult[T] {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return SourceResult[T]{Error: msg, DurationMs: d.Milliseconds()}
}

// Unavailable builds an error result from a plain reason.
func Unavailable[T any](reason string) SourceResult[T] {
	return SourceResult[T]{Error: reason}
}

// OK reports whether the result carries data.
func (r SourceResult[T]) OK() bool {
	return r.Data != nil && r.Error == ""
}
