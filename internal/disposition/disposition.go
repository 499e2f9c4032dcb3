// Package disposition suggests a call outcome label from call metrics,
// consulting an LLM only when a long call has a usable transcript.
package disposition

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jpdehyl/BSA-demo/internal/llm"
	"github.com/jpdehyl/BSA-demo/internal/resilience"
)

// Label is a call outcome.
type Label string

const (
	Connected         Label = "connected"
	Voicemail         Label = "voicemail"
	NoAnswer          Label = "no-answer"
	Busy              Label = "busy"
	CallbackScheduled Label = "callback-scheduled"
	NotInterested     Label = "not-interested"
	Qualified         Label = "qualified"
	MeetingBooked     Label = "meeting-booked"
)

// Labels is the closed set the classifier may return, in prompt order.
var Labels = []Label{
	Connected, Voicemail, NoAnswer, Busy,
	CallbackScheduled, NotInterested, Qualified, MeetingBooked,
}

var labelHelp = map[Label]string{
	Connected:         "Had a conversation with the prospect",
	Voicemail:         "Left a voicemail message",
	NoAnswer:          "No one answered",
	Busy:              "Line was busy",
	CallbackScheduled: "Prospect agreed to specific callback time",
	NotInterested:     "Prospect explicitly declined interest",
	Qualified:         "Prospect showed interest and meets qualification criteria",
	MeetingBooked:     "Successfully scheduled a meeting/demo",
}

// Valid reports whether l is in the closed set.
func (l Label) Valid() bool {
	_, ok := labelHelp[l]
	return ok
}

// Confidence is a coarse certainty level.
type Confidence string

const (
	High   Confidence = "high"
	Medium Confidence = "medium"
	Low    Confidence = "low"
)

// NormalizeConfidence maps anything outside the three levels to Medium.
func NormalizeConfidence(s string) Confidence {
	switch c := Confidence(strings.ToLower(strings.TrimSpace(s))); c {
	case High, Medium, Low:
		return c
	default:
		return Medium
	}
}

// Ladder thresholds.
const (
	NoAnswerBelow      = 10 * time.Second
	VoicemailBelow     = 30 * time.Second
	MinTranscriptChars = 50
)

// CallMetrics describes a finished call.
type CallMetrics struct {
	Duration   time.Duration `json:"-"`
	Transcript string        `json:"transcript,omitempty"`
	Status     string        `json:"status,omitempty"`
}

// Suggestion is the suggested outcome.
type Suggestion struct {
	Label      Label      `json:"suggested_disposition"`
	Confidence Confidence `json:"confidence"`
	Reason     string     `json:"reason"`
}

// Option configures a Suggester.
type Option func(*Suggester)

// WithPolicy overrides the retry policy for the LLM path.
func WithPolicy(p resilience.Policy) Option {
	return func(s *Suggester) { s.policy = p }
}

// Suggester runs the rule ladder.
type Suggester struct {
	llm    llm.Completer
	policy resilience.Policy
}

// NewSuggester creates a Suggester. A nil completer makes the LLM path
// fall back as if the model had failed.
func NewSuggester(c llm.Completer, opts ...Option) *Suggester {
	s := &Suggester{llm: c, policy: resilience.DefaultPolicy()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Suggest walks the ladder from the cheapest rule to the LLM. Rules are
// checked once, in order.
func (s *Suggester) Suggest(ctx context.Context, m CallMetrics) Suggestion {
	secs := int(m.Duration / time.Second)

	if m.Duration < NoAnswerBelow {
		return Suggestion{Label: NoAnswer, Confidence: High, Reason: "Call duration under 10 seconds indicates no answer"}
	}
	if m.Duration < VoicemailBelow {
		return Suggestion{Label: Voicemail, Confidence: Medium, Reason: "Short call duration (10-30s) typically indicates voicemail"}
	}

	if utf8.RuneCountInString(strings.TrimSpace(m.Transcript)) > MinTranscriptChars {
		got, err := s.classify(ctx, m)
		if err == nil {
			return got
		}
		zap.L().Warn("disposition: llm classification failed", zap.Int("duration_secs", secs), zap.Error(err))
		return fallback(m.Duration, fmt.Sprintf("Call lasted %ds with conversation (AI analysis unavailable)", secs))
	}

	return fallback(m.Duration, fmt.Sprintf("Call duration %ds suggests conversation occurred", secs))
}

// fallback is the non-LLM answer for calls that reached the transcript rule.
func fallback(d time.Duration, reason string) Suggestion {
	if d >= VoicemailBelow {
		return Suggestion{Label: Connected, Confidence: Medium, Reason: reason}
	}
	return Suggestion{Label: NoAnswer, Confidence: Low, Reason: "Unable to determine disposition from available data"}
}

type reply struct {
	Disposition string `json:"disposition"`
	Confidence  string `json:"confidence"`
	Reason      string `json:"reason"`
}

func (s *Suggester) classify(ctx context.Context, m CallMetrics) (Suggestion, error) {
	if s.llm == nil {
		return Suggestion{}, errNoCompleter
	}
	policy := s.policy
	policy.OnRetry = resilience.LogRetry("llm", "disposition")

	r, err := llm.DecodeJSON[reply](ctx, s.llm, prompt(m), policy)
	if err != nil {
		return Suggestion{}, err
	}
	label := Label(strings.ToLower(strings.TrimSpace(r.Disposition)))
	if !label.Valid() {
		return Suggestion{}, &UnknownLabelError{Label: r.Disposition}
	}
	return Suggestion{Label: label, Confidence: NormalizeConfidence(r.Confidence), Reason: strings.TrimSpace(r.Reason)}, nil
}

func prompt(m CallMetrics) llm.Prompt {
	var b strings.Builder
	b.WriteString("You are analyzing a sales call transcript to determine the call outcome.\n\n")
	fmt.Fprintf(&b, "Call Duration: %d seconds\nTranscript:\n%s\n\n", int(m.Duration/time.Second), m.Transcript)
	b.WriteString("Based on the transcript, determine the most appropriate call disposition from these options:\n")
	for _, l := range Labels {
		fmt.Fprintf(&b, "- %q: %s\n", l, labelHelp[l])
	}
	b.WriteString(`
Return ONLY a JSON object with this exact structure (no markdown, no explanation):
{
  "disposition": "one of the values above",
  "confidence": "high" or "medium" or "low",
  "reason": "brief explanation in one sentence"
}`)
	return llm.Prompt{User: b.String(), MaxTokens: 256}
}
