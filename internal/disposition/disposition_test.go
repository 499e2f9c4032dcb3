package disposition

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpdehyl/BSA-demo/internal/llm"
	"github.com/jpdehyl/BSA-demo/internal/resilience"
)

var longTranscript = strings.Repeat("Thanks for taking my call, let's set up a demo next week. ", 3)

func fastPolicy() resilience.Policy {
	return resilience.Policy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

// mustNotCall fails the test if the LLM path is reached.
func mustNotCall(t *testing.T) llm.Completer {
	return llm.CompleterFunc(func(context.Context, llm.Prompt) (string, error) {
		t.Error("completer called on a rule-only path")
		return "", errors.New("unexpected")
	})
}

func TestSuggest_RuleLadder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		m          CallMetrics
		label      Label
		confidence Confidence
	}{
		{"5s no transcript", CallMetrics{Duration: 5 * time.Second}, NoAnswer, High},
		{"9s with transcript", CallMetrics{Duration: 9 * time.Second, Transcript: longTranscript}, NoAnswer, High},
		{"10s boundary", CallMetrics{Duration: 10 * time.Second}, Voicemail, Medium},
		{"20s no transcript", CallMetrics{Duration: 20 * time.Second}, Voicemail, Medium},
		{"29s with transcript", CallMetrics{Duration: 29 * time.Second, Transcript: longTranscript}, Voicemail, Medium},
		{"45s no transcript", CallMetrics{Duration: 45 * time.Second}, Connected, Medium},
		{"45s short transcript", CallMetrics{Duration: 45 * time.Second, Transcript: "  hello?  "}, Connected, Medium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSuggester(mustNotCall(t))
			got := s.Suggest(context.Background(), tt.m)
			assert.Equal(t, tt.label, got.Label)
			assert.Equal(t, tt.confidence, got.Confidence)
			assert.NotEmpty(t, got.Reason)
		})
	}
}

func TestSuggest_NoCompleterRulesStillWork(t *testing.T) {
	t.Parallel()

	s := NewSuggester(nil)
	assert.Equal(t, NoAnswer, s.Suggest(context.Background(), CallMetrics{Duration: 5 * time.Second}).Label)
	assert.Equal(t, Voicemail, s.Suggest(context.Background(), CallMetrics{Duration: 20 * time.Second}).Label)

	got := s.Suggest(context.Background(), CallMetrics{Duration: 60 * time.Second, Transcript: longTranscript})
	assert.Equal(t, Connected, got.Label)
	assert.Equal(t, Medium, got.Confidence)
	assert.Contains(t, got.Reason, "AI analysis unavailable")
}

func TestSuggest_LLMPath(t *testing.T) {
	t.Parallel()

	var seen llm.Prompt
	c := llm.CompleterFunc(func(_ context.Context, p llm.Prompt) (string, error) {
		seen = p
		return "```json\n{\"disposition\":\"meeting-booked\",\"confidence\":\"high\",\"reason\":\"Demo scheduled.\"}\n```", nil
	})

	got := NewSuggester(c, WithPolicy(fastPolicy())).Suggest(context.Background(), CallMetrics{Duration: 95 * time.Second, Transcript: longTranscript})
	assert.Equal(t, Suggestion{Label: MeetingBooked, Confidence: High, Reason: "Demo scheduled."}, got)
	assert.Contains(t, seen.User, "Call Duration: 95 seconds")
	assert.Contains(t, seen.User, `"callback-scheduled"`)
}

func TestSuggest_LLMConfidenceNormalized(t *testing.T) {
	t.Parallel()

	c := llm.CompleterFunc(func(context.Context, llm.Prompt) (string, error) {
		return `{"disposition":"Qualified","confidence":"very sure","reason":"Budget confirmed."}`, nil
	})
	got := NewSuggester(c, WithPolicy(fastPolicy())).Suggest(context.Background(), CallMetrics{Duration: time.Minute, Transcript: longTranscript})
	assert.Equal(t, Qualified, got.Label)
	assert.Equal(t, Medium, got.Confidence)
}

func TestSuggest_LLMFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		reply     string
		err       error
		wantCalls int32
	}{
		{"unparseable replies exhaust retries", "no idea", nil, 3},
		{"label outside closed set", `{"disposition":"hung-up","confidence":"high","reason":"x"}`, nil, 1},
		{"permanent error", "", errors.New("invalid api key"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := llm.CompleterFunc(func(context.Context, llm.Prompt) (string, error) {
				calls.Add(1)
				return tt.reply, tt.err
			})
			got := NewSuggester(c, WithPolicy(fastPolicy())).Suggest(context.Background(), CallMetrics{Duration: 40 * time.Second, Transcript: longTranscript})
			assert.Equal(t, Connected, got.Label)
			assert.Equal(t, Medium, got.Confidence)
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestFallback_ShortCall(t *testing.T) {
	t.Parallel()

	got := fallback(25*time.Second, "ignored")
	assert.Equal(t, NoAnswer, got.Label)
	assert.Equal(t, Low, got.Confidence)
}

func TestLabels_ClosedSet(t *testing.T) {
	t.Parallel()

	require.Len(t, Labels, 8)
	for _, l := range Labels {
		assert.True(t, l.Valid(), l)
	}
	assert.False(t, Label("hung-up").Valid())
}

func TestUnknownLabelError(t *testing.T) {
	t.Parallel()
	err := error(&UnknownLabelError{Label: "hung-up"})
	var ule *UnknownLabelError
	require.ErrorAs(t, err, &ule)
	assert.Equal(t, `disposition: unknown label "hung-up"`, err.Error())
}
