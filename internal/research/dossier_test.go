package research

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpdehyl/BSA-demo/internal/llm"
	"github.com/jpdehyl/BSA-demo/internal/model"
	"github.com/jpdehyl/BSA-demo/internal/resilience"
)

func TestFitScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want int
	}{
		{"integer", `72`, 72},
		{"rounded", `72.6`, 73},
		{"above range", `140`, 100},
		{"below range", `-5`, 0},
		{"string", `"high"`, 50},
		{"numeric string", `" 85 "`, 85},
		{"null", `null`, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v any
			require.NoError(t, json.Unmarshal([]byte(tt.in), &v))
			assert.Equal(t, tt.want, fitScore(v))
		})
	}
}

func TestStringList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"one"}, stringList(" one "))
	assert.Equal(t, []string{"a", "b"}, stringList([]any{"a", 3.0, " ", "b"}))
	assert.Nil(t, stringList(nil))
	assert.Nil(t, stringList(""))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	var raw rawDossier
	require.NoError(t, json.Unmarshal([]byte(`{
		"fitScore": "n/a",
		"talkTrack": ["Speed", "Quality"],
		"discoveryQuestions": "What CAD do you use?",
		"objectionHandles": [{"objection": "Too busy", "response": "We migrate for you."}, "junk", {}],
		"linkedInUrl": "null",
		"phoneNumber": null,
		"jobTitle": " CTO ",
		"companyWebsite": 42
	}`), &raw))

	d := raw.normalize()
	assert.Equal(t, 50, d.FitScore)
	assert.Equal(t, "Speed\nQuality", d.TalkTrack)
	assert.Equal(t, []string{"What CAD do you use?"}, d.DiscoveryQuestions)
	assert.Equal(t, []model.ObjectionHandle{{Objection: "Too busy", Response: "We migrate for you."}}, d.ObjectionHandles)
	assert.Empty(t, d.LinkedInURL)
	assert.Empty(t, d.PhoneNumber)
	assert.Equal(t, "CTO", d.JobTitle)
	assert.Empty(t, d.CompanyWebsite)
	assert.Equal(t, dossierSources, d.Sources)
	assert.False(t, d.IsFallback())
}

func TestFallback(t *testing.T) {
	t.Parallel()

	d := Fallback(model.Subject{ContactName: "Dana Smith", CompanyName: "Acme Robotics"})
	assert.True(t, d.IsFallback())
	assert.Equal(t, 50, d.FitScore)
	assert.Len(t, d.DiscoveryQuestions, 5)
	assert.Len(t, d.ObjectionHandles, 3)
	assert.Equal(t, "Acme Robotics - Industry unknown", d.CompanyContext)
	assert.Contains(t, d.OpeningLine, "Hi Dana,")
	assert.Contains(t, d.OpeningLine, "companies like Acme Robotics")

	anon := Fallback(model.Subject{CompanyName: "Acme"})
	assert.Contains(t, anon.OpeningLine, "Hi there,")
}

func TestDossierPrompt_UnknownFields(t *testing.T) {
	t.Parallel()

	p := dossierPrompt(model.Subject{ContactName: "Dana Smith", CompanyName: "Acme", Industry: "null"}, DefaultSellerContext)
	assert.Contains(t, p.User, "- Industry: Unknown")
	assert.Contains(t, p.User, "- LinkedIn: Not provided")
	assert.Contains(t, p.User, "SOLIDWORKS")
	assert.Contains(t, p.User, `"objectionHandles"`)
}

func TestDeepResearch_TransientThenSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	c := llm.CompleterFunc(func(ctx context.Context, p llm.Prompt) (string, error) {
		calls++
		if calls == 1 {
			return "", resilience.Transient(assert.AnError, 503)
		}
		return `{"fitScore": 64, "openingLine": "Hi"}`, nil
	})
	policy := resilience.Policy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}

	res := deepResearch(context.Background(), c, policy, model.Subject{ContactName: "Dana"}, DefaultSellerContext)
	require.True(t, res.OK(), res.Error)
	assert.Equal(t, 64, res.Data.FitScore)
	assert.Equal(t, 2, calls)
}

func TestDeepResearch_ArrayProseFieldsKept(t *testing.T) {
	t.Parallel()

	calls := 0
	c := llm.CompleterFunc(func(ctx context.Context, p llm.Prompt) (string, error) {
		calls++
		return `{
			"painSignals": ["legacy CAD", "manual BOMs"],
			"buyingTriggers": ["New plant opening"],
			"personalBackground": {"unexpected": true},
			"fitScore": 85,
			"jobTitle": "CTO",
			"phoneNumber": "555-0142"
		}`, nil
	})
	policy := resilience.Policy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}

	res := deepResearch(context.Background(), c, policy, model.Subject{ContactName: "Dana", CompanyName: "Acme"}, DefaultSellerContext)
	require.True(t, res.OK(), res.Error)
	assert.Equal(t, 1, calls)
	assert.False(t, res.Data.IsFallback())
	assert.Equal(t, "legacy CAD\nmanual BOMs", res.Data.PainSignals)
	assert.Equal(t, "New plant opening", res.Data.BuyingTriggers)
	assert.Empty(t, res.Data.PersonalBackground)
	assert.Equal(t, 85, res.Data.FitScore)
	assert.Equal(t, "CTO", res.Data.JobTitle)
	assert.Equal(t, "555-0142", res.Data.PhoneNumber)
}
