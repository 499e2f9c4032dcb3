package serpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpdehyl/BSA-demo/internal/resilience"
)

const searchBody = `{
  "organic_results": [
    {"position": 1, "title": "Acme Robotics - Company", "link": "https://www.linkedin.com/company/acme-robotics", "snippet": "Acme builds robots."},
    {"position": 2, "title": "Jane Doe - VP Engineering - Acme Robotics | LinkedIn", "link": "https://www.linkedin.com/in/janedoe", "snippet": "VP Engineering at Acme Robotics. Based in Vancouver, British Columbia. 500+ connections on LinkedIn."},
    {"position": 3, "title": "Jane Doe | LinkedIn", "link": "https://www.linkedin.com/in/janedoe2", "snippet": "Other Jane."}
  ]
}`

func TestSearch_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/search.json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Jane Doe Acme Robotics site:linkedin.com/in", q.Get("q"))
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "google", q.Get("engine"))
		assert.Equal(t, "5", q.Get("num"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0))
	resp, err := c.Search(context.Background(), Query{Q: ProfileQuery("Jane Doe", "Acme Robotics"), Num: 5})
	require.NoError(t, err)
	assert.Len(t, resp.OrganicResults, 3)
}

func TestSearch_StatusErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantTransient bool
	}{
		{"rate_limited", http.StatusTooManyRequests, true},
		{"unavailable", http.StatusServiceUnavailable, true},
		{"bad_key", http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer srv.Close()

			_, err := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0)).Search(context.Background(), Query{Q: "x"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "unexpected status")
			assert.Equal(t, tt.wantTransient, resilience.IsTransient(err))
		})
	}
}

func TestFindProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0))
	got, err := FindProfile(context.Background(), c, "Jane Doe", "Acme Robotics")
	require.NoError(t, err)

	assert.Equal(t, "https://www.linkedin.com/in/janedoe", got.ProfileURL)
	assert.Equal(t, "Jane Doe - VP Engineering - Acme Robotics", got.Headline)
	assert.Equal(t, "VP Engineering", got.CurrentPosition)
	assert.Equal(t, "Acme Robotics", got.CurrentCompany)
	assert.Equal(t, "Vancouver, British Columbia", got.Location)
	assert.Equal(t, "500+", got.Connections)
	assert.Contains(t, got.Summary, "VP Engineering at Acme Robotics")
}

func TestFindProfile_NoProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"organic_results":[{"link":"https://example.com/jane"}]}`))
	}))
	defer srv.Close()

	_, err := FindProfile(context.Background(), NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0)), "Jane", "Acme")
	assert.True(t, errors.Is(err, ErrNoProfile))
}

func TestHeadline(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Jane Doe - CTO", Headline("Jane Doe - CTO | LinkedIn"))
	assert.Equal(t, "Jane Doe", Headline("Jane Doe - LinkedIn"))
	assert.Equal(t, "Plain", Headline("Plain"))
}

func TestParseSnippet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                                  string
		snippet                               string
		position, company, location, connects string
	}{
		{
			name:     "position and location",
			snippet:  "Senior Engineer at Acme Robotics. Based in Vancouver, British Columbia. 500+ connections on LinkedIn.",
			position: "Senior Engineer", company: "Acme Robotics", location: "Vancouver, British Columbia", connects: "500+",
		},
		{
			name:     "ampersand company",
			snippet:  "Operations lead at Smith & Sons Manufacturing",
			position: "Operations lead", company: "Smith & Sons Manufacturing",
		},
		{
			name:     "location and count only",
			snippet:  "Located in Austin, Texas · 87 connections",
			location: "Austin, Texas", connects: "87",
		},
		{name: "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, c, l, n := ParseSnippet(tt.snippet)
			assert.Equal(t, tt.position, p)
			assert.Equal(t, tt.company, c)
			assert.Equal(t, tt.location, l)
			assert.Equal(t, tt.connects, n)
		})
	}
}
