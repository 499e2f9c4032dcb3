// Package gemini is a text-completion client for the Gemini API.
package gemini

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"

	"github.com/jpdehyl/BSA-demo/internal/llm"
	"github.com/jpdehyl/BSA-demo/internal/resilience"
)

const defaultModel = "gemini-2.5-flash"

// Config holds credentials and model selection.
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the API base URL.
	BaseURL string
}

// Client implements llm.Completer over genai.
type Client struct {
	client *genai.Client
	model  string
}

var _ llm.Completer = (*Client)(nil)

// New creates a Client. An empty key is a configuration error.
func New(ctx context.Context, cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, eris.New("gemini: api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions.BaseURL = base
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	return &Client{client: client, model: model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Complete sends p as a single-turn request and returns the reply text.
func (c *Client) Complete(ctx context.Context, p llm.Prompt) (string, error) {
	cfg := &genai.GenerateContentConfig{CandidateCount: 1}
	if p.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}
	if p.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(p.Temperature))
	}
	if p.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(p.MaxTokens)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(p.User), cfg)
	if err != nil {
		return "", eris.Wrap(classifyErr(err), "gemini: generate content")
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", eris.New("gemini: empty response")
	}
	return text, nil
}

// classifyErr marks rate limits, server errors and temporary network
// failures as transient.
func classifyErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code/100 == 5 {
			return resilience.Transient(err, apiErr.Code)
		}
		return err
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return resilience.Transient(err, 0)
	}
	return err
}
