package anthropic

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/jpdehyl/BSA-demo/internal/llm"
)

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 4000
)

// Completer adapts a Client to llm.Completer.
type Completer struct {
	client Client
	model  string
}

var _ llm.Completer = (*Completer)(nil)

// NewCompleter returns a Completer using model, or the default model when
// empty.
func NewCompleter(client Client, model string) *Completer {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Completer{client: client, model: model}
}

// Complete sends p as a single user turn.
func (c *Completer) Complete(ctx context.Context, p llm.Prompt) (string, error) {
	maxTokens := int64(p.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	req := MessageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    p.System,
		Messages:  []Message{{Role: "user", Content: p.User}},
	}
	if p.Temperature > 0 {
		t := p.Temperature
		req.Temperature = &t
	}

	resp, err := c.client.CreateMessage(ctx, req)
	if err != nil {
		return "", err
	}
	resp.Usage.LogUsage(c.model, "completion")

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", eris.New("anthropic: empty response")
	}
	return text, nil
}
