// Package llm defines the text-completion collaborator used for deep
// research and call disposition, and the JSON recovery applied to its
// free-form replies.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jpdehyl/BSA-demo/internal/resilience"
)

// Prompt is one completion request.
type Prompt struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Completer returns the model's text reply to a prompt.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, p Prompt) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}

// ParseError reports a reply that did not contain a decodable JSON object.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("llm: parse response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errNoObject = errors.New("no JSON object in response")

// ExtractJSON returns the text between the first '{' and the last '}',
// after stripping Markdown code fences.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", &ParseError{Raw: text, Err: errNoObject}
	}
	return text[start : end+1], nil
}

// Decode extracts and unmarshals the JSON object in text.
func Decode[T any](text string) (T, error) {
	var out T
	raw, err := ExtractJSON(text)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, &ParseError{Raw: raw, Err: err}
	}
	return out, nil
}

// IsParseError reports whether err is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Retryable is the retry predicate for completions: unparseable replies
// and transient transport failures are retried.
func Retryable(err error) bool {
	return IsParseError(err) || resilience.IsTransient(err)
}

// DecodeJSON asks c for a reply and decodes it as T, retrying per policy.
// A nil policy.Retryable defaults to Retryable.
func DecodeJSON[T any](ctx context.Context, c Completer, p Prompt, policy resilience.Policy) (T, error) {
	if policy.Retryable == nil {
		policy.Retryable = Retryable
	}
	return resilience.RetryVal(ctx, policy, func(ctx context.Context) (T, error) {
		text, err := c.Complete(ctx, p)
		if err != nil {
			var zero T
			return zero, err
		}
		return Decode[T](text)
	})
}
