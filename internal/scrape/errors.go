package scrape

import (
	"context"
	"fmt"

	"github.com/jpdehyl/BSA-demo/internal/browser"
	"github.com/jpdehyl/BSA-demo/internal/model"
)

// ExtractionFailed reports a page that loaded without the anchor content an
// adapter needs.
type ExtractionFailed struct {
	Source model.SourceKind
	URL    string
	Reason string
}

func (e *ExtractionFailed) Error() string {
	return fmt.Sprintf("%s extraction failed at %s: %s", e.Source, e.URL, e.Reason)
}

// anchorMissing builds an ExtractionFailed for a selector wait that timed out,
// naming a detected block when there is one.
func anchorMissing(ctx context.Context, kind model.SourceKind, p browser.Page, what string) error {
	reason := what + " did not load"
	if html, err := p.Content(ctx); err == nil {
		if b := DetectBlock(html); b != BlockNone {
			reason = fmt.Sprintf("%s (blocked: %s)", reason, b)
		}
	}
	return &ExtractionFailed{Source: kind, URL: p.URL(), Reason: reason}
}
