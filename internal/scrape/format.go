package scrape

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jpdehyl/BSA-demo/internal/model"
)

var titleCaser = cases.Title(language.English)

// Unavailable renders the block shown in place of a failed source.
func Unavailable(kind model.SourceKind, reason string) string {
	if reason == "" {
		return kind.Label() + " data not available"
	}
	return fmt.Sprintf("%s data not available: %s", kind.Label(), reason)
}

// Title capitalizes the first letter of each word.
func Title(s string) string {
	return titleCaser.String(s)
}

// markdown accumulates report lines.
type markdown struct {
	lines []string
}

func (m *markdown) line(format string, args ...any) {
	m.lines = append(m.lines, fmt.Sprintf(format, args...))
}

func (m *markdown) raw(s string) { m.lines = append(m.lines, s) }

func (m *markdown) blank() { m.lines = append(m.lines, "") }

func (m *markdown) String() string {
	return strings.Join(m.lines, "\n")
}

// render formats a result with fn, or the unavailable line when it failed.
func render[T any](kind model.SourceKind, r model.SourceResult[T], fn func(*markdown, T)) string {
	if !r.OK() {
		return Unavailable(kind, r.Error)
	}
	var m markdown
	fn(&m, *r.Data)
	return strings.TrimRight(m.String(), "\n")
}
