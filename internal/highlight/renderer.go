// Package highlight turns scanner matches into marked-up display text.
package highlight

import (
	"fmt"
	"html"
	"strings"

	"github.com/sharewatch/sharewatch/internal/config"
	"github.com/sharewatch/sharewatch/internal/privacy"
)

// EscapeFunc escapes literal text for the target markup format.
type EscapeFunc func(string) string

// Renderer produces an HTML view of scanned text with each match wrapped
// in a severity-tagged <mark> element carrying the rule name as a label.
type Renderer struct {
	escape      EscapeFunc
	classPrefix string
}

// New creates a renderer that escapes literal text as HTML
func New(cfg config.HighlightConfig) (*Renderer, error) {
	return NewWithEscape(cfg, html.EscapeString)
}

// NewWithEscape creates a renderer with a caller-supplied escape function.
// A nil escape function is a configuration fault, reported here rather
// than surfaced per render call.
func NewWithEscape(cfg config.HighlightConfig, escape EscapeFunc) (*Renderer, error) {
	if escape == nil {
		return nil, fmt.Errorf("highlight: no escape function configured")
	}

	prefix := cfg.ClassPrefix
	if prefix == "" {
		prefix = "sw"
	}

	return &Renderer{escape: escape, classPrefix: prefix}, nil
}

// Render walks matches in ascending start order and emits the untouched
// text between matches plus each match wrapped in a <mark> element. All
// literal text, matched or not, goes through the escape function.
//
// Matches must arrive pre-sorted by start offset, as the scanner returns
// them. Overlapping matches are rendered with a forward-only cursor: a
// match starting before the cursor has its pre-cursor portion silently
// dropped from the highlighted value, and a match ending at or before
// the cursor is skipped entirely.
func (r *Renderer) Render(text string, matches []privacy.Match) string {
	if text == "" {
		return ""
	}

	runes := []rune(text)
	var b strings.Builder
	cursor := 0

	for _, m := range matches {
		start, end := m.Start, m.End
		if end > len(runes) {
			end = len(runes)
		}
		if end <= cursor || start >= len(runes) {
			continue
		}
		if start < cursor {
			start = cursor
		}

		b.WriteString(r.escape(string(runes[cursor:start])))
		b.WriteString(`<mark class="`)
		b.WriteString(r.classPrefix)
		b.WriteString("-")
		b.WriteString(string(m.Severity))
		b.WriteString(`" data-entity="`)
		b.WriteString(r.escape(m.Type))
		b.WriteString(`">`)
		b.WriteString(r.escape(string(runes[start:end])))
		b.WriteString("</mark>")
		cursor = end
	}

	b.WriteString(r.escape(string(runes[cursor:])))
	return b.String()
}
