// Package templates fills {{NAME}} placeholders in prompt and document
// templates and provides an optional Redis-backed store of named templates.
package templates

import (
	"regexp"
	"strings"
	"time"
)

// placeholderPattern matches {{UPPERCASE_WITH_UNDERSCORES}} tokens.
var placeholderPattern = regexp.MustCompile(`\{\{([A-Z][A-Z0-9_]*)\}\}`)

// Clock supplies the current time for the DATE and TIME built-ins.
type Clock func() time.Time

// Variables maps uppercase placeholder names to replacement values.
// Entries with empty values are treated as absent.
type Variables map[string]string

// Substitutor resolves template placeholders from a variable map plus
// the DATE, TIME and SUDS built-ins.
type Substitutor struct {
	clock Clock
}

// NewSubstitutor creates a substitutor using the wall clock
func NewSubstitutor() *Substitutor {
	return NewSubstitutorWithClock(time.Now)
}

// NewSubstitutorWithClock creates a substitutor with an injected clock,
// so DATE and TIME output is deterministic under test
func NewSubstitutorWithClock(clock Clock) *Substitutor {
	if clock == nil {
		clock = time.Now
	}
	return &Substitutor{clock: clock}
}

// Substitute resolves every placeholder in template that has a value.
// The built-ins go first: DATE (YYYY-MM-DD, local), TIME (HH:MM, 24h,
// local) and SUDS (literal "N/A" fallback), each consulting vars before
// falling back to the computed or default value. Every other non-empty
// vars entry is then replaced globally. Placeholders with no value stay
// in the output as literal text.
func (s *Substitutor) Substitute(template string, vars Variables) string {
	now := s.clock()

	out := template
	out = strings.ReplaceAll(out, "{{DATE}}", resolve(vars, "DATE", now.Format("2006-01-02")))
	out = strings.ReplaceAll(out, "{{TIME}}", resolve(vars, "TIME", now.Format("15:04")))
	out = strings.ReplaceAll(out, "{{SUDS}}", resolve(vars, "SUDS", "N/A"))

	for name, value := range vars {
		if value == "" {
			continue
		}
		switch name {
		case "DATE", "TIME", "SUDS":
			continue
		}
		out = strings.ReplaceAll(out, "{{"+name+"}}", value)
	}

	return out
}

// resolve returns the user-supplied value for a built-in when present,
// otherwise the fallback
func resolve(vars Variables, name, fallback string) string {
	if v, ok := vars[name]; ok && v != "" {
		return v
	}
	return fallback
}

// ExtractVariables lists the unique placeholder names appearing in
// template, in first-occurrence order. Callers use it to validate a
// template or prompt for missing variables.
func ExtractVariables(template string) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)

	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}

	return names
}
