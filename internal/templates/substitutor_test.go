package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock() time.Time {
	return time.Date(2025, time.March, 9, 14, 5, 0, 0, time.Local)
}

func TestSubstituteBuiltins(t *testing.T) {
	s := NewSubstitutorWithClock(fixedClock)

	got := s.Substitute("Today is {{DATE}} at {{TIME}}. SUDS={{SUDS}}", nil)
	assert.Equal(t, "Today is 2025-03-09 at 14:05. SUDS=N/A", got)
}

func TestSubstituteBuiltinOverrides(t *testing.T) {
	s := NewSubstitutorWithClock(fixedClock)

	got := s.Substitute("{{DATE}} {{TIME}} {{SUDS}}", Variables{
		"DATE": "someday",
		"SUDS": "7.2",
	})
	assert.Equal(t, "someday 14:05 7.2", got)
}

func TestSubstituteUserVariables(t *testing.T) {
	s := NewSubstitutorWithClock(fixedClock)

	t.Run("Simple", func(t *testing.T) {
		got := s.Substitute("Hello {{NAME}}", Variables{"NAME": "Ada"})
		assert.Equal(t, "Hello Ada", got)
	})

	t.Run("EveryOccurrence", func(t *testing.T) {
		got := s.Substitute("{{WHO}} and {{WHO}} again", Variables{"WHO": "you"})
		assert.Equal(t, "you and you again", got)
	})

	t.Run("UnknownLeftLiteral", func(t *testing.T) {
		got := s.Substitute("keep {{MYSTERY_VAR}} as-is", Variables{"NAME": "Ada"})
		assert.Equal(t, "keep {{MYSTERY_VAR}} as-is", got)
	})

	t.Run("EmptyValueTreatedAsAbsent", func(t *testing.T) {
		got := s.Substitute("keep {{EMPTY}}", Variables{"EMPTY": ""})
		assert.Equal(t, "keep {{EMPTY}}", got)
	})
}

func TestSubstituteDefaultClock(t *testing.T) {
	s := NewSubstitutor()

	got := s.Substitute("{{DATE}}", nil)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, got)
}

func TestExtractVariables(t *testing.T) {
	t.Run("DeduplicatedFirstOccurrenceOrder", func(t *testing.T) {
		got := ExtractVariables("{{DATE}} - {{CUSTOM_VAR}} - {{DATE}}")
		assert.Equal(t, []string{"DATE", "CUSTOM_VAR"}, got)
	})

	t.Run("IgnoresNonPlaceholderShapes", func(t *testing.T) {
		got := ExtractVariables("{{lower}} {{Mixed_Case}} {NOT_DOUBLE} {{WITH_1_DIGIT}}")
		assert.Equal(t, []string{"WITH_1_DIGIT"}, got)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, ExtractVariables("no placeholders here"))
	})
}

func TestExtractAfterSubstitute(t *testing.T) {
	// The placeholders left after substitution are exactly those with no
	// value and no built-in fallback.
	s := NewSubstitutorWithClock(fixedClock)

	tpl := "{{DATE}} {{TIME}} {{SUDS}} {{NAME}} {{MISSING_ONE}} {{MISSING_TWO}}"
	out := s.Substitute(tpl, Variables{"NAME": "Ada"})

	assert.Equal(t, []string{"MISSING_ONE", "MISSING_TWO"}, ExtractVariables(out))
}
