package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestions_FixedOrder(t *testing.T) {
	s := Suggestions(`she said "so it goes"`)
	require.Len(t, s, 4)
	assert.Equal(t, KindSearchLibrary, s[0].Intent.Kind)
	assert.Equal(t, KindAddBook, s[1].Intent.Kind)
	assert.Equal(t, KindCreateQuote, s[2].Intent.Kind)
	assert.Equal(t, KindCreateNote, s[3].Intent.Kind)
}

func TestSuggestions_NoAddForQuoteTrigger(t *testing.T) {
	for _, input := range []string{`quote: something`, `"something"`, "note: something", "thought: hm", "idea: hm"} {
		for _, s := range Suggestions(input) {
			assert.NotEqual(t, KindAddBook, s.Intent.Kind, "input %q offered add", input)
		}
	}
}

func TestSuggestions_QuoteOnlyWithDoubleQuote(t *testing.T) {
	for _, s := range Suggestions("dragons and politics") {
		assert.NotEqual(t, KindCreateQuote, s.Intent.Kind)
	}
}

func TestSuggestions_NoteAlwaysLast(t *testing.T) {
	for _, input := range []string{"dragons", `"quoted"`, "note: x"} {
		s := Suggestions(input)
		require.NotEmpty(t, s)
		assert.Equal(t, KindCreateNote, s[len(s)-1].Intent.Kind)
	}
}

func TestSuggestions_EmptyInput(t *testing.T) {
	assert.Empty(t, Suggestions("  "))
}
