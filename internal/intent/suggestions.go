package intent

import (
	"fmt"
	"strings"
)

// Suggestion is a reinterpretation of the input offered to the user. It is
// never executed automatically; the user has to pick it.
type Suggestion struct {
	Title  string
	Icon   string
	Intent Intent
}

// Suggestions returns the fixed-order alternative readings of the input,
// independent of how Classify decided. Order is stable:
// search, add (when applicable), quote (when applicable), note.
func Suggestions(input string) []Suggestion {
	raw := strings.TrimSpace(input)
	lower := strings.ToLower(raw)
	if lower == "" {
		return nil
	}

	out := []Suggestion{{
		Title:  fmt.Sprintf("Search library for \"%s\"", raw),
		Icon:   "magnifyingglass",
		Intent: SearchLibrary(raw),
	}}

	if !startsWithQuoteOrNoteTrigger(lower) {
		out = append(out, Suggestion{
			Title:  fmt.Sprintf("Add \"%s\" to library", raw),
			Icon:   "plus.circle",
			Intent: AddBook(raw),
		})
	}

	if containsDoubleQuote(lower) {
		out = append(out, Suggestion{
			Title:  "Save as quote",
			Icon:   "quote.opening",
			Intent: CreateQuote(raw),
		})
	}

	out = append(out, Suggestion{
		Title:  "Save as note",
		Icon:   "note.text",
		Intent: CreateNote(raw),
	})

	return out
}

func startsWithQuoteOrNoteTrigger(lower string) bool {
	if strings.HasPrefix(lower, "quote:") || startsWithDoubleQuote(lower) {
		return true
	}
	for _, t := range noteTriggers {
		if strings.HasPrefix(lower, t) {
			return true
		}
	}
	return false
}
