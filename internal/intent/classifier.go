// Package intent turns free-form user text into a tagged command intent.
// Classification is an ordered, first-match-wins rule cascade over the
// lower-cased, whitespace-trimmed input. It is pure and deterministic:
// the same text always yields the same intent.
package intent

import (
	"strings"

	"booknerd/internal/logging"
)

// Kind tags the classified intent variant.
type Kind string

const (
	KindAddBook       Kind = "add_book"
	KindCreateQuote   Kind = "create_quote"
	KindCreateNote    Kind = "create_note"
	KindSearchLibrary Kind = "search_library"
	KindUnknown       Kind = "unknown"
)

// Intent is the classified command. Payload carries the add-book query
// (prefix-stripped) or the raw input for quote/note/search variants.
type Intent struct {
	Kind    Kind
	Payload string
}

// AddBook builds an add-book intent carrying the cleaned query.
func AddBook(query string) Intent { return Intent{Kind: KindAddBook, Payload: query} }

// CreateQuote builds a create-quote intent carrying the raw input unmodified.
func CreateQuote(text string) Intent { return Intent{Kind: KindCreateQuote, Payload: text} }

// CreateNote builds a create-note intent carrying the raw input unmodified.
func CreateNote(text string) Intent { return Intent{Kind: KindCreateNote, Payload: text} }

// SearchLibrary builds a search intent carrying the raw input.
func SearchLibrary(query string) Intent { return Intent{Kind: KindSearchLibrary, Payload: query} }

// Unknown is the fallback intent.
func Unknown() Intent { return Intent{Kind: KindUnknown} }

// addBookPrefixes is the ordered strip list for add-book queries. The first
// matching prefix wins; order matters ("add the book " before "add the ").
var addBookPrefixes = []string{
	"add book ",
	"add the book ",
	"add the ",
	"add ",
	"reading ",
	"finished ",
	"book: ",
	"i'm reading ",
	"currently reading ",
}

// noteTriggers start a create-note input.
var noteTriggers = []string{"note:", "thought:", "idea:"}

// actionKeywords block the search fallback: if any appears the input is
// treated as an (unparsed) action rather than a library search.
var actionKeywords = []string{"add", "new", "create", "quote", "note", "thought"}

// rule is one (predicate, constructor) pair in the classification cascade.
// raw is the trimmed original input, lower its lower-cased form.
type rule struct {
	name  string
	match func(lower string) bool
	build func(raw, lower string) Intent
}

// rules is evaluated in order; the first match wins.
var rules = []rule{
	{
		name:  "add_book",
		match: isAddBook,
		build: func(raw, lower string) Intent { return AddBook(extractBookQuery(raw, lower)) },
	},
	{
		name:  "create_quote",
		match: isCreateQuote,
		build: func(raw, _ string) Intent { return CreateQuote(raw) },
	},
	{
		name:  "create_note",
		match: isCreateNote,
		build: func(raw, _ string) Intent { return CreateNote(raw) },
	},
	{
		name:  "search_library",
		match: isSearch,
		build: func(raw, _ string) Intent { return SearchLibrary(raw) },
	},
}

// Classify maps input text to an Intent.
func Classify(input string) Intent {
	raw := strings.TrimSpace(input)
	lower := strings.ToLower(raw)
	if lower == "" {
		return Unknown()
	}

	for _, r := range rules {
		if r.match(lower) {
			logging.IntentDebug("rule %q matched input %q", r.name, raw)
			return r.build(raw, lower)
		}
	}

	logging.IntentDebug("no rule matched input %q", raw)
	return Unknown()
}

func isAddBook(lower string) bool {
	if strings.HasPrefix(lower, "add book") ||
		strings.HasPrefix(lower, "add the ") ||
		(strings.HasPrefix(lower, "add ") && len(lower) > 4) {
		return true
	}
	for _, p := range []string{"reading ", "finished ", "i'm reading ", "currently reading "} {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return strings.Contains(lower, " by ") && !strings.Contains(lower, "quote")
}

func isCreateQuote(lower string) bool {
	if strings.HasPrefix(lower, "quote:") || startsWithDoubleQuote(lower) {
		return true
	}
	return strings.Contains(lower, "page ") && containsDoubleQuote(lower)
}

func isCreateNote(lower string) bool {
	for _, t := range noteTriggers {
		if strings.HasPrefix(lower, t) {
			return true
		}
	}
	return false
}

func isSearch(lower string) bool {
	for _, kw := range actionKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

// extractBookQuery strips the first matching add-book prefix from the raw
// input (matched case-insensitively), trims, and removes one trailing
// punctuation mark. Original casing of the query is preserved.
func extractBookQuery(raw, lower string) string {
	query := raw
	for _, prefix := range addBookPrefixes {
		if strings.HasPrefix(lower, prefix) {
			query = raw[len(prefix):]
			break
		}
	}
	query = strings.TrimSpace(query)
	if n := len(query); n > 0 {
		switch query[n-1] {
		case '.', ',', '!', '?':
			query = query[:n-1]
		}
	}
	return strings.TrimSpace(query)
}

// startsWithDoubleQuote accepts straight and typographic opening quotes;
// transcribed speech and iOS keyboards both produce the curly forms.
func startsWithDoubleQuote(s string) bool {
	return strings.HasPrefix(s, `"`) || strings.HasPrefix(s, "“")
}

func containsDoubleQuote(s string) bool {
	return strings.ContainsAny(s, "\"“”")
}
