package resolve

import (
	"sort"
	"strings"

	"booknerd/internal/library"
)

// DefaultSuggestionLimit caps ranked partial-input suggestions.
const DefaultSuggestionLimit = 5

// suggestionFloor drops suggestion candidates scoring at or below it.
const suggestionFloor = 0.3

// Suggestion is a ranked candidate for a partial title input.
type Suggestion struct {
	Book  *library.Book
	Score float64
}

// Suggestions ranks books against a partial input. Scoring is by priority,
// not summed: exact title prefix 1.0, any word-prefix 0.8, substring 0.6,
// else the fuzzy score. Candidates at or below 0.3 are dropped; the rest
// are sorted descending (stable, so library order breaks ties) and capped
// to limit. An empty partial yields nothing.
func Suggestions(partial string, books []library.Book, limit int) []Suggestion {
	p := strings.ToLower(strings.TrimSpace(partial))
	if p == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	var out []Suggestion
	for i := range books {
		score := suggestionScore(p, books[i].Title)
		if score > suggestionFloor {
			out = append(out, Suggestion{Book: &books[i], Score: score})
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func suggestionScore(partial, title string) float64 {
	t := strings.ToLower(title)
	switch {
	case strings.HasPrefix(t, partial):
		return 1.0
	case anyWordHasPrefix(t, partial):
		return 0.8
	case strings.Contains(t, partial):
		return 0.6
	default:
		return FuzzyScore(partial, title)
	}
}

func anyWordHasPrefix(lowerTitle, prefix string) bool {
	for _, w := range strings.Fields(lowerTitle) {
		if strings.HasPrefix(w, prefix) {
			return true
		}
	}
	return false
}

// ReplaceMention substitutes the mention's source range in text. The mention
// must have been detected in this exact text; offsets are not revalidated.
func ReplaceMention(text string, m Mention, replacement string) string {
	if m.Start < 0 || m.End > len(text) || m.Start > m.End {
		return text
	}
	return text[:m.Start] + replacement + text[m.End:]
}

// ExtractBookContext strips the first detected @mention from text and
// returns the cleaned text together with the resolved book. Text without a
// resolvable mention comes back unchanged with a nil book.
func ExtractBookContext(text string, books []library.Book) (string, *library.Book) {
	mentions := DetectMentions(text, books)
	if len(mentions) == 0 {
		return text, nil
	}

	m := mentions[0]
	cleaned := text[:m.Start] + text[m.End:]
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return cleaned, m.Book
}
