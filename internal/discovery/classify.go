package discovery

import (
	"strings"

	"booknerd/internal/library"
	"booknerd/internal/logging"
	"booknerd/internal/resolve"
)

// Keyword tables checked in fixed priority order: the first hit wins the
// genre/mood slot.
var (
	genreKeywords      = []string{"mystery", "fantasy", "sci-fi", "romance", "thriller"}
	moodKeywords       = []string{"fast-paced", "slow", "light", "heavy", "fun", "serious"}
	comparisonKeywords = []string{"like", "similar to"}
)

// tellMeMoreTriggers, longest first so title extraction strips the whole
// trigger phrase.
var tellMeMoreTriggers = []string{"tell me more about", "more about", "tell me more"}

// ClassifyMessage decides what a chat message asks for. The library and the
// recent history are only consulted for tell-me-more title extraction.
func ClassifyMessage(text string, books []library.Book, history []library.Turn) Classification {
	lower := strings.ToLower(strings.TrimSpace(text))

	if strings.Contains(lower, "tell me more") || strings.Contains(lower, "more about") {
		title := extractDetailTitle(lower, books, history)
		logging.DiscoveryDebug("tell-me-more, title=%q", title)
		return Classification{Kind: KindTellMeMore, Title: title}
	}

	criteria := Criteria{RawRequest: strings.TrimSpace(text)}
	for _, g := range genreKeywords {
		if strings.Contains(lower, g) {
			criteria.Genre = g
			break
		}
	}
	for _, m := range moodKeywords {
		if strings.Contains(lower, m) {
			criteria.Mood = m
			break
		}
	}
	hasComparison := false
	for _, c := range comparisonKeywords {
		if strings.Contains(lower, c) {
			hasComparison = true
			break
		}
	}
	// ComparisonTitle extraction is an acknowledged gap: the keyword only
	// gates readiness, the title itself is never populated.

	if criteria.Genre != "" || criteria.Mood != "" || hasComparison {
		logging.DiscoveryDebug("ready to recommend: genre=%q mood=%q comparison=%v",
			criteria.Genre, criteria.Mood, hasComparison)
		return Classification{Kind: KindReadyToRecommend, Criteria: criteria}
	}

	return Classification{Kind: KindNeedsClarification}
}

// extractDetailTitle pulls the title the user wants detail on. The phrase
// after the trigger is resolved against the library; failing that it is
// used verbatim. An empty phrase falls back to scanning the last assistant
// turn for a known library title.
func extractDetailTitle(lower string, books []library.Book, history []library.Turn) string {
	var phrase string
	for _, trigger := range tellMeMoreTriggers {
		if idx := strings.Index(lower, trigger); idx >= 0 {
			phrase = strings.TrimSpace(lower[idx+len(trigger):])
			break
		}
	}
	phrase = strings.Trim(phrase, `"'.,!? “”`)

	if phrase != "" {
		if book := resolve.FindBestMatch(phrase, books); book != nil {
			return book.Title
		}
		return phrase
	}

	// No explicit title: the user probably means something we just said.
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != "assistant" {
			continue
		}
		content := strings.ToLower(history[i].Content)
		for j := range books {
			if t := strings.ToLower(books[j].Title); t != "" && strings.Contains(content, t) {
				return books[j].Title
			}
		}
		break
	}
	return ""
}
