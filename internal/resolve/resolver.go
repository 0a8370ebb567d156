// Package resolve maps mention strings and partial titles to concrete books.
// All functions are pure over the library snapshot passed in; a miss is a
// nil/empty result, never an error. Matching is deterministic: ties on fuzzy
// score are broken by library order.
package resolve

import (
	"regexp"
	"strings"

	"booknerd/internal/library"
	"booknerd/internal/logging"
)

// fuzzyThreshold is the minimum fuzzy score for FindBestMatch to accept.
const fuzzyThreshold = 0.6

// Mention is an "@name" reference detected in user text, resolved against
// the library. Start/End are byte offsets into the text the mention was
// detected in; they are meaningless against any other string.
type Mention struct {
	Text  string // matched substring, including the leading '@'
	Book  *library.Book
	Start int
	End   int
}

// mentionPattern matches '@' followed by one or more space-separated word
// tokens. Greedy: "@the name of the wind" is one mention.
var mentionPattern = regexp.MustCompile(`@(\w+(?:[ ]\w+)*)`)

// DetectMentions finds all @mentions in text and resolves each against the
// library. The capture is greedy across words, so resolution retries
// progressively shorter token prefixes; "@dune being great" yields the
// mention "@dune". Mentions that resolve to nothing are dropped silently.
func DetectMentions(text string, books []library.Book) []Mention {
	var mentions []Mention
	for _, loc := range mentionPattern.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[2]:loc[3]]
		tokens := strings.Split(name, " ")
		resolved := false
		for k := len(tokens); k > 0 && !resolved; k-- {
			candidate := strings.Join(tokens[:k], " ")
			book := FindBestMatch(candidate, books)
			if book == nil {
				continue
			}
			end := loc[2] + len(candidate)
			mentions = append(mentions, Mention{
				Text:  text[loc[0]:end],
				Book:  book,
				Start: loc[0],
				End:   end,
			})
			resolved = true
		}
		if !resolved {
			logging.ResolveDebug("mention %q did not resolve, dropped", name)
		}
	}
	return mentions
}

// FindBestMatch resolves a name to a book. Stages, first hit wins:
// exact case-insensitive title equality (ignoring a leading "the "),
// then title prefix in library order, then best fuzzy score above the
// threshold. Returns nil when nothing matches.
func FindBestMatch(query string, books []library.Book) *library.Book {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	// Stage 1: exact equality, with and without a leading article.
	for i := range books {
		t := strings.ToLower(books[i].Title)
		if t == q || stripArticle(t) == stripArticle(q) {
			return &books[i]
		}
	}

	// Stage 2: first title-prefix match in library order.
	for i := range books {
		if strings.HasPrefix(strings.ToLower(books[i].Title), q) {
			return &books[i]
		}
	}

	// Stage 3: best fuzzy score above threshold; strict > keeps the
	// earliest book on ties.
	var best *library.Book
	bestScore := fuzzyThreshold
	for i := range books {
		if score := FuzzyScore(q, books[i].Title); score > bestScore {
			best = &books[i]
			bestScore = score
		}
	}
	if best != nil {
		logging.ResolveDebug("fuzzy match %q -> %q (%.2f)", query, best.Title, bestScore)
	}
	return best
}

// abbreviations maps common shorthand to title fragments. A query equal to a
// key scores 1.0 against any title containing one of the fragments.
var abbreviations = map[string][]string{
	"lotr":   {"lord of the rings", "fellowship", "two towers", "return of the king"},
	"hp":     {"harry potter"},
	"got":    {"game of thrones"},
	"asoiaf": {"song of ice and fire"},
	"wot":    {"wheel of time"},
	"hhgttg": {"hitchhiker's guide"},
}

// FuzzyScore scores query against a title in [0, 1]. Abbreviation hits are
// 1.0; otherwise Jaccard similarity of the word sets, boosted 1.5x (capped
// at 1.0) when every query word appears in the title.
func FuzzyScore(query, target string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	t := strings.ToLower(target)

	if expansions, ok := abbreviations[q]; ok {
		for _, exp := range expansions {
			if strings.Contains(t, exp) {
				return 1.0
			}
		}
	}

	qWords := strings.Fields(q)
	tWords := strings.Fields(t)
	tSet := make(map[string]bool, len(tWords))
	for _, w := range tWords {
		tSet[w] = true
	}
	qSet := make(map[string]bool, len(qWords))
	for _, w := range qWords {
		qSet[w] = true
	}

	intersection := 0
	allQueryWordsPresent := len(qSet) > 0
	for w := range qSet {
		if tSet[w] {
			intersection++
		} else {
			allQueryWordsPresent = false
		}
	}
	union := len(qSet) + len(tSet) - intersection
	if union == 0 {
		return 0
	}

	score := float64(intersection) / float64(union)
	if allQueryWordsPresent {
		score *= 1.5
		if score > 1.0 {
			score = 1.0
		}
	}
	return score
}

// stripArticle removes a leading "the " from an already lower-cased string.
func stripArticle(s string) string {
	return strings.TrimPrefix(s, "the ")
}
