package taste

import (
	"bufio"
	"fmt"
	"strings"
)

// ParseError reports a completion that produced no usable records. Callers
// treat it as a soft failure: incomplete entries are dropped, the turn
// continues with a fallback response.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("recommendation parse: %s", e.Reason)
}

// ParseRecommendations scans a completion for the line grammar
//
//	BOOK: <Title> by <Author>
//	DESCRIPTION: <description>
//	WHY: <reasoning>
//
// repeated per book, blank lines permitted. A BOOK line only replaces the
// pending title and author; pending fields reset solely when a record
// commits. A WHY line commits one record only when title, author and
// description are all pending; a WHY seen before a complete
// BOOK/DESCRIPTION pair is discarded. Incomplete trailing entries are
// dropped silently.
func ParseRecommendations(completion string) []Recommendation {
	var (
		recs                               []Recommendation
		pendingTitle, pendingAuthor        string
		pendingDescription, pendingReasons string
	)

	reset := func() {
		pendingTitle, pendingAuthor, pendingDescription, pendingReasons = "", "", "", ""
	}

	scanner := bufio.NewScanner(strings.NewReader(completion))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case hasFoldPrefix(line, "BOOK:"):
			rest := strings.TrimSpace(line[len("BOOK:"):])
			pendingTitle, pendingAuthor = splitTitleAuthor(rest)
		case hasFoldPrefix(line, "DESCRIPTION:"):
			pendingDescription = strings.TrimSpace(line[len("DESCRIPTION:"):])
		case hasFoldPrefix(line, "WHY:"):
			pendingReasons = strings.TrimSpace(line[len("WHY:"):])
			if pendingTitle != "" && pendingAuthor != "" && pendingDescription != "" {
				recs = append(recs, Recommendation{
					Title:       pendingTitle,
					Author:      pendingAuthor,
					Description: pendingDescription,
					Reasoning:   pendingReasons,
				})
				reset()
			} else {
				// WHY before a complete BOOK/DESCRIPTION pair: discard it.
				pendingReasons = ""
			}
		}
	}
	return recs
}

// splitTitleAuthor splits "Title by Author" on the first case-insensitive
// " by ". Without one, the whole string is the title and the author stays
// empty (the record will never commit).
func splitTitleAuthor(s string) (string, string) {
	lower := strings.ToLower(s)
	idx := strings.Index(lower, " by ")
	if idx < 0 {
		return strings.TrimSpace(s), ""
	}
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+len(" by "):])
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
