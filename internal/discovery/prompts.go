package discovery

import (
	"fmt"
	"strings"
)

const recommendSystemPrompt = `You are a thoughtful book recommender inside a reading companion app. Answer ONLY in this exact format, repeated for each book, with a blank line between entries:

BOOK: <Title> by <Author>
DESCRIPTION: <2-3 sentence description>
WHY: <one sentence on why it fits this request>`

// buildRecommendPrompt assembles the no-profile recommendation prompt,
// embedding the raw request plus whatever signals the turn produced.
func buildRecommendPrompt(criteria Criteria, dctx *Context) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "A reader asked: %q\n", criteria.RawRequest)
	if criteria.Genre != "" {
		fmt.Fprintf(&sb, "They want the genre: %s\n", criteria.Genre)
	}
	if criteria.Mood != "" {
		fmt.Fprintf(&sb, "They want something %s\n", criteria.Mood)
	}
	if len(dctx.RecentTitles) > 0 {
		fmt.Fprintf(&sb, "Recently they have been reading: %s\n", strings.Join(dctx.RecentTitles, "; "))
	}
	if dctx.HistorySummary != "" {
		fmt.Fprintf(&sb, "Conversation so far:\n%s\n", dctx.HistorySummary)
	}
	sb.WriteString("Recommend 3 books.")

	return sb.String()
}

// buildDetailPrompt asks for a short description of one title.
func buildDetailPrompt(title string) string {
	return fmt.Sprintf("In 2-3 sentences, tell a reader what %q is about and what makes it worth reading. Plain prose, no lists.", title)
}
