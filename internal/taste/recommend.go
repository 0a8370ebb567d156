package taste

import (
	"context"
	"fmt"
	"strings"

	"booknerd/internal/llm"
	"booknerd/internal/logging"
)

// Recommendation is one ranked suggestion produced by a recommender or
// parsed from a generative completion.
type Recommendation struct {
	Title       string
	Author      string
	Description string
	Reasoning   string
	CoverURL    string
	Year        int
}

// Recommender produces ranked recommendations seeded by a taste profile.
type Recommender interface {
	Recommend(ctx context.Context, profile *Profile) ([]Recommendation, error)
}

// LLMRecommender asks the generative-text collaborator for recommendations
// and parses them from the line grammar.
type LLMRecommender struct {
	client llm.Client
}

// NewLLMRecommender builds a recommender on the given client.
func NewLLMRecommender(client llm.Client) *LLMRecommender {
	return &LLMRecommender{client: client}
}

const recommenderSystemPrompt = `You are a well-read book recommender. Answer ONLY in this exact format, repeated for each book, with a blank line between entries:

BOOK: <Title> by <Author>
DESCRIPTION: <2-3 sentence description>
WHY: <one sentence on why it fits this reader>`

// Recommend seeds a prompt from the profile and returns the parsed records
// in completion order.
func (r *LLMRecommender) Recommend(ctx context.Context, profile *Profile) ([]Recommendation, error) {
	var sb strings.Builder
	sb.WriteString("Recommend 3 books for a reader")
	if g := profile.TopGenre(); g != "" {
		fmt.Fprintf(&sb, " who loves %s", g)
	}
	if len(profile.FavoriteAuthors) > 0 {
		fmt.Fprintf(&sb, " and has read a lot of %s", strings.Join(profile.FavoriteAuthors, ", "))
	}
	if len(profile.SampleTitles) > 0 {
		fmt.Fprintf(&sb, ". Their library includes: %s", strings.Join(profile.SampleTitles, "; "))
	}
	sb.WriteString(". Do not recommend books already in their library.")

	completion, err := r.client.CompleteWithSystem(ctx, recommenderSystemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	recs := ParseRecommendations(completion)
	logging.Taste("recommender returned %d records", len(recs))
	if len(recs) == 0 {
		return nil, &ParseError{Reason: "no complete entries in completion"}
	}
	return recs, nil
}
