package discovery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"booknerd/internal/library"
	"booknerd/internal/taste"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecommender struct {
	recs []taste.Recommendation
	err  error
}

func (s *stubRecommender) Recommend(ctx context.Context, profile *taste.Profile) ([]taste.Recommendation, error) {
	return s.recs, s.err
}

type stubLLM struct {
	completion string
	err        error
	lastPrompt string
}

func (s *stubLLM) Complete(ctx context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	return s.completion, s.err
}

func (s *stubLLM) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	s.lastPrompt = user
	return s.completion, s.err
}

func rec(title string) taste.Recommendation {
	return taste.Recommendation{Title: title, Author: "A", Description: "D", Reasoning: "R"}
}

func TestHandleMessage_ClarifiesWithoutProfile(t *testing.T) {
	engine := NewEngine(&stubProvider{}, &stubRecommender{}, nil)

	resp, err := engine.HandleMessage(context.Background(), "hi", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "fiction or non-fiction")
	assert.True(t, resp.NeedsUserInput)
	assert.Empty(t, resp.Recommendations)
}

func TestHandleMessage_ClarifiesWithProfileMentionsGenre(t *testing.T) {
	provider := &stubProvider{profile: &taste.Profile{TopGenres: []string{"sci-fi"}}}
	engine := NewEngine(provider, &stubRecommender{}, nil)
	books := []library.Book{{Title: "Dune"}}

	resp, err := engine.HandleMessage(context.Background(), "hello", books, nil)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "sci-fi")
	assert.True(t, resp.NeedsUserInput)
}

func TestHandleMessage_RecommendsFromProfile(t *testing.T) {
	provider := &stubProvider{profile: &taste.Profile{TopGenres: []string{"sci-fi"}}}
	recommender := &stubRecommender{recs: []taste.Recommendation{
		rec("One"), rec("Two"), rec("Three"), rec("Four"), rec("Five"),
	}}
	engine := NewEngine(provider, recommender, nil)
	books := []library.Book{{Title: "Dune"}}

	resp, err := engine.HandleMessage(context.Background(), "something fast-paced", books, nil)
	require.NoError(t, err)
	assert.False(t, resp.NeedsUserInput)
	assert.Len(t, resp.Recommendations, MaxRecommendations, "capped to 3 regardless of upstream size")
	assert.Contains(t, resp.Text, "sci-fi")
}

func TestHandleMessage_RecommendsFromPromptWithoutProfile(t *testing.T) {
	client := &stubLLM{completion: "BOOK: Hyperion by Dan Simmons\nDESCRIPTION: Pilgrims.\nWHY: Sci-fi."}
	engine := NewEngine(&stubProvider{}, &stubRecommender{}, client)

	resp, err := engine.HandleMessage(context.Background(), "something fast-paced", nil, nil)
	require.NoError(t, err)
	assert.False(t, resp.NeedsUserInput)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "Hyperion", resp.Recommendations[0].Title)
	assert.Contains(t, client.lastPrompt, "fast-paced", "prompt embeds the extracted mood")
	assert.Contains(t, client.lastPrompt, "something fast-paced", "prompt embeds the raw request")
}

func TestHandleMessage_UnparseableCompletionFallsBack(t *testing.T) {
	client := &stubLLM{completion: "no structured entries here"}
	engine := NewEngine(&stubProvider{}, &stubRecommender{}, client)

	resp, err := engine.HandleMessage(context.Background(), "a fun fantasy", nil, nil)
	require.NoError(t, err, "a malformed completion is not a turn failure")
	assert.Empty(t, resp.Recommendations)
	assert.True(t, resp.NeedsUserInput)
}

func TestHandleMessage_DownstreamFailurePropagates(t *testing.T) {
	client := &stubLLM{err: errors.New("backend down")}
	engine := NewEngine(&stubProvider{}, &stubRecommender{}, client)

	_, err := engine.HandleMessage(context.Background(), "a fun fantasy", nil, nil)
	require.Error(t, err)
}

func TestHandleMessage_TellMeMoreAnswersFromLibrary(t *testing.T) {
	engine := NewEngine(&stubProvider{}, &stubRecommender{}, nil)
	books := []library.Book{{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "fantasy", CurrentPage: 150, PageCount: 300}}

	resp, err := engine.HandleMessage(context.Background(), "tell me more about the hobbit", books, nil)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "J.R.R. Tolkien")
	assert.Contains(t, resp.Text, "50%")
	assert.False(t, resp.NeedsUserInput)
}

func TestHandleMessage_TellMeMoreUnknownTitleAsksLLM(t *testing.T) {
	client := &stubLLM{completion: "A strange house with infinite halls."}
	engine := NewEngine(&stubProvider{}, &stubRecommender{}, client)

	resp, err := engine.HandleMessage(context.Background(), "tell me more about piranesi", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "A strange house with infinite halls.", resp.Text)
	assert.True(t, strings.Contains(client.lastPrompt, "piranesi"))
}

func TestHandleMessage_TellMeMoreWithoutTitleAsksWhich(t *testing.T) {
	engine := NewEngine(&stubProvider{}, &stubRecommender{}, nil)

	resp, err := engine.HandleMessage(context.Background(), "tell me more", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "Which book")
	assert.True(t, resp.NeedsUserInput)
}

func TestHandleMessage_ProcessingFlagClears(t *testing.T) {
	engine := NewEngine(&stubProvider{}, &stubRecommender{}, nil)

	_, err := engine.HandleMessage(context.Background(), "hi", nil, nil)
	require.NoError(t, err)
	assert.False(t, engine.Processing())

	// Even a failing turn clears the flag.
	engineFail := NewEngine(&stubProvider{err: errors.New("down")}, &stubRecommender{}, nil)
	_, err = engineFail.HandleMessage(context.Background(), "hi", []library.Book{{Title: "Dune"}}, nil)
	require.Error(t, err)
	assert.False(t, engineFail.Processing())
}
