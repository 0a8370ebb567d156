package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"booknerd/internal/library"
	"booknerd/internal/llm"
	"booknerd/internal/logging"
	"booknerd/internal/resolve"
	"booknerd/internal/taste"
)

// Engine runs the discovery dialogue, one turn at a time. Exactly one turn
// may be in flight per instance: the processing flag stays true across the
// whole classify -> context -> respond sequence and callers must treat it as
// an exclusive lock. Concurrent calls are not queued internally and would
// interleave their published state.
type Engine struct {
	provider    taste.Provider
	recommender taste.Recommender
	client      llm.Client
	processing  atomic.Bool
}

// NewEngine wires the engine to its collaborators. client may be nil when
// no generative backend is configured; turns that need it fail with an
// error the caller turns into an apology.
func NewEngine(provider taste.Provider, recommender taste.Recommender, client llm.Client) *Engine {
	return &Engine{provider: provider, recommender: recommender, client: client}
}

// Processing reports whether a turn is in flight.
func (e *Engine) Processing() bool {
	return e.processing.Load()
}

// errNoClient marks turns that need the generative collaborator when none
// is configured.
var errNoClient = errors.New("no generative backend configured")

// HandleMessage runs one dialogue turn. The library snapshot and history
// are read-only inputs; the context built from them lives only for this
// turn. A collaborator failure fails the whole turn.
func (e *Engine) HandleMessage(ctx context.Context, text string,
	books []library.Book, history []library.Turn) (*Response, error) {

	e.processing.Store(true)
	defer e.processing.Store(false)

	timer := logging.StartTimer(logging.CategoryDiscovery, "HandleMessage")
	defer timer.Stop()

	cls := ClassifyMessage(text, books, history)
	logging.Discovery("turn classified as %s", cls.Kind)

	dctx, err := buildContext(ctx, e.provider, books, history)
	if err != nil {
		return nil, err
	}

	switch cls.Kind {
	case KindTellMeMore:
		return e.respondDetail(ctx, cls.Title, books)
	case KindReadyToRecommend:
		return e.respondRecommend(ctx, cls.Criteria, dctx)
	default:
		return respondClarify(dctx), nil
	}
}

// respondClarify asks the question that narrows the search fastest given
// what we know about the reader.
func respondClarify(dctx *Context) *Response {
	text := "Happy to help you find your next read! Are you in the mood for fiction or non-fiction?"
	if dctx.Profile != nil {
		text = fmt.Sprintf("You've been reading a lot of %s. Something fast-paced this time, or more of a slow burn?",
			dctx.Profile.TopGenre())
	}
	return &Response{Text: text, NeedsUserInput: true}
}

func (e *Engine) respondRecommend(ctx context.Context, criteria Criteria, dctx *Context) (*Response, error) {
	if dctx.Profile != nil && e.recommender != nil {
		return e.recommendFromProfile(ctx, dctx.Profile)
	}
	return e.recommendFromPrompt(ctx, criteria, dctx)
}

// recommendFromProfile delegates to the recommendation collaborator seeded
// by the profile.
func (e *Engine) recommendFromProfile(ctx context.Context, profile *taste.Profile) (*Response, error) {
	recs, err := e.recommender.Recommend(ctx, profile)
	if err != nil {
		var parseErr *taste.ParseError
		if errors.As(err, &parseErr) {
			logging.Discovery("recommender reply unparseable: %v", parseErr)
			return fallbackRecommendResponse(), nil
		}
		return nil, err
	}
	recs = capRecommendations(recs)

	text := "Here are a few picks for you:"
	if g := profile.TopGenre(); g != "" {
		text = fmt.Sprintf("Since you love %s, here are a few picks:", g)
	}
	return &Response{Text: text, Recommendations: recs}, nil
}

// recommendFromPrompt is the cold-start path: no profile yet, so the raw
// request plus extracted signals go straight to the generative collaborator.
func (e *Engine) recommendFromPrompt(ctx context.Context, criteria Criteria, dctx *Context) (*Response, error) {
	if e.client == nil {
		return nil, errNoClient
	}

	completion, err := e.client.CompleteWithSystem(ctx, recommendSystemPrompt,
		buildRecommendPrompt(criteria, dctx))
	if err != nil {
		return nil, err
	}

	recs := capRecommendations(taste.ParseRecommendations(completion))
	if len(recs) == 0 {
		logging.Discovery("completion yielded no complete entries")
		return fallbackRecommendResponse(), nil
	}

	return &Response{Text: "Here are a few books you might enjoy:", Recommendations: recs}, nil
}

// respondDetail answers a tell-me-more. Owned books answer from library
// metadata; unknown titles go to the generative collaborator.
func (e *Engine) respondDetail(ctx context.Context, title string, books []library.Book) (*Response, error) {
	if title == "" {
		return &Response{
			Text:           "Which book would you like to hear more about?",
			NeedsUserInput: true,
		}, nil
	}

	if book := resolve.FindBestMatch(title, books); book != nil {
		text := fmt.Sprintf("%s by %s", book.Title, book.Author)
		if book.Genre != "" {
			text += fmt.Sprintf(" (%s)", book.Genre)
		}
		if book.PageCount > 0 {
			text += fmt.Sprintf(". You're %d%% of the way through its %d pages.",
				book.ProgressPercent(), book.PageCount)
		} else {
			text += ". It's in your library."
		}
		return &Response{Text: text}, nil
	}

	if e.client == nil {
		return nil, errNoClient
	}
	completion, err := e.client.Complete(ctx, buildDetailPrompt(title))
	if err != nil {
		return nil, err
	}
	return &Response{Text: completion}, nil
}

func fallbackRecommendResponse() *Response {
	return &Response{
		Text:           "I had trouble coming up with good matches. Could you tell me a bit more about what you're in the mood for?",
		NeedsUserInput: true,
	}
}

func capRecommendations(recs []taste.Recommendation) []taste.Recommendation {
	if len(recs) > MaxRecommendations {
		return recs[:MaxRecommendations]
	}
	return recs
}
