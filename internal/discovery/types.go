// Package discovery drives the multi-turn book-discovery dialogue: it
// classifies an open chat message, builds per-turn context from library and
// taste signals, and produces a clarifying question, recommendations, or
// book-detail text.
package discovery

import "booknerd/internal/taste"

// MessageKind tags what a chat message asks for.
type MessageKind string

const (
	// KindNeedsClarification means the message gave nothing to work with.
	KindNeedsClarification MessageKind = "needs_clarification"
	// KindReadyToRecommend means genre/mood/comparison signals were found.
	KindReadyToRecommend MessageKind = "ready_to_recommend"
	// KindTellMeMore means the user wants detail on a specific title.
	KindTellMeMore MessageKind = "tell_me_more"
)

// Criteria captures what was extracted from a recommendation request.
// ComparisonTitle is detected but never populated in this version; the
// field exists so the wire shape is stable when extraction lands.
type Criteria struct {
	Genre           string
	Mood            string
	ComparisonTitle string
	RawRequest      string
}

// Classification is the tagged result of classifying one chat message.
type Classification struct {
	Kind     MessageKind
	Criteria Criteria // set for KindReadyToRecommend
	Title    string   // set for KindTellMeMore; may be empty if unextractable
}

// MaxRecommendations caps every recommendation list, regardless of how many
// records the upstream produced.
const MaxRecommendations = 3

// Response is one dialogue turn's output.
type Response struct {
	Text            string
	Recommendations []taste.Recommendation
	// NeedsUserInput marks that the dialogue still needs an answer from
	// the user before it can recommend.
	NeedsUserInput bool
}
