// Package dispatch serializes voice/text commands end to end: classify the
// transcript, run the matching handler against the app context, and publish
// a human-readable response plus a tagged result.
package dispatch

import (
	"regexp"
	"strconv"
	"strings"

	"booknerd/internal/intent"
)

// VoiceKind tags the nine voice intents.
type VoiceKind string

const (
	VoiceAddBook        VoiceKind = "add_book"
	VoiceAddNote        VoiceKind = "add_note"
	VoiceAddQuote       VoiceKind = "add_quote"
	VoiceSearchLibrary  VoiceKind = "search_library"
	VoiceProgressUpdate VoiceKind = "progress_update"
	VoiceProgressCheck  VoiceKind = "progress_check"
	VoiceProgressFinish VoiceKind = "progress_finish"
	VoiceRecommendation VoiceKind = "recommendation"
	VoiceHelp           VoiceKind = "help"
	VoiceUnknown        VoiceKind = "unknown"
)

// VoiceIntent is a classified transcript. Title and Page are set where the
// pattern captured them; Payload carries note/quote/search/add-book text.
type VoiceIntent struct {
	Kind    VoiceKind
	Title   string
	Page    int
	Payload string
}

// Classifier turns a transcript into a voice intent. The dispatcher treats
// it as a black box.
type Classifier interface {
	Classify(transcript string) VoiceIntent
}

// RuleClassifier is the default on-device classifier: ordered regex and
// keyword rules, no network.
type RuleClassifier struct{}

// NewRuleClassifier returns the default classifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

var (
	pageUpdatePattern = regexp.MustCompile(`(?i)(?:i'?m\s+)?(?:on|at)\s+page\s+(\d+)(?:\s+(?:of|in)\s+(.+))?`)
	finishPattern     = regexp.MustCompile(`(?i)^(?:i\s+)?(?:finished|done\s+with)\s+(?:reading\s+)?(.+)$`)
	checkPattern      = regexp.MustCompile(`(?i)(?:how\s+far\s+(?:am\s+i\s+)?(?:in|into|through)|progress\s+(?:on|in|for))\s+(.+)$`)
)

// Classify applies the rules in order; the first hit wins. Anything
// unmatched falls through to the text intent classifier so typed and spoken
// commands agree on the basics.
func (c *RuleClassifier) Classify(transcript string) VoiceIntent {
	raw := strings.TrimSpace(transcript)
	lower := strings.ToLower(raw)
	if lower == "" {
		return VoiceIntent{Kind: VoiceUnknown}
	}

	if m := pageUpdatePattern.FindStringSubmatch(raw); m != nil {
		page, _ := strconv.Atoi(m[1])
		return VoiceIntent{Kind: VoiceProgressUpdate, Page: page, Title: cleanTitle(m[2])}
	}
	if m := checkPattern.FindStringSubmatch(raw); m != nil {
		return VoiceIntent{Kind: VoiceProgressCheck, Title: cleanTitle(m[1])}
	}
	if strings.Contains(lower, "progress") || strings.Contains(lower, "how far") {
		return VoiceIntent{Kind: VoiceProgressCheck}
	}
	if m := finishPattern.FindStringSubmatch(raw); m != nil {
		return VoiceIntent{Kind: VoiceProgressFinish, Title: cleanTitle(m[1])}
	}
	if strings.Contains(lower, "recommend") || strings.Contains(lower, "suggest") ||
		strings.Contains(lower, "what should i read") {
		return VoiceIntent{Kind: VoiceRecommendation, Payload: raw}
	}
	if lower == "help" || strings.HasPrefix(lower, "what can you") {
		return VoiceIntent{Kind: VoiceHelp}
	}

	switch it := intent.Classify(raw); it.Kind {
	case intent.KindAddBook:
		return VoiceIntent{Kind: VoiceAddBook, Payload: it.Payload}
	case intent.KindCreateQuote:
		return VoiceIntent{Kind: VoiceAddQuote, Payload: it.Payload}
	case intent.KindCreateNote:
		return VoiceIntent{Kind: VoiceAddNote, Payload: it.Payload}
	case intent.KindSearchLibrary:
		return VoiceIntent{Kind: VoiceSearchLibrary, Payload: it.Payload}
	default:
		return VoiceIntent{Kind: VoiceUnknown, Payload: raw}
	}
}

// cleanTitle trims the noise speech transcription leaves around a title,
// preserving the title's own casing.
func cleanTitle(s string) string {
	s = strings.Trim(strings.TrimSpace(s), `"'.,!?`)
	if strings.HasSuffix(strings.ToLower(s), " please") {
		s = s[:len(s)-len(" please")]
	}
	return strings.TrimSpace(s)
}
