package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"booknerd/internal/library"
	"booknerd/internal/taste"

	"golang.org/x/sync/errgroup"
)

// historyWindow is how many trailing turns the summary keeps.
const historyWindow = 5

// maxRecentTitles caps the recently-opened signal.
const maxRecentTitles = 3

// Context is the per-turn view of the user's reading world. It is rebuilt
// for every turn, never cached and never mutated after construction.
type Context struct {
	Profile        *taste.Profile
	RecentTitles   []string
	HistorySummary string
}

// buildContext assembles the turn context. The taste-profile derivation is
// a suspension point, so it runs alongside the local summarization work;
// a derivation failure fails the whole build.
func buildContext(ctx context.Context, provider taste.Provider,
	books []library.Book, history []library.Turn) (*Context, error) {

	out := &Context{}

	g, gctx := errgroup.WithContext(ctx)
	if provider != nil && len(books) > 0 {
		g.Go(func() error {
			profile, err := provider.Derive(gctx, books)
			if err != nil {
				return fmt.Errorf("taste profile: %w", err)
			}
			out.Profile = profile
			return nil
		})
	}

	out.RecentTitles = recentTitles(books, maxRecentTitles)
	out.HistorySummary = summarizeHistory(history, historyWindow)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// recentTitles returns up to limit titles ordered most-recently-opened
// first. A missing timestamp sorts earliest.
func recentTitles(books []library.Book, limit int) []string {
	sorted := make([]library.Book, len(books))
	copy(sorted, books)
	sort.SliceStable(sorted, func(a, b int) bool {
		ta, tb := sorted[a].LastOpened, sorted[b].LastOpened
		switch {
		case ta == nil:
			return false
		case tb == nil:
			return true
		default:
			return ta.After(*tb)
		}
	})

	var titles []string
	for _, b := range sorted {
		if len(titles) == limit {
			break
		}
		titles = append(titles, b.Title)
	}
	return titles
}

// summarizeHistory renders the last window turns as "role: content" lines.
func summarizeHistory(history []library.Turn, window int) string {
	if len(history) > window {
		history = history[len(history)-window:]
	}
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}
	return strings.Join(lines, "\n")
}
