// Package taste derives preference signals from a library snapshot and
// turns them into ranked book recommendations.
package taste

import (
	"context"
	"sort"
	"strings"

	"booknerd/internal/library"
	"booknerd/internal/logging"
)

// Profile is the aggregated preference signal for one user.
type Profile struct {
	TopGenres       []string
	FavoriteAuthors []string
	SampleTitles    []string
}

// TopGenre returns the strongest genre signal, or "" when none exists.
func (p *Profile) TopGenre() string {
	if p == nil || len(p.TopGenres) == 0 {
		return ""
	}
	return p.TopGenres[0]
}

// Provider derives a taste profile from books. A nil profile with a nil
// error means the signal was too weak to say anything.
type Provider interface {
	Derive(ctx context.Context, books []library.Book) (*Profile, error)
}

// LibraryProvider derives a profile by counting genre and author frequency
// in the library itself. No network calls.
type LibraryProvider struct {
	// MinBooks is the minimum library size before a profile is derived.
	MinBooks int
}

// NewLibraryProvider returns a provider with the default threshold.
func NewLibraryProvider() *LibraryProvider {
	return &LibraryProvider{MinBooks: 2}
}

// Derive counts genres and authors and keeps the top three of each.
func (p *LibraryProvider) Derive(ctx context.Context, books []library.Book) (*Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(books) < p.MinBooks {
		logging.Taste("library too small for a profile (%d books)", len(books))
		return nil, nil
	}

	genreCount := make(map[string]int)
	authorCount := make(map[string]int)
	var titles []string
	for _, b := range books {
		if g := strings.ToLower(strings.TrimSpace(b.Genre)); g != "" {
			genreCount[g]++
		}
		if a := strings.TrimSpace(b.Author); a != "" {
			authorCount[a]++
		}
		if len(titles) < 5 {
			titles = append(titles, b.Title)
		}
	}

	if len(genreCount) == 0 && len(authorCount) == 0 {
		return nil, nil
	}

	profile := &Profile{
		TopGenres:       topKeys(genreCount, 3),
		FavoriteAuthors: topKeys(authorCount, 3),
		SampleTitles:    titles,
	}
	logging.Taste("derived profile: genres=%v authors=%v", profile.TopGenres, profile.FavoriteAuthors)
	return profile, nil
}

// topKeys returns up to n keys ordered by descending count, ties broken
// alphabetically so the result is deterministic.
func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if counts[keys[a]] != counts[keys[b]] {
			return counts[keys[a]] > counts[keys[b]]
		}
		return keys[a] < keys[b]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
