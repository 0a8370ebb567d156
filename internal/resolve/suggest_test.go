package resolve

import (
	"testing"

	"booknerd/internal/library"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestions_EmptyPartial(t *testing.T) {
	books := lib("Dune", "The Hobbit")
	assert.Empty(t, Suggestions("", books, 5))
	assert.Empty(t, Suggestions("   ", books, 5))
}

func TestSuggestions_PriorityOrder(t *testing.T) {
	books := lib(
		"Hold Still",        // exact prefix of "hold" -> 1.0
		"Lonesome Dove",     // no match
		"The Holdovers",     // word prefix "holdovers" -> 0.8
		"A Household Guide", // substring only -> 0.6
	)

	got := Suggestions("hold", books, 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "Hold Still", got[0].Book.Title)
	assert.Equal(t, 1.0, got[0].Score)

	for _, s := range got {
		assert.NotEqual(t, "Lonesome Dove", s.Book.Title)
	}
}

func TestSuggestions_SubstringScore(t *testing.T) {
	books := lib("Anathem")
	got := Suggestions("nath", books, 5)
	require.Len(t, got, 1)
	assert.Equal(t, 0.6, got[0].Score)
}

func TestSuggestions_FloorDropsWeakMatches(t *testing.T) {
	books := lib("Dune")
	assert.Empty(t, Suggestions("zzz unrelated", books, 5))
}

func TestSuggestions_Limit(t *testing.T) {
	var books []library.Book
	for _, title := range []string{"War A", "War B", "War C", "War D", "War E", "War F", "War G"} {
		books = append(books, library.Book{ID: title, Title: title})
	}
	got := Suggestions("war", books, 5)
	assert.Len(t, got, 5)

	// Default limit applies when the caller passes zero.
	got = Suggestions("war", books, 0)
	assert.Len(t, got, DefaultSuggestionLimit)
}

func TestSuggestions_StableTieBreak(t *testing.T) {
	books := lib("War B", "War A")
	got := Suggestions("war", books, 5)
	require.Len(t, got, 2)
	assert.Equal(t, "War B", got[0].Book.Title, "ties keep library order")
}
