package resolve

import (
	"testing"

	"booknerd/internal/library"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lib(titles ...string) []library.Book {
	books := make([]library.Book, len(titles))
	for i, t := range titles {
		books[i] = library.Book{ID: t, Title: t}
	}
	return books
}

func TestFindBestMatch_ExactForEveryTitle(t *testing.T) {
	books := lib("Dune", "The Hobbit", "Project Hail Mary", "A Memory Called Empire")
	for _, b := range books {
		got := FindBestMatch(b.Title, books)
		require.NotNil(t, got, "title %q", b.Title)
		assert.Equal(t, b.Title, got.Title)
	}
}

func TestFindBestMatch_CaseInsensitiveAndArticle(t *testing.T) {
	books := lib("The Hobbit", "Dune")

	got := FindBestMatch("the hobbit", books)
	require.NotNil(t, got)
	assert.Equal(t, "The Hobbit", got.Title)

	// Leading article ignored on both sides.
	got = FindBestMatch("hobbit", books)
	require.NotNil(t, got)
	assert.Equal(t, "The Hobbit", got.Title)
}

func TestFindBestMatch_PrefixInLibraryOrder(t *testing.T) {
	books := lib("Project Hail Mary", "Project X")
	got := FindBestMatch("project", books)
	require.NotNil(t, got)
	assert.Equal(t, "Project Hail Mary", got.Title)
}

func TestFindBestMatch_Abbreviation(t *testing.T) {
	books := lib("The Fellowship of the Ring", "Dune")
	got := FindBestMatch("lotr", books)
	require.NotNil(t, got)
	assert.Equal(t, "The Fellowship of the Ring", got.Title)
}

func TestFindBestMatch_FuzzyTieBreakIsLibraryOrder(t *testing.T) {
	// Both titles score identically against the query; the earlier book
	// must win every time.
	books := lib("Red Rising Alpha", "Red Rising Omega")
	for i := 0; i < 10; i++ {
		got := FindBestMatch("rising red", books)
		require.NotNil(t, got)
		assert.Equal(t, "Red Rising Alpha", got.Title)
	}
}

func TestFindBestMatch_Misses(t *testing.T) {
	books := lib("Dune")
	assert.Nil(t, FindBestMatch("completely unrelated words", books))
	assert.Nil(t, FindBestMatch("", books))
	assert.Nil(t, FindBestMatch("dune", nil))
}

func TestFuzzyScore_SelfIsOne(t *testing.T) {
	for _, q := range []string{"dune", "the left hand of darkness", "a"} {
		assert.Equal(t, 1.0, FuzzyScore(q, q), "query %q", q)
	}
}

func TestFuzzyScore_EmptyUnion(t *testing.T) {
	assert.Equal(t, 0.0, FuzzyScore("", ""))
}

func TestFuzzyScore_SubsetBoostCapped(t *testing.T) {
	// Every query word is in the target: Jaccard 2/3 boosted 1.5x caps at 1.0.
	assert.Equal(t, 1.0, FuzzyScore("hail mary", "Project Hail Mary"))
}

func TestDetectMentions(t *testing.T) {
	books := lib("Dune", "The Hobbit")
	text := "loved the ending of @dune, next up @nosuchbook"

	mentions := DetectMentions(text, books)
	require.Len(t, mentions, 1, "unresolved mentions are dropped silently")

	m := mentions[0]
	assert.Equal(t, "@dune", m.Text)
	assert.Equal(t, "Dune", m.Book.Title)
	assert.Equal(t, m.Text, text[m.Start:m.End])
}

func TestReplaceMention(t *testing.T) {
	books := lib("Dune")
	text := "finished @dune last night"
	mentions := DetectMentions(text, books)
	require.Len(t, mentions, 1)

	got := ReplaceMention(text, mentions[0], "Dune")
	assert.Equal(t, "finished Dune last night", got)
}

func TestExtractBookContext(t *testing.T) {
	books := lib("Dune", "The Hobbit")

	cleaned, book := ExtractBookContext("note about @dune being great", books)
	require.NotNil(t, book)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "note about being great", cleaned)

	cleaned, book = ExtractBookContext("no mentions here", books)
	assert.Nil(t, book)
	assert.Equal(t, "no mentions here", cleaned)
}

func TestDetectMentions_RangesValidForSourceText(t *testing.T) {
	books := lib("Dune", "The Hobbit")
	text := "compare @dune with @the hobbit"
	mentions := DetectMentions(text, books)
	require.Len(t, mentions, 2)

	want := []string{"@dune", "@the hobbit"}
	var got []string
	for _, m := range mentions {
		got = append(got, text[m.Start:m.End])
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mention ranges mismatch (-want +got):\n%s", diff)
	}
}
