package dispatch

import (
	"testing"

	"booknerd/internal/library"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeApp is an in-memory AppContext.
type fakeApp struct {
	books   []library.Book
	notes   []library.Note
	quotes  []library.Quote
	signals []library.Signal
	err     error
}

func (f *fakeApp) Books() ([]library.Book, error) { return f.books, f.err }
func (f *fakeApp) AddBook(b library.Book) error {
	f.books = append(f.books, b)
	return f.err
}
func (f *fakeApp) UpdateProgress(bookID string, page int) error {
	for i := range f.books {
		if f.books[i].ID == bookID {
			f.books[i].CurrentPage = page
			return f.err
		}
	}
	return library.NewNotFoundError("book", bookID)
}
func (f *fakeApp) InsertNote(n library.Note) error {
	f.notes = append(f.notes, n)
	return f.err
}
func (f *fakeApp) InsertQuote(q library.Quote) error {
	f.quotes = append(f.quotes, q)
	return f.err
}
func (f *fakeApp) PostSignal(s library.Signal) {
	f.signals = append(f.signals, s)
}

func newTestDispatcher(app *fakeApp) *Dispatcher {
	return NewDispatcher(NewRuleClassifier(), app)
}

func book(id, title string, current, total int) library.Book {
	return library.Book{ID: id, Title: title, CurrentPage: current, PageCount: total}
}

func TestDispatch_ProgressUpdateNoTitle(t *testing.T) {
	d := newTestDispatcher(&fakeApp{})

	result := d.Dispatch("I'm on page 150")
	assert.Equal(t, ResultError, result.Kind)
	assert.Equal(t, "Book not specified", result.Message)
	assert.NotEmpty(t, d.ResponseText(), "failures still publish a response")
}

func TestDispatch_ProgressUpdateBookNotFound(t *testing.T) {
	app := &fakeApp{books: []library.Book{book("1", "Dune", 0, 300)}}
	d := newTestDispatcher(app)

	result := d.Dispatch("I'm on page 150 in Hyperion")
	assert.Equal(t, ResultError, result.Kind)
	assert.Equal(t, "Book not found", result.Message)
	assert.Contains(t, d.ResponseText(), "Hyperion")
}

func TestDispatch_ProgressUpdateReportsPercent(t *testing.T) {
	app := &fakeApp{books: []library.Book{book("1", "Dune", 0, 300)}}
	d := newTestDispatcher(app)

	result := d.Dispatch("I'm on page 150 in Dune")
	assert.Equal(t, ResultSuccess, result.Kind)
	assert.Contains(t, d.ResponseText(), "50%")
	assert.Equal(t, 150, app.books[0].CurrentPage)
}

func TestDispatch_ProgressUpdateSubstringMatch(t *testing.T) {
	app := &fakeApp{books: []library.Book{book("1", "The Name of the Wind", 0, 662)}}
	d := newTestDispatcher(app)

	result := d.Dispatch("I'm on page 331 in name of the wind")
	assert.Equal(t, ResultSuccess, result.Kind)
	assert.Equal(t, 331, app.books[0].CurrentPage)
}

func TestDispatch_ProgressCheckListsUpToThree(t *testing.T) {
	app := &fakeApp{books: []library.Book{
		book("1", "A", 10, 100),
		book("2", "B", 200, 200), // finished, excluded
		book("3", "C", 30, 100),
		book("4", "D", 40, 100),
		book("5", "E", 50, 100),
	}}
	d := newTestDispatcher(app)

	result := d.Dispatch("what's my progress")
	require.Equal(t, ResultSuccess, result.Kind)
	text := d.ResponseText()
	assert.Contains(t, text, "A (10%)")
	assert.Contains(t, text, "C (30%)")
	assert.Contains(t, text, "D (40%)")
	assert.NotContains(t, text, "E (50%)", "capped at three books")
	assert.NotContains(t, text, "B (100%)")
}

func TestDispatch_ProgressCheckSingleTitle(t *testing.T) {
	app := &fakeApp{books: []library.Book{book("1", "Dune", 75, 300)}}
	d := newTestDispatcher(app)

	result := d.Dispatch("how far am I in Dune")
	assert.Equal(t, ResultSuccess, result.Kind)
	assert.Contains(t, d.ResponseText(), "25%")
}

func TestDispatch_FinishSetsPageToTotal(t *testing.T) {
	app := &fakeApp{books: []library.Book{book("1", "Dune", 200, 300)}}
	d := newTestDispatcher(app)

	result := d.Dispatch("I finished Dune")
	assert.Equal(t, ResultSuccess, result.Kind)
	assert.Equal(t, 300, app.books[0].CurrentPage)
	assert.Contains(t, d.ResponseText(), "Congratulations")
}

func TestDispatch_AddBookInsertsAndResponds(t *testing.T) {
	app := &fakeApp{}
	d := newTestDispatcher(app)

	result := d.Dispatch("add Dune by Frank Herbert")
	assert.Equal(t, ResultSuccess, result.Kind)
	require.Len(t, app.books, 1)
	assert.Equal(t, "Dune", app.books[0].Title)
	assert.Equal(t, "Frank Herbert", app.books[0].Author)
}

func TestDispatch_AddDuplicateNeedsConfirmation(t *testing.T) {
	app := &fakeApp{books: []library.Book{book("1", "Dune", 0, 300)}}
	d := newTestDispatcher(app)

	result := d.Dispatch("add Dune by Frank Herbert")
	require.Equal(t, ResultNeedsConfirmation, result.Kind)
	assert.Contains(t, result.Description, "already in your library")
	require.NotNil(t, result.Confirm)
	assert.Len(t, app.books, 1, "nothing inserted before confirmation")

	confirmed := result.Confirm()
	assert.Equal(t, ResultSuccess, confirmed.Kind)
	assert.Len(t, app.books, 2)
}

func TestDispatch_NoteWithMentionAttachesBook(t *testing.T) {
	app := &fakeApp{books: []library.Book{book("7", "Dune", 0, 300)}}
	d := newTestDispatcher(app)

	result := d.Dispatch("note: @dune has great pacing")
	assert.Equal(t, ResultSuccess, result.Kind)
	require.Len(t, app.notes, 1)
	assert.Equal(t, "7", app.notes[0].BookID)
	assert.NotContains(t, app.notes[0].Text, "@dune")
}

func TestDispatch_QuoteExtractsPage(t *testing.T) {
	app := &fakeApp{}
	d := newTestDispatcher(app)

	result := d.Dispatch(`quote: "Fear is the mind-killer" page 12`)
	assert.Equal(t, ResultSuccess, result.Kind)
	require.Len(t, app.quotes, 1)
	assert.Equal(t, 12, app.quotes[0].Page)
}

func TestDispatch_SearchPostsSignal(t *testing.T) {
	app := &fakeApp{}
	d := newTestDispatcher(app)

	result := d.Dispatch("books about dragons")
	assert.Equal(t, ResultSuccess, result.Kind)
	require.Len(t, app.signals, 1)
	assert.Equal(t, library.SignalSearch, app.signals[0].Kind)
	assert.Equal(t, "books about dragons", app.signals[0].Payload)
}

func TestDispatch_RecommendationNavigates(t *testing.T) {
	app := &fakeApp{}
	d := newTestDispatcher(app)

	result := d.Dispatch("recommend me something")
	assert.Equal(t, ResultSuccess, result.Kind)
	require.Len(t, app.signals, 1)
	assert.Equal(t, library.SignalNavigate, app.signals[0].Kind)
}

func TestDispatch_UnknownStillResponds(t *testing.T) {
	d := newTestDispatcher(&fakeApp{})

	result := d.Dispatch("create something new")
	assert.Equal(t, ResultError, result.Kind)
	assert.Contains(t, d.ResponseText(), "help")
}

func TestDispatch_ReplacesPriorState(t *testing.T) {
	app := &fakeApp{books: []library.Book{book("1", "Dune", 0, 300)}}
	d := newTestDispatcher(app)

	d.Dispatch("I'm on page 150 in Dune")
	first := d.ResponseText()

	d.Dispatch("help")
	assert.NotEqual(t, first, d.ResponseText())
	assert.Equal(t, ResultSuccess, d.LastResult().Kind)
	assert.False(t, d.Processing())
}
