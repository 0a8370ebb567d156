package dispatch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"booknerd/internal/library"
	"booknerd/internal/logging"
	"booknerd/internal/resolve"
)

// AppContext is the side-effect collaborator handlers execute against.
// *library.Store satisfies it.
type AppContext interface {
	Books() ([]library.Book, error)
	AddBook(b library.Book) error
	UpdateProgress(bookID string, page int) error
	InsertNote(n library.Note) error
	InsertQuote(q library.Quote) error
	PostSignal(s library.Signal)
}

// Dispatcher runs one command at a time. Each Dispatch call replaces all
// prior response state; there is no internal history. The processing flag
// stays true for the duration of a call and callers must not overlap calls
// on one instance.
type Dispatcher struct {
	classifier Classifier
	app        AppContext

	processing atomic.Bool
	mu         sync.Mutex // serializes handlers and guards response state

	responseText string
	lastResult   ActionResult
}

// NewDispatcher wires the dispatcher to its collaborators.
func NewDispatcher(classifier Classifier, app AppContext) *Dispatcher {
	return &Dispatcher{classifier: classifier, app: app}
}

// Processing reports whether a command is in flight.
func (d *Dispatcher) Processing() bool {
	return d.processing.Load()
}

// ResponseText returns the human-readable response of the last command.
func (d *Dispatcher) ResponseText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.responseText
}

// LastResult returns the tagged result of the last command.
func (d *Dispatcher) LastResult() ActionResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastResult
}

// Dispatch classifies the transcript and executes the matching handler.
// Every handled path publishes a response string, even on failure.
func (d *Dispatcher) Dispatch(transcript string) ActionResult {
	d.processing.Store(true)
	defer d.processing.Store(false)

	d.mu.Lock()
	defer d.mu.Unlock()

	vi := d.classifier.Classify(transcript)
	logging.Dispatch("transcript %q classified as %s", transcript, vi.Kind)

	var result ActionResult
	switch vi.Kind {
	case VoiceAddBook:
		result = d.handleAddBook(vi)
	case VoiceAddNote:
		result = d.handleAddNote(vi)
	case VoiceAddQuote:
		result = d.handleAddQuote(vi)
	case VoiceSearchLibrary:
		result = d.handleSearch(vi)
	case VoiceProgressUpdate:
		result = d.handleProgressUpdate(vi)
	case VoiceProgressCheck:
		result = d.handleProgressCheck(vi)
	case VoiceProgressFinish:
		result = d.handleProgressFinish(vi)
	case VoiceRecommendation:
		result = d.handleRecommendation()
	case VoiceHelp:
		result = d.handleHelp()
	default:
		result = d.setResponse("Sorry, I didn't catch that. Say \"help\" to hear what I can do.",
			Failure("Unknown command"))
	}

	d.lastResult = result
	return result
}

// setResponse publishes the response text alongside the result.
func (d *Dispatcher) setResponse(text string, result ActionResult) ActionResult {
	d.responseText = text
	return result
}

// findBook resolves a spoken title with exact-then-substring matching only.
// No fuzzy stage here: progress handlers mutate state, and writing to a
// fuzzily guessed book is worse than a miss.
func findBook(books []library.Book, title string) *library.Book {
	q := strings.ToLower(strings.TrimSpace(title))
	if q == "" {
		return nil
	}
	for i := range books {
		if strings.ToLower(books[i].Title) == q {
			return &books[i]
		}
	}
	for i := range books {
		if strings.Contains(strings.ToLower(books[i].Title), q) {
			return &books[i]
		}
	}
	return nil
}

func (d *Dispatcher) handleAddBook(vi VoiceIntent) ActionResult {
	query := strings.TrimSpace(vi.Payload)
	if query == "" {
		return d.setResponse("What book would you like to add?", Failure("Book not specified"))
	}

	title, author := splitQueryTitleAuthor(query)
	books, err := d.app.Books()
	if err != nil {
		return d.setResponse("I couldn't reach your library just now.", Failure(err.Error()))
	}

	insert := func() ActionResult {
		b := library.NewBook(title, author)
		if err := d.app.AddBook(b); err != nil {
			return d.setResponse("I couldn't save that book.", Failure(err.Error()))
		}
		return d.setResponse(fmt.Sprintf("Added %s to your library.", title),
			Success("Added %s", title))
	}

	if existing := findBook(books, title); existing != nil {
		desc := fmt.Sprintf("%s is already in your library. Add it again anyway?", existing.Title)
		// The closure runs after Dispatch has returned, so it takes the
		// lock itself before touching response state.
		confirm := func() ActionResult {
			d.mu.Lock()
			defer d.mu.Unlock()
			result := insert()
			d.lastResult = result
			return result
		}
		return d.setResponse(desc, NeedsConfirmation(desc, confirm))
	}
	return insert()
}

func (d *Dispatcher) handleAddNote(vi VoiceIntent) ActionResult {
	text := strings.TrimSpace(vi.Payload)
	if text == "" {
		return d.setResponse("What would you like the note to say?", Failure("Note text missing"))
	}

	bookID := ""
	if books, err := d.app.Books(); err == nil {
		if cleaned, book := resolve.ExtractBookContext(text, books); book != nil {
			text, bookID = cleaned, book.ID
		}
	}

	if err := d.app.InsertNote(library.NewNote(bookID, text)); err != nil {
		return d.setResponse("I couldn't save that note.", Failure(err.Error()))
	}
	return d.setResponse("Got it, note saved.", Success("Note saved"))
}

var quotePagePattern = regexp.MustCompile(`(?i)page\s+(\d+)`)

func (d *Dispatcher) handleAddQuote(vi VoiceIntent) ActionResult {
	text := strings.TrimSpace(vi.Payload)
	if text == "" {
		return d.setResponse("What's the quote?", Failure("Quote text missing"))
	}

	page := 0
	if m := quotePagePattern.FindStringSubmatch(text); m != nil {
		page, _ = strconv.Atoi(m[1])
	}

	bookID := ""
	if books, err := d.app.Books(); err == nil {
		if cleaned, book := resolve.ExtractBookContext(text, books); book != nil {
			text, bookID = cleaned, book.ID
		}
	}

	if err := d.app.InsertQuote(library.NewQuote(bookID, text, page)); err != nil {
		return d.setResponse("I couldn't save that quote.", Failure(err.Error()))
	}
	return d.setResponse("Quote saved.", Success("Quote saved"))
}

func (d *Dispatcher) handleSearch(vi VoiceIntent) ActionResult {
	query := strings.TrimSpace(vi.Payload)
	d.app.PostSignal(library.Signal{Kind: library.SignalSearch, Payload: query})
	return d.setResponse(fmt.Sprintf("Searching your library for \"%s\".", query),
		Success("Search posted"))
}

func (d *Dispatcher) handleProgressUpdate(vi VoiceIntent) ActionResult {
	if vi.Title == "" {
		return d.setResponse("Which book are you reading?", Failure("Book not specified"))
	}

	books, err := d.app.Books()
	if err != nil {
		return d.setResponse("I couldn't reach your library just now.", Failure(err.Error()))
	}
	book := findBook(books, vi.Title)
	if book == nil {
		return d.setResponse(fmt.Sprintf("I couldn't find \"%s\" in your library.", vi.Title),
			Failure("Book not found"))
	}

	if err := d.app.UpdateProgress(book.ID, vi.Page); err != nil {
		return d.setResponse("I couldn't update your progress.", Failure(err.Error()))
	}

	updated := *book
	updated.CurrentPage = vi.Page
	return d.setResponse(
		fmt.Sprintf("You're %d%% of the way through %s.", updated.ProgressPercent(), book.Title),
		Success("Progress updated"))
}

func (d *Dispatcher) handleProgressCheck(vi VoiceIntent) ActionResult {
	books, err := d.app.Books()
	if err != nil {
		return d.setResponse("I couldn't reach your library just now.", Failure(err.Error()))
	}

	if vi.Title != "" {
		book := findBook(books, vi.Title)
		if book == nil {
			return d.setResponse(fmt.Sprintf("I couldn't find \"%s\" in your library.", vi.Title),
				Failure("Book not found"))
		}
		return d.setResponse(
			fmt.Sprintf("You're %d%% of the way through %s.", book.ProgressPercent(), book.Title),
			Success("Progress reported"))
	}

	var lines []string
	for _, b := range books {
		if !b.InProgress() {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s (%d%%)", b.Title, b.ProgressPercent()))
		if len(lines) == 3 {
			break
		}
	}
	if len(lines) == 0 {
		return d.setResponse("You don't have any books in progress.", Success("No books in progress"))
	}
	return d.setResponse("You're currently reading "+strings.Join(lines, ", ")+".",
		Success("Progress reported"))
}

func (d *Dispatcher) handleProgressFinish(vi VoiceIntent) ActionResult {
	if vi.Title == "" {
		return d.setResponse("Which book did you finish?", Failure("Book not specified"))
	}

	books, err := d.app.Books()
	if err != nil {
		return d.setResponse("I couldn't reach your library just now.", Failure(err.Error()))
	}
	book := findBook(books, vi.Title)
	if book == nil {
		return d.setResponse(fmt.Sprintf("I couldn't find \"%s\" in your library.", vi.Title),
			Failure("Book not found"))
	}

	if err := d.app.UpdateProgress(book.ID, book.PageCount); err != nil {
		return d.setResponse("I couldn't update your progress.", Failure(err.Error()))
	}
	return d.setResponse(fmt.Sprintf("Congratulations on finishing %s!", book.Title),
		Success("Book finished"))
}

func (d *Dispatcher) handleRecommendation() ActionResult {
	d.app.PostSignal(library.Signal{Kind: library.SignalNavigate, Payload: "discovery"})
	return d.setResponse("Let's find your next read. Opening discovery chat.",
		Success("Discovery opened"))
}

func (d *Dispatcher) handleHelp() ActionResult {
	return d.setResponse(
		"You can say things like: \"add Dune by Frank Herbert\", \"I'm on page 150 in Dune\", "+
			"\"how far am I in Dune\", \"I finished Dune\", \"quote: ...\", \"note: ...\", "+
			"or ask me to recommend something.",
		Success("Help shown"))
}

// splitQueryTitleAuthor splits an add-book query on the first
// case-insensitive " by ".
func splitQueryTitleAuthor(query string) (string, string) {
	lower := strings.ToLower(query)
	if idx := strings.Index(lower, " by "); idx >= 0 {
		return strings.TrimSpace(query[:idx]), strings.TrimSpace(query[idx+len(" by "):])
	}
	return query, ""
}
