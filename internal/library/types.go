// Package library holds the book/note/quote data model and the SQLite-backed
// store behind the app-context collaborator. Everything above this package
// treats a library snapshot as read-only; mutations go through the Store.
package library

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Book is one library entry. CurrentPage and PageCount drive reading
// progress; LastOpened orders the "recently opened" signal used by discovery.
type Book struct {
	ID          string
	Title       string
	Author      string
	Genre       string
	CoverURL    string
	CurrentPage int
	PageCount   int
	LastOpened  *time.Time
	AddedAt     time.Time
}

// NewBook creates a book with a fresh ID and creation timestamp.
func NewBook(title, author string) Book {
	return Book{
		ID:      uuid.NewString(),
		Title:   title,
		Author:  author,
		AddedAt: time.Now(),
	}
}

// ProgressPercent returns reading progress as a rounded whole percent.
// Books without a page count report 0.
func (b Book) ProgressPercent() int {
	if b.PageCount <= 0 {
		return 0
	}
	return int(math.Round(float64(b.CurrentPage) / float64(b.PageCount) * 100))
}

// InProgress reports whether the book has been started but not finished.
func (b Book) InProgress() bool {
	return b.CurrentPage > 0 && (b.PageCount == 0 || b.CurrentPage < b.PageCount)
}

// Note is a free-form thought, optionally attached to a book.
type Note struct {
	ID        string
	BookID    string
	Text      string
	CreatedAt time.Time
}

// NewNote creates a note with a fresh ID.
func NewNote(bookID, text string) Note {
	return Note{ID: uuid.NewString(), BookID: bookID, Text: text, CreatedAt: time.Now()}
}

// Quote is a saved passage, optionally attached to a book and page.
type Quote struct {
	ID        string
	BookID    string
	Text      string
	Page      int
	CreatedAt time.Time
}

// NewQuote creates a quote with a fresh ID.
func NewQuote(bookID, text string, page int) Quote {
	return Quote{ID: uuid.NewString(), BookID: bookID, Text: text, Page: page, CreatedAt: time.Now()}
}

// Turn is one prior conversation exchange supplied by the caller.
// Role is "user" or "assistant".
type Turn struct {
	Role    string
	Content string
}

// SignalKind tags a navigation/search signal posted for the presentation layer.
type SignalKind string

const (
	SignalNavigate SignalKind = "navigate"
	SignalSearch   SignalKind = "search"
)

// Signal is a fire-and-forget notification to the (external) UI layer,
// e.g. "open search with this query".
type Signal struct {
	Kind    SignalKind
	Payload string
}
