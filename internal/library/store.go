package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"booknerd/internal/logging"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed persistence layer for books, notes and quotes.
// It also carries the navigation/search signal channel consumed by the
// presentation layer.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	dbPath  string
	signals chan Signal
}

// NewStore initializes the SQLite database at the given path.
func NewStore(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryLibrary, "NewStore")
	defer timer.Stop()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, dbPath: path, signals: make(chan Signal, 16)}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Library("Store initialized at %s", path)
	return s, nil
}

// initialize creates the required tables.
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS books (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL DEFAULT '',
		genre TEXT NOT NULL DEFAULT '',
		cover_url TEXT NOT NULL DEFAULT '',
		current_page INTEGER NOT NULL DEFAULT 0,
		page_count INTEGER NOT NULL DEFAULT 0,
		last_opened INTEGER,
		added_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		book_id TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS quotes (
		id TEXT PRIMARY KEY,
		book_id TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL,
		page INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_books_last_opened ON books(last_opened);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Books returns all books ordered by insertion time. This is the library
// snapshot handed to the classifier, resolver and discovery engine.
func (s *Store) Books() ([]Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, title, author, genre, cover_url,
		current_page, page_count, last_opened, added_at FROM books ORDER BY added_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		var lastOpened sql.NullInt64
		var addedAt int64
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.CoverURL,
			&b.CurrentPage, &b.PageCount, &lastOpened, &addedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		if lastOpened.Valid {
			t := time.Unix(lastOpened.Int64, 0)
			b.LastOpened = &t
		}
		b.AddedAt = time.Unix(addedAt, 0)
		books = append(books, b)
	}
	return books, rows.Err()
}

// AddBook inserts a new book. The title is required.
func (s *Store) AddBook(b Book) error {
	if strings.TrimSpace(b.Title) == "" {
		return NewValidationError("title", "is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var lastOpened interface{}
	if b.LastOpened != nil {
		lastOpened = b.LastOpened.Unix()
	}
	_, err := s.db.Exec(`INSERT INTO books
		(id, title, author, genre, cover_url, current_page, page_count, last_opened, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.Author, b.Genre, b.CoverURL,
		b.CurrentPage, b.PageCount, lastOpened, b.AddedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	logging.Library("Added book %q by %q", b.Title, b.Author)
	return nil
}

// UpdateProgress writes the current page for a book and stamps last_opened.
func (s *Store) UpdateProgress(bookID string, page int) error {
	if page < 0 {
		return NewValidationError("page", "must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE books SET current_page = ?, last_opened = ? WHERE id = ?`,
		page, time.Now().Unix(), bookID)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return NewNotFoundError("book", bookID)
	}
	logging.LibraryDebug("Progress for %s -> page %d", bookID, page)
	return nil
}

// SetLastOpened stamps a book as just opened.
func (s *Store) SetLastOpened(bookID string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE books SET last_opened = ? WHERE id = ?`, t.Unix(), bookID)
	if err != nil {
		return fmt.Errorf("failed to set last_opened: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return NewNotFoundError("book", bookID)
	}
	return nil
}

// InsertNote persists a note.
func (s *Store) InsertNote(n Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO notes (id, book_id, text, created_at) VALUES (?, ?, ?, ?)`,
		n.ID, n.BookID, n.Text, n.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// InsertQuote persists a quote.
func (s *Store) InsertQuote(q Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO quotes (id, book_id, text, page, created_at) VALUES (?, ?, ?, ?, ?)`,
		q.ID, q.BookID, q.Text, q.Page, q.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

// PostSignal publishes a navigation/search signal for the UI layer.
// Non-blocking: if nothing is draining the channel the oldest signal is
// dropped rather than stalling a command handler.
func (s *Store) PostSignal(sig Signal) {
	for {
		select {
		case s.signals <- sig:
			return
		default:
			select {
			case <-s.signals:
			default:
			}
		}
	}
}

// Signals exposes the signal channel for the presentation layer to drain.
func (s *Store) Signals() <-chan Signal {
	return s.signals
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
