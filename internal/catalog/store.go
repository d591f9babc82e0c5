// Package catalog persists canonical book records to a local SQLite database.
package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lepinkainen/tome/internal/book"
)

// Config holds the store configuration. It is passed explicitly at
// construction; the store never reads the environment or global config.
type Config struct {
	// DatabaseFile is the path to the SQLite database file.
	DatabaseFile string
}

// Store implements the catalog operations against a SQLite database.
type Store struct {
	db  *sql.DB
	cfg Config
}

// Match selects records for Exists. Exactly one field is expected to be set;
// when several are, ID wins over Title over ISBN.
type Match struct {
	ID    string
	Title string
	// ISBN matches either the isbn_10 or the isbn_13 column.
	ISBN string
}

// Selector selects records for Delete. Title takes precedence when both are set.
type Selector struct {
	Title string
	// ISBN matches either the isbn_10 or the isbn_13 column.
	ISBN string
}

// Open opens the SQLite database named in cfg.
func Open(cfg Config) (*Store, error) {
	db, err := sql.Open("sqlite", cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{db: db, cfg: cfg}, nil
}

// CreateTable idempotently creates the books table. Existing schemas are
// left alone; there is no migration.
func (s *Store) CreateTable() error {
	if _, err := s.db.Exec(BooksSchema); err != nil {
		return fmt.Errorf("failed to create books table: %w", err)
	}
	return nil
}

// Insert stores a book with the given read flag and added set to today.
// A record whose id is already present is left untouched; the first write
// wins. Returns whether a row was actually inserted.
func (s *Store) Insert(b book.Book, read bool) (bool, error) {
	authors, err := json.Marshal(b.Authors)
	if err != nil {
		return false, fmt.Errorf("failed to encode authors: %w", err)
	}
	categories, err := json.Marshal(b.Categories)
	if err != nil {
		return false, fmt.Errorf("failed to encode categories: %w", err)
	}

	added := time.Now().Format("2006-01-02")

	res, err := s.db.Exec(`
		INSERT OR IGNORE INTO books (
			id, etag, self_link, title, authors, publisher, published_date,
			description, page_count, categories, language, isbn_10, isbn_13,
			thumbnail, read, added
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Etag, b.SelfLink, b.Title, string(authors), b.Publisher,
		b.PublishedDate, b.Description, b.PageCount, string(categories),
		b.Language, b.ISBN10, b.ISBN13, b.Thumbnail, read, added,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert book: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return rows > 0, nil
}

// Exists reports whether at least one record matches m.
func (s *Store) Exists(m Match) (bool, error) {
	var query string
	var args []any

	switch {
	case m.ID != "":
		query = "SELECT COUNT(*) FROM books WHERE id = ?"
		args = []any{m.ID}
	case m.Title != "":
		query = "SELECT COUNT(*) FROM books WHERE title = ?"
		args = []any{m.Title}
	case m.ISBN != "":
		query = "SELECT COUNT(*) FROM books WHERE isbn_10 = ? OR isbn_13 = ?"
		args = []any{m.ISBN, m.ISBN}
	default:
		return false, fmt.Errorf("no match selector given")
	}

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check for book: %w", err)
	}
	return count > 0, nil
}

// ListTitles returns all titles ordered ascending, optionally filtered by
// read status. A nil filter returns everything.
func (s *Store) ListTitles(read *bool) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT title FROM books
		WHERE read = COALESCE(?, read)
		ORDER BY title ASC`, read)
	if err != nil {
		return nil, fmt.Errorf("failed to list titles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	titles := []string{}
	for rows.Next() {
		var title sql.NullString
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		titles = append(titles, title.String)
	}
	return titles, rows.Err()
}

// List returns full records ordered by title, optionally filtered by read
// status. Used by export and the interactive shell.
func (s *Store) List(read *bool) ([]book.Book, error) {
	rows, err := s.db.Query(`
		SELECT id, etag, self_link, title, authors, publisher, published_date,
			description, page_count, categories, language, isbn_10, isbn_13,
			thumbnail, read, added
		FROM books
		WHERE read = COALESCE(?, read)
		ORDER BY title ASC`, read)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	books := []book.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// Delete removes the record matching sel. Returns whether a matching record
// existed before the call; a no-op when nothing matches or neither selector
// is given.
func (s *Store) Delete(sel Selector) (bool, error) {
	var res sql.Result
	var err error

	switch {
	case sel.Title != "":
		res, err = s.db.Exec("DELETE FROM books WHERE title = ?", sel.Title)
	case sel.ISBN != "":
		res, err = s.db.Exec("DELETE FROM books WHERE isbn_10 = ? OR isbn_13 = ?", sel.ISBN, sel.ISBN)
	default:
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete book: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return rows > 0, nil
}

// ToggleRead flips the read flag of the record with the given title.
// Returns whether a matching record was found.
func (s *Store) ToggleRead(title string) (bool, error) {
	res, err := s.db.Exec("UPDATE books SET read = NOT read WHERE title = ?", title)
	if err != nil {
		return false, fmt.Errorf("failed to toggle read status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return rows > 0, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func scanBook(rows *sql.Rows) (book.Book, error) {
	var b book.Book
	var etag, selfLink, title, publisher, publishedDate sql.NullString
	var description, language, isbn10, isbn13, thumbnail sql.NullString
	var pageCount sql.NullInt64
	var authors, categories string

	err := rows.Scan(&b.ID, &etag, &selfLink, &title, &authors, &publisher,
		&publishedDate, &description, &pageCount, &categories, &language,
		&isbn10, &isbn13, &thumbnail, &b.Read, &b.Added)
	if err != nil {
		return book.Book{}, fmt.Errorf("failed to scan book: %w", err)
	}

	b.Etag = nullablePtr(etag)
	b.SelfLink = nullablePtr(selfLink)
	b.Title = nullablePtr(title)
	b.Publisher = nullablePtr(publisher)
	b.PublishedDate = nullablePtr(publishedDate)
	b.Description = nullablePtr(description)
	b.Language = nullablePtr(language)
	b.ISBN10 = nullablePtr(isbn10)
	b.ISBN13 = nullablePtr(isbn13)
	b.Thumbnail = nullablePtr(thumbnail)

	if pageCount.Valid {
		pages := int(pageCount.Int64)
		b.PageCount = &pages
	}

	if err := json.Unmarshal([]byte(authors), &b.Authors); err != nil {
		return book.Book{}, fmt.Errorf("failed to decode authors: %w", err)
	}
	if err := json.Unmarshal([]byte(categories), &b.Categories); err != nil {
		return book.Book{}, fmt.Errorf("failed to decode categories: %w", err)
	}

	return b, nil
}

func nullablePtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
