// Package wordstore keeps the word list in SQLite so operators can curate it
// without a rebuild.
package wordstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"sketchguess/internal/wordstore/migrations"
)

// ErrEmptyWord is returned when adding a blank word
var ErrEmptyWord = errors.New("word is empty")

// goose keeps its configuration in package globals
var gooseMu sync.Mutex

// Store is a SQLite-backed word list
type Store struct {
	db *sql.DB
}

// Open prepares the database at path and applies pending migrations
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path is empty")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Words returns every enabled word in insertion order
func (s *Store) Words(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT word FROM words WHERE enabled = 1 ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// Add inserts a word, or re-enables it if it was disabled
func (s *Store) Add(ctx context.Context, word string) error {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return ErrEmptyWord
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO words (word, enabled) VALUES (?, 1)
		 ON CONFLICT(word) DO UPDATE SET enabled = 1`, word)
	if err != nil {
		return fmt.Errorf("add word %q: %w", word, err)
	}
	return nil
}

// Disable hides a word from future rounds
func (s *Store) Disable(ctx context.Context, word string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE words SET enabled = 0 WHERE word = ?`,
		strings.ToLower(strings.TrimSpace(word)))
	if err != nil {
		return fmt.Errorf("disable word %q: %w", word, err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
