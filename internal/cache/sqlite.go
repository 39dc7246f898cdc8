package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"lyricsync-gateway/internal/lyrics"
)

// SQLiteStore keeps resolved documents in a local SQLite file so they
// survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS lyrics_documents (
			title      TEXT NOT NULL,
			artist     TEXT NOT NULL,
			document   TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (title, artist)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get looks up the exact (title, artist) pair; keys are case-sensitive.
func (s *SQLiteStore) Get(ctx context.Context, key lyrics.Key) (*lyrics.Document, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT document FROM lyrics_documents WHERE title = ? AND artist = ?",
		key.Title, key.Artist,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite get failed: %w", err)
	}

	var doc lyrics.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false, fmt.Errorf("sqlite row is not a document: %w", err)
	}
	if doc.Empty() {
		return nil, false, nil
	}
	return &doc, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key lyrics.Key, doc *lyrics.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO lyrics_documents (title, artist, document, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		key.Title, key.Artist, string(raw),
	)
	if err != nil {
		return fmt.Errorf("sqlite set failed: %w", err)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lyrics_documents").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Ping checks the database handle is usable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
