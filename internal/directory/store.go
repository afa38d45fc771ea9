// Package directory implements the address-book lookup service: a
// query/filter/format pipeline over a SQLite-backed contact store.
package directory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS contacts (
	id    TEXT PRIMARY KEY,
	name  TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS contacts_name ON contacts(name);
`

// Record is one address-book entry.
type Record struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Store is the SQLite-backed contact store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the directory database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("directory database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory database dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize directory schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts a record, assigning an ID when none is set, and returns the
// stored record.
func (s *Store) Add(ctx context.Context, rec Record) (Record, error) {
	if rec.Name == "" {
		return Record{}, fmt.Errorf("contact name must not be empty")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (id, name, email, phone) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Email, rec.Phone)
	if err != nil {
		return Record{}, fmt.Errorf("failed to insert contact: %w", err)
	}
	return rec, nil
}

// Query returns up to limit records whose name or email contains q,
// case-insensitively, ordered by name. An empty q matches everything.
func (s *Store) Query(ctx context.Context, q string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 25
	}
	pattern := "%" + q + "%"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, phone FROM contacts
		 WHERE name LIKE ? OR email LIKE ?
		 ORDER BY name
		 LIMIT ?`,
		pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contacts: %w", err)
	}
	return records, nil
}

// Count returns the number of stored contacts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return n, nil
}
