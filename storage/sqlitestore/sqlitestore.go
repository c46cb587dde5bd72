// Package sqlitestore stores documents in a single SQLite table.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"docmapper/storage"
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	body       BLOB NOT NULL,
	PRIMARY KEY (collection, id)
)`

// Store persists documents in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens a SQLite document store at path and creates its table.
// The path ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := ":memory:"
	if path != dsn {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if path == ":memory:" {
		// every connection would get its own database
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(schemaSQL); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}

	return s.sqlDB.Close()
}

// Collection returns a view of the documents table for one collection.
func (s *Store) Collection(name string) (storage.Collection, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("collection name is required")
	}

	return &collection{sqlDB: s.sqlDB, name: name}, nil
}

type collection struct {
	sqlDB *sql.DB
	name  string
}

func (c *collection) Find(ctx context.Context, id any) (storage.Document, bool, error) {
	key, err := storage.Key(id)
	if err != nil {
		return nil, false, err
	}

	var body []byte

	err = c.sqlDB.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`,
		c.name, key,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("find %s/%s: %w", c.name, key, err)
	}

	doc, err := storage.Decode(body)
	if err != nil {
		return nil, false, err
	}

	return doc, true, nil
}

func (c *collection) Upsert(ctx context.Context, id any, doc storage.Document) error {
	key, err := storage.Key(id)
	if err != nil {
		return err
	}

	body, err := storage.Encode(doc)
	if err != nil {
		return err
	}

	_, err = c.sqlDB.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)
		 ON CONFLICT(collection, id) DO UPDATE SET body = excluded.body`,
		c.name, key, body,
	)
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", c.name, key, err)
	}

	return nil
}

func (c *collection) Delete(ctx context.Context, id any) error {
	key, err := storage.Key(id)
	if err != nil {
		return err
	}

	if _, err := c.sqlDB.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		c.name, key,
	); err != nil {
		return fmt.Errorf("delete %s/%s: %w", c.name, key, err)
	}

	return nil
}
