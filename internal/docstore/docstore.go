// Package docstore is a thin document-store client backed by Postgres.
// Documents live in a single table keyed by (collection, id) with a JSONB
// payload, and the client exposes the per-collection operations the rest of
// the application is written against: get, set, merge, query-by-equality and
// stream-all. Writes are last-write-wins; there is no optimistic concurrency.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a document id has no entry in its collection.
var ErrNotFound = errors.New("document not found")

// Database is the subset of pgxpool.Pool the client needs. pgxmock satisfies
// it in tests.
type Database interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Client provides access to named collections of JSON documents.
type Client struct {
	db Database
}

// NewClient creates a document-store client over the given database handle.
func NewClient(db Database) *Client {
	return &Client{db: db}
}

// EnsureSchema creates the backing table if it does not exist yet.
func (c *Client) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			data JSONB NOT NULL,
			PRIMARY KEY (collection, id)
		)
	`
	_, err := c.db.Exec(ctx, query)
	return err
}

// Ping verifies store connectivity for health checks.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.db.Exec(ctx, "SELECT 1")
	return err
}

// Collection returns a handle for one named collection.
func (c *Client) Collection(name string) *Collection {
	return &Collection{db: c.db, name: name}
}

// Collection is a handle on one document collection.
type Collection struct {
	db   Database
	name string
}

// Get decodes the document with the given id into dest. Returns ErrNotFound
// when the id has no document.
func (c *Collection) Get(ctx context.Context, id string, dest interface{}) error {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`
	var data []byte
	err := c.db.QueryRow(ctx, query, c.name, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get document %s/%s: %w", c.name, id, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode document %s/%s: %w", c.name, id, err)
	}
	return nil
}

// Set writes the full document under the given id, replacing any existing
// content.
func (c *Collection) Set(ctx context.Context, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", c.name, id, err)
	}
	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data
	`
	_, err = c.db.Exec(ctx, query, c.name, id, data)
	return err
}

// Merge shallow-merges the given fields into the document, creating it when
// absent. Existing fields not named in fields are left untouched.
func (c *Collection) Merge(ctx context.Context, id string, fields map[string]interface{}) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode merge fields for %s/%s: %w", c.name, id, err)
	}
	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = documents.data || EXCLUDED.data
	`
	_, err = c.db.Exec(ctx, query, c.name, id, data)
	return err
}

// QueryEqual streams every document whose top-level field equals value.
func (c *Collection) QueryEqual(ctx context.Context, field, value string, each func(id string, data []byte) error) error {
	query := `SELECT id, data FROM documents WHERE collection = $1 AND data->>$2 = $3`
	rows, err := c.db.Query(ctx, query, c.name, field, value)
	if err != nil {
		return fmt.Errorf("failed to query %s by %s: %w", c.name, field, err)
	}
	defer rows.Close()

	return scanDocuments(rows, each)
}

// StreamAll streams every document in the collection.
func (c *Collection) StreamAll(ctx context.Context, each func(id string, data []byte) error) error {
	query := `SELECT id, data FROM documents WHERE collection = $1`
	rows, err := c.db.Query(ctx, query, c.name)
	if err != nil {
		return fmt.Errorf("failed to stream %s: %w", c.name, err)
	}
	defer rows.Close()

	return scanDocuments(rows, each)
}

func scanDocuments(rows pgx.Rows, each func(id string, data []byte) error) error {
	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return err
		}
		if err := each(id, data); err != nil {
			return err
		}
	}
	return rows.Err()
}
