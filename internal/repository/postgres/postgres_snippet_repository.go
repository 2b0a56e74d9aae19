// Package postgres provides a Postgres-backed implementation of the snippet store.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roguepikachu/scriptlab/internal/domain"
	"github.com/roguepikachu/scriptlab/internal/repository"
	"github.com/roguepikachu/scriptlab/pkg/logger"
)

// Opener hands out Postgres-backed stores sharing one table.
type Opener struct {
	pool *pgxpool.Pool
}

// NewOpener creates a new Postgres-backed opener.
func NewOpener(pool *pgxpool.Pool) *Opener {
	return &Opener{pool: pool}
}

// EnsureSchema creates required tables if they don't exist.
func (o *Opener) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS snippets (
    namespace TEXT NOT NULL,
    id TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    data JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (namespace, id)
);
CREATE INDEX IF NOT EXISTS idx_snippets_ns_created_at ON snippets (namespace, created_at);
`
	_, err := o.pool.Exec(ctx, schema)
	if err != nil {
		return err
	}
	logger.Info(ctx, "postgres schema ensured")
	return nil
}

// Open binds a store to namespace.
func (o *Opener) Open(_ context.Context, namespace string) (repository.SnippetStore, error) {
	return &SnippetStore{pool: o.pool, namespace: namespace}, nil
}

// SnippetStore implements repository.SnippetStore over the snippets table.
type SnippetStore struct {
	pool      *pgxpool.Pool
	namespace string
}

// Get retrieves a snippet by key.
func (r *SnippetStore) Get(ctx context.Context, key string) (domain.Snippet, bool, error) {
	const q = `
SELECT data
FROM snippets
WHERE namespace = $1 AND id = $2
`
	var raw []byte
	err := r.pool.QueryRow(ctx, q, r.namespace, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Snippet{}, false, nil
		}
		return domain.Snippet{}, false, fmt.Errorf("query snippet: %w", err)
	}
	var s domain.Snippet
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Snippet{}, false, fmt.Errorf("unmarshal snippet: %w", err)
	}
	return s, true, nil
}

// Insert upserts a snippet; the last write wins.
func (r *SnippetStore) Insert(ctx context.Context, key string, s domain.Snippet) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snippet: %w", err)
	}
	const q = `
INSERT INTO snippets (namespace, id, name, data, created_at)
VALUES ($1, $2, $3, $4::jsonb, $5)
ON CONFLICT (namespace, id) DO UPDATE
SET name = EXCLUDED.name, data = EXCLUDED.data, created_at = EXCLUDED.created_at
`
	if _, err := r.pool.Exec(ctx, q, r.namespace, key, s.Name(), string(data), s.CreatedAt); err != nil {
		return fmt.Errorf("insert snippet: %w", err)
	}
	return nil
}

// Add writes a snippet without checking for a previous row.
func (r *SnippetStore) Add(ctx context.Context, key string, s domain.Snippet) error {
	return r.Insert(ctx, key, s)
}

// Remove deletes one snippet.
func (r *SnippetStore) Remove(ctx context.Context, key string) error {
	const q = `DELETE FROM snippets WHERE namespace = $1 AND id = $2`
	if _, err := r.pool.Exec(ctx, q, r.namespace, key); err != nil {
		return fmt.Errorf("delete snippet: %w", err)
	}
	return nil
}

// Clear deletes every snippet in the namespace.
func (r *SnippetStore) Clear(ctx context.Context) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM snippets WHERE namespace = $1`, r.namespace)
	if err != nil {
		return fmt.Errorf("clear snippets: %w", err)
	}
	logger.Debug(ctx, "cleared %d snippets from %s", ct.RowsAffected(), r.namespace)
	return nil
}

// Values returns the namespace ordered by creation time.
func (r *SnippetStore) Values(ctx context.Context) ([]domain.Snippet, error) {
	const q = `
SELECT data
FROM snippets
WHERE namespace = $1
ORDER BY created_at ASC, id ASC
`
	rows, err := r.pool.Query(ctx, q, r.namespace)
	if err != nil {
		return nil, fmt.Errorf("list snippets: %w", err)
	}
	defer rows.Close()
	res := make([]domain.Snippet, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan snippet: %w", err)
		}
		var s domain.Snippet
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("unmarshal snippet: %w", err)
		}
		res = append(res, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return res, nil
}

var (
	_ repository.Opener       = (*Opener)(nil)
	_ repository.SnippetStore = (*SnippetStore)(nil)
)
