// Package redis provides a Redis-backed implementation of the snippet store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/roguepikachu/scriptlab/internal/domain"
	"github.com/roguepikachu/scriptlab/internal/repository"
)

// KeyPrefix namespaces every hash written by this package.
const KeyPrefix = "scriptlab:"

// Opener hands out Redis-backed stores. Each namespace is one Redis hash.
type Opener struct {
	client *redis.Client
}

// NewOpener creates a new Redis-backed opener.
func NewOpener(client *redis.Client) *Opener {
	return &Opener{client: client}
}

// Open binds a store to namespace.
func (o *Opener) Open(_ context.Context, namespace string) (repository.SnippetStore, error) {
	return NewSnippetStore(o.client, namespace), nil
}

// SnippetStore implements repository.SnippetStore using a Redis hash.
type SnippetStore struct {
	client *redis.Client
	key    string
}

// NewSnippetStore creates a store over the hash for namespace.
func NewSnippetStore(client *redis.Client, namespace string) *SnippetStore {
	return &SnippetStore{client: client, key: KeyPrefix + namespace}
}

// Get retrieves a snippet by key.
func (r *SnippetStore) Get(ctx context.Context, key string) (domain.Snippet, bool, error) {
	val, err := r.client.HGet(ctx, r.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Snippet{}, false, nil
	}
	if err != nil {
		return domain.Snippet{}, false, fmt.Errorf("redis hget: %w", err)
	}
	var s domain.Snippet
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return domain.Snippet{}, false, fmt.Errorf("unmarshal: %w", err)
	}
	return s, true, nil
}

// Insert writes a snippet, replacing any previous value.
func (r *SnippetStore) Insert(ctx context.Context, key string, s domain.Snippet) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.client.HSet(ctx, r.key, key, data).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// Add writes a snippet without checking for a previous value.
func (r *SnippetStore) Add(ctx context.Context, key string, s domain.Snippet) error {
	return r.Insert(ctx, key, s)
}

// Remove deletes one snippet.
func (r *SnippetStore) Remove(ctx context.Context, key string) error {
	if err := r.client.HDel(ctx, r.key, key).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}

// Clear drops the whole namespace.
func (r *SnippetStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Values returns every snippet in the namespace. Undecodable entries are skipped.
func (r *SnippetStore) Values(ctx context.Context) ([]domain.Snippet, error) {
	all, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	snippets := make([]domain.Snippet, 0, len(all))
	for _, val := range all {
		var s domain.Snippet
		if err := json.Unmarshal([]byte(val), &s); err != nil {
			continue
		}
		snippets = append(snippets, s)
	}
	repository.SortSnippets(snippets)
	return snippets, nil
}

var (
	_ repository.Opener       = (*Opener)(nil)
	_ repository.SnippetStore = (*SnippetStore)(nil)
)
