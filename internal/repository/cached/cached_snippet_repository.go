// Package cached provides a caching wrapper over a primary store using Redis.
package cached

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/roguepikachu/scriptlab/internal/domain"
	"github.com/roguepikachu/scriptlab/internal/repository"
	"github.com/roguepikachu/scriptlab/pkg/logger"
)

// key helpers
func keyPrefix(ns string) string      { return "scriptlab:cache:" + ns + ":" }
func keySnippet(ns, id string) string { return keyPrefix(ns) + "snippet:" + id }
func keyValues(ns string) string      { return keyPrefix(ns) + "values" }
func keyPattern(ns string) string     { return globEscaper.Replace(keyPrefix(ns)) + "*" }

// globEscaper quotes the characters SCAN MATCH treats as wildcards.
var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// Opener wraps a primary opener so every store it hands out is cached.
type Opener struct {
	primary repository.Opener
	redis   *redis.Client
	ttl     time.Duration
}

// NewOpener creates a new cached opener.
func NewOpener(primary repository.Opener, redis *redis.Client, ttl time.Duration) *Opener {
	return &Opener{primary: primary, redis: redis, ttl: ttl}
}

// Open opens the primary store and wraps it.
func (o *Opener) Open(ctx context.Context, namespace string) (repository.SnippetStore, error) {
	p, err := o.primary.Open(ctx, namespace)
	if err != nil {
		return nil, err
	}
	return NewSnippetStore(p, o.redis, namespace, o.ttl), nil
}

// SnippetStore is a cache-aside store combining Redis with a primary store.
// Cache failures are ignored; the primary is the source of truth.
type SnippetStore struct {
	primary   repository.SnippetStore
	redis     *redis.Client
	namespace string
	ttl       time.Duration
}

// NewSnippetStore creates a new cached store.
func NewSnippetStore(primary repository.SnippetStore, redis *redis.Client, namespace string, ttl time.Duration) *SnippetStore {
	return &SnippetStore{primary: primary, redis: redis, namespace: namespace, ttl: ttl}
}

// Get attempts Redis then falls back to primary.
func (r *SnippetStore) Get(ctx context.Context, key string) (domain.Snippet, bool, error) {
	val, err := r.redis.Get(ctx, keySnippet(r.namespace, key)).Result()
	if err == nil && val != "" {
		var s domain.Snippet
		if jsonErr := json.Unmarshal([]byte(val), &s); jsonErr == nil {
			return s, true, nil
		}
	}
	logger.Trace(ctx, "cache miss for %s/%s", r.namespace, key)
	s, ok, err := r.primary.Get(ctx, key)
	if err != nil || !ok {
		return s, ok, err
	}
	r.cacheSnippet(ctx, key, s)
	return s, true, nil
}

// Insert writes through to primary and refreshes the cache.
func (r *SnippetStore) Insert(ctx context.Context, key string, s domain.Snippet) error {
	if err := r.primary.Insert(ctx, key, s); err != nil {
		return err
	}
	r.cacheSnippet(ctx, key, s)
	_ = r.redis.Del(ctx, keyValues(r.namespace)).Err()
	return nil
}

// Add writes through to primary and refreshes the cache.
func (r *SnippetStore) Add(ctx context.Context, key string, s domain.Snippet) error {
	if err := r.primary.Add(ctx, key, s); err != nil {
		return err
	}
	r.cacheSnippet(ctx, key, s)
	_ = r.redis.Del(ctx, keyValues(r.namespace)).Err()
	return nil
}

// Remove deletes from primary and evicts the cached entries.
func (r *SnippetStore) Remove(ctx context.Context, key string) error {
	if err := r.primary.Remove(ctx, key); err != nil {
		return err
	}
	_ = r.redis.Del(ctx, keySnippet(r.namespace, key), keyValues(r.namespace)).Err()
	return nil
}

// Clear empties primary and drops every cached key of the namespace.
func (r *SnippetStore) Clear(ctx context.Context) error {
	if err := r.primary.Clear(ctx); err != nil {
		return err
	}
	if err := r.invalidate(ctx); err != nil {
		logger.Warn(ctx, "cache invalidation failed for %s: %v", r.namespace, err)
	}
	return nil
}

// Values caches the full namespace listing.
func (r *SnippetStore) Values(ctx context.Context) ([]domain.Snippet, error) {
	k := keyValues(r.namespace)
	if val, err := r.redis.Get(ctx, k).Result(); err == nil && val != "" {
		var items []domain.Snippet
		if jsonErr := json.Unmarshal([]byte(val), &items); jsonErr == nil {
			return items, nil
		}
	}
	items, err := r.primary.Values(ctx)
	if err != nil {
		return nil, err
	}
	repository.SortSnippets(items)
	data, _ := json.Marshal(items)
	_ = r.redis.Set(ctx, k, data, r.ttl).Err()
	return items, nil
}

func (r *SnippetStore) cacheSnippet(ctx context.Context, key string, s domain.Snippet) {
	data, _ := json.Marshal(s)
	k := keySnippet(r.namespace, key)
	if err := r.redis.Set(ctx, k, data, r.ttl).Err(); err != nil {
		logger.WithField(ctx, "key", k).Debugf("cache write failed: %v", err)
	}
}

func (r *SnippetStore) invalidate(ctx context.Context) error {
	// scan-and-delete keys under the namespace prefix
	var cursor uint64
	for {
		keys, next, err := r.redis.Scan(ctx, cursor, keyPattern(r.namespace), 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			_ = r.redis.Del(ctx, keys...).Err()
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return nil
}

var (
	_ repository.Opener       = (*Opener)(nil)
	_ repository.SnippetStore = (*SnippetStore)(nil)
)
