// Package memory provides an in-process implementation of the snippet store.
package memory

import (
	"context"
	"sync"

	"github.com/roguepikachu/scriptlab/internal/domain"
	"github.com/roguepikachu/scriptlab/internal/repository"
)

// Opener hands out stores backed by process memory. Stores opened for the
// same namespace share their records.
type Opener struct {
	mu         sync.Mutex
	namespaces map[string]*SnippetStore
}

// Option configures the opener.
type Option func(*Opener)

// WithItems seeds a namespace with the provided snippets (by ID).
func WithItems(namespace string, items ...domain.Snippet) Option {
	return func(o *Opener) {
		s := o.namespace(namespace)
		for _, it := range items {
			s.byID[it.ID] = it.Clone()
		}
	}
}

// NewOpener creates a new in-memory opener.
func NewOpener(opts ...Option) *Opener {
	o := &Opener{namespaces: make(map[string]*SnippetStore)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Opener) namespace(ns string) *SnippetStore {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.namespaces[ns]
	if !ok {
		s = &SnippetStore{byID: make(map[string]domain.Snippet)}
		o.namespaces[ns] = s
	}
	return s
}

// Open returns the store for namespace, creating it on first use.
func (o *Opener) Open(_ context.Context, namespace string) (repository.SnippetStore, error) {
	return o.namespace(namespace), nil
}

// Store is Open without the interface conversion, for tests.
func (o *Opener) Store(namespace string) *SnippetStore {
	return o.namespace(namespace)
}

// SnippetStore is an in-memory namespace. Records are cloned on the way in and
// out so callers never share state with the store.
type SnippetStore struct {
	mu   sync.RWMutex
	byID map[string]domain.Snippet
}

func (r *SnippetStore) Get(_ context.Context, key string) (domain.Snippet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[key]
	if !ok {
		return domain.Snippet{}, false, nil
	}
	return s.Clone(), true, nil
}

func (r *SnippetStore) Insert(_ context.Context, key string, s domain.Snippet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[key] = s.Clone()
	return nil
}

func (r *SnippetStore) Add(ctx context.Context, key string, s domain.Snippet) error {
	return r.Insert(ctx, key, s)
}

func (r *SnippetStore) Remove(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, key)
	return nil
}

func (r *SnippetStore) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[string]domain.Snippet)
	return nil
}

func (r *SnippetStore) Values(_ context.Context) ([]domain.Snippet, error) {
	r.mu.RLock()
	items := make([]domain.Snippet, 0, len(r.byID))
	for _, s := range r.byID {
		items = append(items, s.Clone())
	}
	r.mu.RUnlock()
	repository.SortSnippets(items)
	return items, nil
}

// Len reports how many records the namespace holds.
func (r *SnippetStore) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

var (
	_ repository.Opener       = (*Opener)(nil)
	_ repository.SnippetStore = (*SnippetStore)(nil)
)
