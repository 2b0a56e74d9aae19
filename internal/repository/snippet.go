// Package repository defines the key-value contract snippets are stored through.
package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/roguepikachu/scriptlab/internal/domain"
)

// ErrNotFound is returned by backends that need to signal a missing key internally.
var ErrNotFound = errors.New("not found")

// SnippetStore is a string-keyed map bound to one namespace.
type SnippetStore interface {
	// Get returns the record for key and whether it exists.
	Get(ctx context.Context, key string) (domain.Snippet, bool, error)
	// Insert writes s under key, replacing any previous record.
	Insert(ctx context.Context, key string, s domain.Snippet) error
	// Add writes s under key without checking for a previous record.
	Add(ctx context.Context, key string, s domain.Snippet) error
	Remove(ctx context.Context, key string) error
	// Clear removes every record in the namespace.
	Clear(ctx context.Context) error
	// Values returns all records ordered by creation time, then id.
	Values(ctx context.Context) ([]domain.Snippet, error)
}

// Opener binds a SnippetStore to a namespace.
type Opener interface {
	Open(ctx context.Context, namespace string) (SnippetStore, error)
}

// SortSnippets orders items the way Values must return them.
func SortSnippets(items []domain.Snippet) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}
