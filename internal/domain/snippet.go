// Package domain contains domain models for the application.
package domain

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spaolacci/murmur3"
)

// DefaultName is the name given to snippets created without one.
const DefaultName = "New Snippet"

// IDGenerator returns a new random snippet identifier.
type IDGenerator func() string

// NewID is the default IDGenerator.
func NewID() string {
	return uuid.New().String()
}

// Meta holds the descriptive part of a snippet.
type Meta struct {
	Name string `json:"name"`
}

// Snippet represents a named unit of code plus its library list.
type Snippet struct {
	ID            string    `json:"id"`
	Meta          *Meta     `json:"meta"`
	Script        string    `json:"script"`
	Libraries     string    `json:"libraries"`
	LastSavedHash string    `json:"last_saved_hash,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewSnippet merges partial over the defaults.
func NewSnippet(partial Snippet) Snippet {
	s := partial.Clone()
	if s.Meta == nil {
		s.Meta = &Meta{}
	}
	if s.Meta.Name == "" {
		s.Meta.Name = DefaultName
	}
	return s
}

// Wrap reconstructs a snippet from a raw stored record. A nil record yields
// an empty snippet; callers check IsEmpty.
func Wrap(rec *Snippet) Snippet {
	if rec == nil {
		return Snippet{}
	}
	return rec.Clone()
}

// IsEmpty reports whether the snippet carries neither identity nor metadata.
func (s Snippet) IsEmpty() bool {
	return s.ID == "" && s.Meta == nil
}

// Name returns the display name, or "" when metadata is missing.
func (s Snippet) Name() string {
	if s.Meta == nil {
		return ""
	}
	return s.Meta.Name
}

// Clone returns a deep copy that shares no mutable state with s.
func (s Snippet) Clone() Snippet {
	c := s
	if s.Meta != nil {
		m := *s.Meta
		c.Meta = &m
	}
	return c
}

// Hash digests the semantic content: name, script and libraries.
func (s Snippet) Hash() string {
	h := murmur3.New128()
	for _, field := range []string{s.Name(), s.Script, s.Libraries} {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(field)))
		_, _ = h.Write(n[:])
		_, _ = h.Write([]byte(field))
	}
	hi, lo := h.Sum128()
	return fmt.Sprintf("%016x%016x", hi, lo)
}

// IsDirty reports whether the content changed since the last save.
func (s Snippet) IsDirty() bool {
	return s.Hash() != s.LastSavedHash
}

// RandomizeID assigns a fresh id when none is set or when force is true.
// The new id never matches one in existing. It reports whether the id changed.
// Draws are bounded by one more than the number of ids in use; a generator
// that exhausts them fails with ErrIDExhausted and leaves s unchanged.
func (s *Snippet) RandomizeID(force bool, existing []Snippet, gen IDGenerator) (bool, error) {
	if s.ID != "" && !force {
		return false, nil
	}
	if gen == nil {
		gen = NewID
	}
	taken := make(map[string]struct{}, len(existing)+1)
	for _, e := range existing {
		taken[e.ID] = struct{}{}
	}
	if s.ID != "" {
		taken[s.ID] = struct{}{}
	}
	for i, n := 0, len(taken)+1; i < n; i++ {
		id := gen()
		if _, dup := taken[id]; !dup && id != "" {
			s.ID = id
			return true, nil
		}
	}
	return false, ErrIDExhausted
}

// MakeNameUnique renames s so that no other snippet in existing shares its name.
func (s *Snippet) MakeNameUnique(opt SuffixOption, existing []Snippet) {
	if s.Meta == nil {
		s.Meta = &Meta{Name: DefaultName}
	}
	names := make([]string, 0, len(existing))
	for _, e := range existing {
		if e.ID == s.ID || e.Meta == nil {
			continue
		}
		names = append(names, e.Meta.Name)
	}
	s.Meta.Name = UniqueName(s.Meta.Name, names, opt)
}
