// Package service contains business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/roguepikachu/scriptlab/internal/domain"
	"github.com/roguepikachu/scriptlab/internal/repository"
	"github.com/roguepikachu/scriptlab/pkg/logger"
)

// Confirmation labels offered by delete prompts.
const (
	ConfirmYes = "Yes"
	ConfirmNo  = "No"

	deleteTitle      = "Delete confirmation"
	deleteOneFormat  = "Are you sure you want to delete the snippet \"%s\"?"
	deleteAllMessage = "Are you sure you want to delete *ALL* of your local snippets?"
)

// Prompt asks the user to pick one of options. A dismissed prompt returns an error.
type Prompt interface {
	Show(ctx context.Context, title, message string, options []string) (string, error)
}

// PlaylistFetcher retrieves the remote gallery for a host.
type PlaylistFetcher interface {
	Fetch(ctx context.Context, host domain.HostContext) (domain.Gallery, error)
}

// Manager owns the snippet store of one host namespace. A nil *Manager is
// uninitialized: Local returns nothing and every other operation fails with
// ErrNotInitialized.
//
// A Manager is not safe for concurrent use. Running two managers against the
// same namespace at once is not supported; callers coordinate that.
type Manager struct {
	store   repository.SnippetStore
	host    domain.HostContext
	prompt  Prompt
	fetcher PlaylistFetcher
	clock   Clock
	newID   domain.IDGenerator
}

// Option configures a Manager.
type Option func(*Manager)

// WithPrompt sets the prompt used by confirmed deletes.
func WithPrompt(p Prompt) Option { return func(m *Manager) { m.prompt = p } }

// WithPlaylistFetcher sets the remote gallery source.
func WithPlaylistFetcher(f PlaylistFetcher) Option { return func(m *Manager) { m.fetcher = f } }

// WithClock overrides the time source.
func WithClock(c Clock) Option { return func(m *Manager) { m.clock = c } }

// WithIDGenerator overrides snippet id generation.
func WithIDGenerator(g domain.IDGenerator) Option { return func(m *Manager) { m.newID = g } }

// Initialize binds a manager to the namespace of host.
func Initialize(ctx context.Context, opener repository.Opener, host domain.HostContext, opts ...Option) (*Manager, error) {
	if opener == nil {
		return nil, errors.New("initialize: nil store opener")
	}
	if host.Key == "" {
		return nil, errors.New("initialize: host key is required")
	}
	store, err := opener.Open(ctx, host.Namespace())
	if err != nil {
		return nil, fmt.Errorf("open namespace %s: %w", host.Namespace(), err)
	}
	m := &Manager{
		store:   store,
		host:    host,
		prompt:  dismissPrompt{},
		fetcher: unconfiguredFetcher{},
		clock:   RealClock{},
		newID:   domain.NewID,
	}
	for _, opt := range opts {
		opt(m)
	}
	logger.With(ctx, map[string]any{"namespace": host.Namespace(), "host": host.HostName}).Info("snippet manager initialized")
	return m, nil
}

func (m *Manager) ready() error {
	if m == nil || m.store == nil {
		return ErrNotInitialized
	}
	return nil
}

// Host returns the bound host context.
func (m *Manager) Host() domain.HostContext {
	if m == nil {
		return domain.HostContext{}
	}
	return m.host
}

// CreateBlankSnippet returns the starter snippet for the bound host.
func (m *Manager) CreateBlankSnippet() domain.Snippet {
	return domain.CreateBlankSnippet(m.Host().Capabilities)
}

// New creates and stores a blank snippet.
func (m *Manager) New(ctx context.Context) (domain.Snippet, error) {
	if err := m.ready(); err != nil {
		return domain.Snippet{}, err
	}
	return m.Add(ctx, m.CreateBlankSnippet(), domain.StripNumericSuffixAndIncrement)
}

// Add gives s a fresh id and a unique name, then stores it in one write.
func (m *Manager) Add(ctx context.Context, s domain.Snippet, opt domain.SuffixOption) (domain.Snippet, error) {
	if err := m.ready(); err != nil {
		return domain.Snippet{}, err
	}
	existing, err := m.store.Values(ctx)
	if err != nil {
		return domain.Snippet{}, fmt.Errorf("load snippets: %w", err)
	}
	s = s.Clone()
	if _, err := s.RandomizeID(true, existing, m.newID); err != nil {
		return domain.Snippet{}, fmt.Errorf("add snippet: %w", err)
	}
	s.MakeNameUnique(opt, existing)
	s.CreatedAt = m.clock.Now()
	if err := m.store.Add(ctx, s.ID, s); err != nil {
		return domain.Snippet{}, fmt.Errorf("add snippet: %w", err)
	}
	logger.With(ctx, map[string]any{"id": s.ID, "name": s.Name(), "suffix": opt.String()}).Debug("snippet added")
	return s, nil
}

// Duplicate stores an independent copy of s under a decorated name.
func (m *Manager) Duplicate(ctx context.Context, s domain.Snippet) (domain.Snippet, error) {
	return m.Add(ctx, s.Clone(), domain.AddCopySuffix)
}

// Save records the current hash on s and overwrites the stored copy.
func (m *Manager) Save(ctx context.Context, s *domain.Snippet) error {
	if err := domain.Validate(s); err != nil {
		return err
	}
	if err := m.ready(); err != nil {
		return err
	}
	if s.ID == "" {
		existing, err := m.store.Values(ctx)
		if err != nil {
			return fmt.Errorf("load snippets: %w", err)
		}
		if _, err := s.RandomizeID(false, existing, m.newID); err != nil {
			return fmt.Errorf("save snippet: %w", err)
		}
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = m.clock.Now()
	}
	s.LastSavedHash = s.Hash()
	if err := m.store.Insert(ctx, s.ID, *s); err != nil {
		return fmt.Errorf("save snippet: %w", err)
	}
	logger.With(ctx, map[string]any{"id": s.ID, "hash": s.LastSavedHash}).Debug("snippet saved")
	return nil
}

// Delete removes s, asking first when askForConfirmation is set.
func (m *Manager) Delete(ctx context.Context, s *domain.Snippet, askForConfirmation bool) (DeleteResult, error) {
	if s == nil || s.Meta == nil {
		err := &domain.ValidationError{Field: "meta", Reason: "Snippet metadata cannot be empty"}
		return DeleteResult{Status: ValidationFailed, Reason: err.Reason}, err
	}
	if err := m.ready(); err != nil {
		return DeleteResult{}, err
	}
	if askForConfirmation && !m.confirm(ctx, fmt.Sprintf(deleteOneFormat, s.Meta.Name)) {
		return DeleteResult{Status: Aborted, Reason: "not confirmed"}, nil
	}
	if err := m.store.Remove(ctx, s.ID); err != nil {
		return DeleteResult{}, fmt.Errorf("delete snippet: %w", err)
	}
	logger.With(ctx, map[string]any{"id": s.ID}).Info("snippet deleted")
	return DeleteResult{Status: Deleted}, nil
}

// DeleteAll clears the namespace, asking first when askForConfirmation is set.
func (m *Manager) DeleteAll(ctx context.Context, askForConfirmation bool) (DeleteResult, error) {
	if err := m.ready(); err != nil {
		return DeleteResult{}, err
	}
	if askForConfirmation && !m.confirm(ctx, deleteAllMessage) {
		return DeleteResult{Status: Aborted, Reason: "not confirmed"}, nil
	}
	if err := m.store.Clear(ctx); err != nil {
		return DeleteResult{}, fmt.Errorf("delete all snippets: %w", err)
	}
	logger.With(ctx, map[string]any{"namespace": m.host.Namespace()}).Info("all snippets deleted")
	return DeleteResult{Status: Deleted}, nil
}

// confirm reports whether the user picked ConfirmYes. Dismissal counts as no.
func (m *Manager) confirm(ctx context.Context, message string) bool {
	choice, err := m.prompt.Show(ctx, deleteTitle, message, []string{ConfirmYes, ConfirmNo})
	if err != nil {
		logger.Debug(ctx, "confirmation not given: %v", err)
		return false
	}
	return choice == ConfirmYes
}

// Local returns every snippet in the namespace. It is empty when m is uninitialized.
func (m *Manager) Local(ctx context.Context) ([]domain.Snippet, error) {
	if m.ready() != nil {
		return []domain.Snippet{}, nil
	}
	items, err := m.store.Values(ctx)
	if err != nil {
		return nil, fmt.Errorf("list snippets: %w", err)
	}
	return items, nil
}

// Find looks up id. A missing record yields an empty snippet, not an error.
func (m *Manager) Find(ctx context.Context, id string) (domain.Snippet, error) {
	if err := m.ready(); err != nil {
		return domain.Snippet{}, err
	}
	rec, ok, err := m.store.Get(ctx, id)
	if err != nil {
		return domain.Snippet{}, fmt.Errorf("find snippet: %w", err)
	}
	if !ok {
		return domain.Wrap(nil), nil
	}
	return domain.Wrap(&rec), nil
}

// Playlist fetches the remote gallery for the bound host. Failures are
// reported as *RemoteFetchError.
func (m *Manager) Playlist(ctx context.Context) (domain.Gallery, error) {
	if err := m.ready(); err != nil {
		return domain.Gallery{}, err
	}
	g, err := m.fetcher.Fetch(ctx, m.host)
	if err != nil {
		messages := []string{fmt.Sprintf("Could not retrieve default snippets for %s.", m.host.HostName)}
		messages = append(messages, ErrorMessages(err)...)
		logger.With(ctx, map[string]any{"host": m.host.Key, "error": err.Error()}).Warn("playlist fetch failed")
		return domain.Gallery{}, &RemoteFetchError{Messages: messages, Err: err}
	}
	return g, nil
}

type dismissPrompt struct{}

func (dismissPrompt) Show(context.Context, string, string, []string) (string, error) {
	return "", errors.New("no confirmation prompt configured")
}

type unconfiguredFetcher struct{}

func (unconfiguredFetcher) Fetch(context.Context, domain.HostContext) (domain.Gallery, error) {
	return domain.Gallery{}, errors.New("no playlist source configured")
}
