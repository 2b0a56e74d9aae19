package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roguepikachu/scriptlab/internal/domain"
	"github.com/roguepikachu/scriptlab/internal/http/middleware"
	"github.com/roguepikachu/scriptlab/internal/prompt"
	"github.com/roguepikachu/scriptlab/internal/repository/memory"
	"github.com/roguepikachu/scriptlab/internal/service"
	"github.com/roguepikachu/scriptlab/pkg"
)

type stubFetcher struct {
	gallery domain.Gallery
	err     error
}

func (f stubFetcher) Fetch(context.Context, domain.HostContext) (domain.Gallery, error) {
	return f.gallery, f.err
}

// blockingFetcher holds every fetch until release is closed.
type blockingFetcher struct {
	entered chan struct{}
	release chan struct{}
}

func (f blockingFetcher) Fetch(ctx context.Context, _ domain.HostContext) (domain.Gallery, error) {
	f.entered <- struct{}{}
	select {
	case <-f.release:
		return domain.Gallery{}, nil
	case <-ctx.Done():
		return domain.Gallery{}, ctx.Err()
	}
}

// brokenManager fails every call with err.
type brokenManager struct{ err error }

func (b brokenManager) Host() domain.HostContext { return domain.HostContext{} }
func (b brokenManager) Local(context.Context) ([]domain.Snippet, error) {
	return nil, b.err
}
func (b brokenManager) New(context.Context) (domain.Snippet, error) { return domain.Snippet{}, b.err }
func (b brokenManager) Find(context.Context, string) (domain.Snippet, error) {
	return domain.Snippet{}, b.err
}
func (b brokenManager) Save(context.Context, *domain.Snippet) error { return b.err }
func (b brokenManager) Duplicate(context.Context, domain.Snippet) (domain.Snippet, error) {
	return domain.Snippet{}, b.err
}
func (b brokenManager) Delete(context.Context, *domain.Snippet, bool) (service.DeleteResult, error) {
	return service.DeleteResult{}, b.err
}
func (b brokenManager) DeleteAll(context.Context, bool) (service.DeleteResult, error) {
	return service.DeleteResult{}, b.err
}
func (b brokenManager) Playlist(context.Context) (domain.Gallery, error) {
	return domain.Gallery{}, b.err
}

func newEngine(mgr SnippetManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(mgr)
	r := gin.New()
	r.Use(middleware.Confirmation())
	r.GET("/snippets", h.List)
	r.POST("/snippets", h.Create)
	r.DELETE("/snippets", h.DeleteAll)
	r.GET("/snippets/:id", h.Get)
	r.PUT("/snippets/:id", h.Update)
	r.DELETE("/snippets/:id", h.Delete)
	r.POST("/snippets/:id/duplicate", h.Duplicate)
	r.GET("/playlist", h.Playlist)
	return r
}

func newManager(t *testing.T, f service.PlaylistFetcher) (*service.Manager, *memory.Opener) {
	t.Helper()
	opener := memory.NewOpener()
	m, err := service.Initialize(context.Background(), opener, domain.LookupHost("web"),
		service.WithPrompt(prompt.Context{}), service.WithPlaylistFetcher(f))
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return m, opener
}

func do(r *gin.Engine, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func create(t *testing.T, r *gin.Engine) domain.SnippetResponseDTO {
	t.Helper()
	w := do(r, http.MethodPost, "/snippets", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create want 201, got %d", w.Code)
	}
	return decode[domain.SnippetResponseDTO](t, w)
}

func TestSnippetCreateAndList(t *testing.T) {
	m, _ := newManager(t, stubFetcher{})
	r := newEngine(m)

	a := create(t, r)
	b := create(t, r)
	if a.Name != domain.DefaultName || b.Name != domain.DefaultName+" 1" {
		t.Fatalf("unexpected names %q, %q", a.Name, b.Name)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("ids must be distinct and set: %q %q", a.ID, b.ID)
	}

	w := do(r, http.MethodGet, "/snippets", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list want 200, got %d", w.Code)
	}
	list := decode[domain.ListSnippetsResponseDTO](t, w)
	if list.Namespace != "web_snippets" || len(list.Items) != 2 {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestSnippetGet(t *testing.T) {
	m, _ := newManager(t, stubFetcher{})
	r := newEngine(m)
	a := create(t, r)

	w := do(r, http.MethodGet, "/snippets/"+a.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if got := decode[domain.SnippetResponseDTO](t, w); got.ID != a.ID || got.Hash == "" {
		t.Fatalf("unexpected snippet %+v", got)
	}

	w = do(r, http.MethodGet, "/snippets/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", w.Code)
	}
	if e := decode[pkg.ErrorResponse](t, w); e.Error.Code != "not_found" {
		t.Fatalf("unexpected error %+v", e)
	}
}

func TestSnippetUpdate(t *testing.T) {
	m, opener := newManager(t, stubFetcher{})
	r := newEngine(m)
	a := create(t, r)

	w := do(r, http.MethodPut, "/snippets/"+a.ID, `{"name":"Chart","script":"draw()"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decode[domain.SnippetResponseDTO](t, w)
	if got.Name != "Chart" || got.Script != "draw()" || got.Dirty {
		t.Fatalf("unexpected snippet %+v", got)
	}
	if got.Libraries != a.Libraries {
		t.Fatalf("omitted libraries must be kept, got %q", got.Libraries)
	}
	stored, ok, _ := opener.Store("web_snippets").Get(context.Background(), a.ID)
	if !ok || stored.Name() != "Chart" || stored.LastSavedHash != got.Hash {
		t.Fatalf("stored record not updated: %+v", stored)
	}
}

func TestSnippetUpdate_Errors(t *testing.T) {
	m, _ := newManager(t, stubFetcher{})
	r := newEngine(m)
	a := create(t, r)

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"EmptyName", "/snippets/" + a.ID, `{"name":""}`, http.StatusBadRequest, "validation_error"},
		{"InvalidJSON", "/snippets/" + a.ID, `{invalid}`, http.StatusBadRequest, "bad_request"},
		{"Missing", "/snippets/nope", `{"name":"x"}`, http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPut, tt.path, tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("want %d, got %d", tt.wantCode, w.Code)
			}
			if e := decode[pkg.ErrorResponse](t, w); e.Error.Code != tt.wantErr {
				t.Fatalf("want %s, got %+v", tt.wantErr, e)
			}
		})
	}
}

func TestSnippetDuplicate(t *testing.T) {
	m, _ := newManager(t, stubFetcher{})
	r := newEngine(m)
	a := create(t, r)

	w := do(r, http.MethodPost, "/snippets/"+a.ID+"/duplicate", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d", w.Code)
	}
	dup := decode[domain.SnippetResponseDTO](t, w)
	if dup.ID == a.ID || dup.Name != domain.DefaultName+" (Copy)" || dup.Script != a.Script {
		t.Fatalf("unexpected duplicate %+v", dup)
	}

	if w := do(r, http.MethodPost, "/snippets/nope/duplicate", ""); w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", w.Code)
	}
}

func TestSnippetDelete_Confirmation(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		headers    []string
		wantStatus string
		wantLeft   int
	}{
		{"NoHeaderAborts", "", nil, "aborted", 1},
		{"AnswerNoAborts", "", []string{middleware.HeaderConfirm, "No"}, "aborted", 1},
		{"AnswerYesDeletes", "", []string{middleware.HeaderConfirm, "yes"}, "deleted", 0},
		{"ConfirmFalseSkipsPrompt", "?confirm=false", nil, "deleted", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, opener := newManager(t, stubFetcher{})
			r := newEngine(m)
			a := create(t, r)

			w := do(r, http.MethodDelete, "/snippets/"+a.ID+tt.path, "", tt.headers...)
			if w.Code != http.StatusOK {
				t.Fatalf("want 200, got %d", w.Code)
			}
			if got := decode[domain.DeleteResponseDTO](t, w); got.Status != tt.wantStatus {
				t.Fatalf("want %s, got %+v", tt.wantStatus, got)
			}
			if n := opener.Store("web_snippets").Len(); n != tt.wantLeft {
				t.Fatalf("want %d left, got %d", tt.wantLeft, n)
			}
		})
	}
}

func TestSnippetDeleteAll(t *testing.T) {
	m, opener := newManager(t, stubFetcher{})
	r := newEngine(m)
	create(t, r)
	create(t, r)

	w := do(r, http.MethodDelete, "/snippets", "")
	if got := decode[domain.DeleteResponseDTO](t, w); got.Status != "aborted" {
		t.Fatalf("want aborted, got %+v", got)
	}
	if opener.Store("web_snippets").Len() != 2 {
		t.Fatalf("aborted delete-all must keep data")
	}

	w = do(r, http.MethodDelete, "/snippets", "", middleware.HeaderConfirm, service.ConfirmYes)
	if got := decode[domain.DeleteResponseDTO](t, w); got.Status != "deleted" {
		t.Fatalf("want deleted, got %+v", got)
	}
	if opener.Store("web_snippets").Len() != 0 {
		t.Fatalf("namespace should be empty")
	}
}

func TestPlaylist(t *testing.T) {
	g := domain.Gallery{Groups: []domain.GalleryGroup{{Name: "Basics", Items: []domain.GalleryItem{{Name: "Hello", GistID: "abc"}}}}}
	m, _ := newManager(t, stubFetcher{gallery: g})
	w := do(newEngine(m), http.MethodGet, "/playlist", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if got := decode[domain.Gallery](t, w); len(got.Groups) != 1 || got.Groups[0].Items[0].GistID != "abc" {
		t.Fatalf("unexpected gallery %+v", got)
	}
}

func TestPlaylist_RemoteFailure(t *testing.T) {
	m, _ := newManager(t, stubFetcher{err: errors.New("connection refused")})
	w := do(newEngine(m), http.MethodGet, "/playlist", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("want 502, got %d", w.Code)
	}
	e := decode[pkg.ErrorResponse](t, w)
	if len(e.Error.Messages) != 2 || e.Error.Messages[1] != "connection refused" {
		t.Fatalf("unexpected messages %+v", e.Error.Messages)
	}
}

func TestPlaylist_DoesNotBlockSnippetRequests(t *testing.T) {
	f := blockingFetcher{entered: make(chan struct{}, 1), release: make(chan struct{})}
	m, _ := newManager(t, f)
	r := newEngine(m)

	playlistDone := make(chan int)
	go func() { playlistDone <- do(r, http.MethodGet, "/playlist", "").Code }()
	<-f.entered

	listDone := make(chan int)
	go func() { listDone <- do(r, http.MethodGet, "/snippets", "").Code }()
	select {
	case code := <-listDone:
		if code != http.StatusOK {
			t.Fatalf("list want 200, got %d", code)
		}
	case <-time.After(2 * time.Second):
		close(f.release)
		<-playlistDone
		t.Fatalf("list request waited on the playlist fetch")
	}

	close(f.release)
	if code := <-playlistDone; code != http.StatusOK {
		t.Fatalf("playlist want 200, got %d", code)
	}
}

func TestManagerErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		method   string
		path     string
		wantCode int
	}{
		{"ListInternal", errors.New("boom"), http.MethodGet, "/snippets", http.StatusInternalServerError},
		{"CreateInternal", errors.New("boom"), http.MethodPost, "/snippets", http.StatusInternalServerError},
		{"GetInternal", errors.New("boom"), http.MethodGet, "/snippets/x", http.StatusInternalServerError},
		{"DeleteAllInternal", errors.New("boom"), http.MethodDelete, "/snippets", http.StatusInternalServerError},
		{"NotInitialized", service.ErrNotInitialized, http.MethodPost, "/snippets", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newEngine(brokenManager{err: tt.err}), tt.method, tt.path, "")
			if w.Code != tt.wantCode {
				t.Fatalf("want %d, got %d", tt.wantCode, w.Code)
			}
		})
	}
}
