// Package handler provides HTTP handler functions for the Scriptlab API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/roguepikachu/scriptlab/internal/domain"
	"github.com/roguepikachu/scriptlab/internal/service"
	"github.com/roguepikachu/scriptlab/pkg"
	"github.com/roguepikachu/scriptlab/pkg/logger"
)

// SnippetManager defines the handler's dependency contract.
type SnippetManager interface {
	Host() domain.HostContext
	Local(ctx context.Context) ([]domain.Snippet, error)
	New(ctx context.Context) (domain.Snippet, error)
	Find(ctx context.Context, id string) (domain.Snippet, error)
	Save(ctx context.Context, s *domain.Snippet) error
	Duplicate(ctx context.Context, s domain.Snippet) (domain.Snippet, error)
	Delete(ctx context.Context, s *domain.Snippet, askForConfirmation bool) (service.DeleteResult, error)
	DeleteAll(ctx context.Context, askForConfirmation bool) (service.DeleteResult, error)
	Playlist(ctx context.Context) (domain.Gallery, error)
}

// Handler handles HTTP requests for snippets.
//
// The manager is not safe for concurrent use, so every call that touches the
// store holds mu. Playlist reads only state fixed at initialization and must
// not hold mu across the remote fetch.
type Handler struct {
	mu  sync.Mutex
	mgr SnippetManager
}

// NewHandler constructs a Handler with the given SnippetManager.
func NewHandler(mgr SnippetManager) *Handler {
	return &Handler{mgr: mgr}
}

var errInternal = pkg.NewError("internal_error", "internal server error")

// fail maps manager errors onto HTTP responses.
func fail(c *gin.Context, op string, err error) {
	ctx := c.Request.Context()
	var verr *domain.ValidationError
	var rerr *service.RemoteFetchError
	switch {
	case errors.As(err, &verr):
		logger.With(ctx, map[string]any{"op": op, "field": verr.Field}).Warn(verr.Reason)
		c.JSON(http.StatusBadRequest, pkg.NewError("validation_error", verr.Reason).WithDetails(verr.Field))
	case errors.As(err, &rerr):
		resp := pkg.NewError("remote_fetch_failed", "playlist unavailable")
		resp.Error.Messages = rerr.Messages
		c.JSON(http.StatusBadGateway, resp)
	case errors.Is(err, service.ErrNotInitialized):
		c.JSON(http.StatusServiceUnavailable, pkg.NewError("unavailable", err.Error()))
	default:
		logger.Error(ctx, "failed to %s: %s", op, err.Error())
		c.JSON(http.StatusInternalServerError, errInternal)
	}
}

// find loads the snippet named by the :id param, writing 404 when it is absent.
func (h *Handler) find(c *gin.Context) (domain.Snippet, bool) {
	id := c.Param("id")
	s, err := h.mgr.Find(c.Request.Context(), id)
	if err != nil {
		fail(c, "find snippet", err)
		return s, false
	}
	if s.IsEmpty() {
		c.JSON(http.StatusNotFound, pkg.NewError("not_found", "not found").WithDetails(id))
		return s, false
	}
	return s, true
}

// askForConfirmation is false only when the caller passes ?confirm=false.
func askForConfirmation(c *gin.Context) bool {
	return c.Query("confirm") != "false"
}

func deleteResponse(c *gin.Context, res service.DeleteResult) {
	c.JSON(http.StatusOK, domain.DeleteResponseDTO{Status: res.Status.String(), Reason: res.Reason})
}

// List returns every snippet of the bound namespace.
func (h *Handler) List(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ctx := c.Request.Context()
	items, err := h.mgr.Local(ctx)
	if err != nil {
		fail(c, "list snippets", err)
		return
	}
	logger.With(ctx, map[string]any{"count": len(items)}).Debug("snippets listed")
	list := make([]domain.SnippetListItemDTO, 0, len(items))
	for _, s := range items {
		item := domain.SnippetListItemDTO{ID: s.ID, Name: s.Name()}
		if !s.CreatedAt.IsZero() {
			item.CreatedAt = s.CreatedAt.UTC().Format(domain.TimeFormat)
		}
		list = append(list, item)
	}
	c.JSON(http.StatusOK, domain.ListSnippetsResponseDTO{Namespace: h.mgr.Host().Namespace(), Items: list})
}

// Create stores a blank snippet for the bound host.
func (h *Handler) Create(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ctx := c.Request.Context()
	s, err := h.mgr.New(ctx)
	if err != nil {
		fail(c, "create snippet", err)
		return
	}
	logger.With(ctx, map[string]any{"id": s.ID, "name": s.Name()}).Info("snippet created")
	c.JSON(http.StatusCreated, domain.NewSnippetResponse(s))
}

// Get handles fetching a snippet by ID.
func (h *Handler) Get(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, domain.NewSnippetResponse(s))
}

// Update merges the request body into the stored snippet and saves it.
func (h *Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	var req domain.UpdateSnippetRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error(ctx, "failed to bind JSON: %s", err.Error())
		c.JSON(http.StatusBadRequest, pkg.NewError("bad_request", "invalid request").WithDetails(err.Error()))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.find(c)
	if !ok {
		return
	}
	if req.Name != nil {
		if s.Meta == nil {
			s.Meta = &domain.Meta{}
		}
		s.Meta.Name = *req.Name
	}
	if req.Script != nil {
		s.Script = *req.Script
	}
	if req.Libraries != nil {
		s.Libraries = *req.Libraries
	}
	if err := h.mgr.Save(ctx, &s); err != nil {
		fail(c, "save snippet", err)
		return
	}
	c.JSON(http.StatusOK, domain.NewSnippetResponse(s))
}

// Duplicate stores a copy of the snippet under a "(Copy)" name.
func (h *Handler) Duplicate(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.find(c)
	if !ok {
		return
	}
	dup, err := h.mgr.Duplicate(c.Request.Context(), s)
	if err != nil {
		fail(c, "duplicate snippet", err)
		return
	}
	c.JSON(http.StatusCreated, domain.NewSnippetResponse(dup))
}

// Delete removes one snippet. Unless ?confirm=false is given, the X-Confirm
// header must answer the confirmation prompt; otherwise the delete is aborted.
func (h *Handler) Delete(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.find(c)
	if !ok {
		return
	}
	res, err := h.mgr.Delete(c.Request.Context(), &s, askForConfirmation(c))
	if err != nil {
		fail(c, "delete snippet", err)
		return
	}
	deleteResponse(c, res)
}

// DeleteAll clears the namespace with the same confirmation rules as Delete.
func (h *Handler) DeleteAll(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	res, err := h.mgr.DeleteAll(c.Request.Context(), askForConfirmation(c))
	if err != nil {
		fail(c, "delete all snippets", err)
		return
	}
	deleteResponse(c, res)
}

// Playlist returns the remote gallery of starter snippets for the bound host.
func (h *Handler) Playlist(c *gin.Context) {
	g, err := h.mgr.Playlist(c.Request.Context())
	if err != nil {
		fail(c, "fetch playlist", err)
		return
	}
	c.JSON(http.StatusOK, g)
}
