// Package playlist fetches the per-host gallery of sample snippets.
package playlist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/roguepikachu/scriptlab/internal/domain"
	"github.com/roguepikachu/scriptlab/pkg/logger"
)

// DefaultTimeout bounds a single fetch when no client is supplied.
const DefaultTimeout = 10 * time.Second

// maxBody caps how much of a gallery document is read.
const maxBody = 4 << 20

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// HTTPFetcher fetches <base>/<host key>.json.
type HTTPFetcher struct {
	base   string
	client *http.Client
}

// Option configures the fetcher.
type Option func(*HTTPFetcher)

// WithHTTPClient overrides the client used for requests.
func WithHTTPClient(c *http.Client) Option { return func(f *HTTPFetcher) { f.client = c } }

// NewHTTPFetcher creates a fetcher rooted at base.
func NewHTTPFetcher(base string, opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL returns the gallery location for host.
func (f *HTTPFetcher) URL(host domain.HostContext) string {
	return f.base + "/" + url.PathEscape(host.Key) + ".json"
}

// Fetch downloads and decodes the gallery for host.
func (f *HTTPFetcher) Fetch(ctx context.Context, host domain.HostContext) (domain.Gallery, error) {
	u := f.URL(host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Gallery{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.Gallery{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Gallery{}, &StatusError{URL: u, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	var g domain.Gallery
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&g); err != nil {
		return domain.Gallery{}, fmt.Errorf("decode gallery: %w", err)
	}
	logger.With(ctx, map[string]any{"url": u, "groups": len(g.Groups)}).Debug("playlist fetched")
	return g, nil
}
