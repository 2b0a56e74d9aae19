package playlist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roguepikachu/scriptlab/internal/domain"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/snippets/excel.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"groups":[{"name":"Basics","items":[{"name":"Range","description":"Set a range","gistId":"abc123"}]}]}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/assets/snippets/", WithHTTPClient(srv.Client()))
	g, err := f.Fetch(context.Background(), domain.LookupHost("excel"))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(g.Groups) != 1 || g.Groups[0].Items[0].GistID != "abc123" {
		t.Fatalf("unexpected gallery: %+v", g)
	}
}

func TestHTTPFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL)
	_, err := f.Fetch(context.Background(), domain.LookupHost("word"))
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404, got %d", se.StatusCode)
	}
}

func TestHTTPFetcher_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"groups":`))
	}))
	defer srv.Close()

	if _, err := NewHTTPFetcher(srv.URL).Fetch(context.Background(), domain.LookupHost("web")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestHTTPFetcher_URL(t *testing.T) {
	f := NewHTTPFetcher("http://example.test/assets/snippets//")
	if got := f.URL(domain.LookupHost("excel")); got != "http://example.test/assets/snippets/excel.json" {
		t.Fatalf("unexpected url %s", got)
	}
}
