package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/roguepikachu/scriptlab/internal/domain"
)

func newClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func TestRedisStore_Roundtrip(t *testing.T) {
	ctx := context.Background()
	rcli, mr := newClient(t)
	store, err := NewOpener(rcli).Open(ctx, "excel_snippets")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	s := domain.Snippet{ID: "id1", Meta: &domain.Meta{Name: "Foo"}, Script: "run()", CreatedAt: now}
	if err := store.Add(ctx, s.ID, s); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !mr.Exists(KeyPrefix + "excel_snippets") {
		t.Fatalf("expected namespace hash to exist")
	}

	got, ok, err := store.Get(ctx, "id1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Name() != "Foo" || got.Script != "run()" || !got.CreatedAt.Equal(now) {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}

	_, ok, err = store.Get(ctx, "missing")
	if err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
}

func TestRedisStore_ValuesRemoveClear(t *testing.T) {
	ctx := context.Background()
	rcli, _ := newClient(t)
	store := NewSnippetStore(rcli, "ns")
	other := NewSnippetStore(rcli, "other")

	now := time.Now().UTC()
	_ = store.Insert(ctx, "b", domain.Snippet{ID: "b", CreatedAt: now.Add(time.Second)})
	_ = store.Insert(ctx, "a", domain.Snippet{ID: "a", CreatedAt: now})
	_ = other.Insert(ctx, "c", domain.Snippet{ID: "c", CreatedAt: now})

	vals, err := store.Values(ctx)
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	if len(vals) != 2 || vals[0].ID != "a" || vals[1].ID != "b" {
		t.Fatalf("unexpected values: %+v", vals)
	}

	if err := store.Remove(ctx, "a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	vals, _ = store.Values(ctx)
	if len(vals) != 1 {
		t.Fatalf("want 1 after remove, got %d", len(vals))
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	vals, _ = store.Values(ctx)
	if len(vals) != 0 {
		t.Fatalf("want empty after clear, got %d", len(vals))
	}
	if vals, _ := other.Values(ctx); len(vals) != 1 {
		t.Fatalf("clear must not touch other namespaces")
	}
}

func TestRedisStore_SkipsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	rcli, mr := newClient(t)
	store := NewSnippetStore(rcli, "ns")
	_ = store.Insert(ctx, "ok", domain.Snippet{ID: "ok"})
	mr.HSet(KeyPrefix+"ns", "bad", "{not json")

	vals, err := store.Values(ctx)
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	if len(vals) != 1 || vals[0].ID != "ok" {
		t.Fatalf("unexpected values: %+v", vals)
	}
}
