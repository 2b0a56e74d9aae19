package data

import (
	"context"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/roguepikachu/scriptlab/internal/config"
	"github.com/roguepikachu/scriptlab/internal/domain"
	"github.com/roguepikachu/scriptlab/internal/repository/memory"
	redisrepo "github.com/roguepikachu/scriptlab/internal/repository/redis"
)

func TestOpenBackend_Memory(t *testing.T) {
	b, err := OpenBackend(context.Background(), config.Config{Storage: config.StorageMemory})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()
	if _, ok := b.Opener.(*memory.Opener); !ok {
		t.Fatalf("want memory opener, got %T", b.Opener)
	}
	if b.Redis != nil || b.Postgres != nil {
		t.Fatalf("memory backend must not hold clients")
	}
}

func TestOpenBackend_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	b, err := OpenBackend(ctx, config.Config{Storage: config.StorageRedis, RedisAddr: mr.Addr()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()
	if _, ok := b.Opener.(*redisrepo.Opener); !ok {
		t.Fatalf("want redis opener, got %T", b.Opener)
	}
	store, _ := b.Opener.Open(ctx, "web_snippets")
	if err := store.Add(ctx, "a", domain.Snippet{ID: "a"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !mr.Exists(redisrepo.KeyPrefix + "web_snippets") {
		t.Fatalf("expected data in redis")
	}
}

func TestOpenBackend_Unknown(t *testing.T) {
	if _, err := OpenBackend(context.Background(), config.Config{Storage: "floppy"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestPostgresDSN(t *testing.T) {
	got := PostgresDSN(config.Config{PostgresPassword: "pw"})
	if got != "postgres://postgres:pw@127.0.0.1:5432/scriptlab?sslmode=disable" {
		t.Fatalf("unexpected dsn %s", got)
	}
	if got := PostgresDSN(config.Config{PostgresURL: "postgres://x"}); got != "postgres://x" {
		t.Fatalf("url should win, got %s", got)
	}
	if !strings.Contains(PostgresDSN(config.Config{PostgresHost: "db", PostgresSSLMode: "require"}), "@db:5432/scriptlab?sslmode=require") {
		t.Fatalf("host/sslmode not applied")
	}
}
