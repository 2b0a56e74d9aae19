package data

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roguepikachu/scriptlab/internal/config"
	"github.com/roguepikachu/scriptlab/internal/repository"
	"github.com/roguepikachu/scriptlab/internal/repository/cached"
	"github.com/roguepikachu/scriptlab/internal/repository/memory"
	"github.com/roguepikachu/scriptlab/internal/repository/postgres"
	redisrepo "github.com/roguepikachu/scriptlab/internal/repository/redis"
	"github.com/roguepikachu/scriptlab/pkg/logger"
)

// Backend is the configured snippet storage plus the clients behind it.
// Postgres and Redis are nil when the backend does not use them.
type Backend struct {
	Opener   repository.Opener
	Postgres *pgxpool.Pool
	Redis    *redis.Client
}

// Close releases the underlying clients.
func (b *Backend) Close() {
	if b.Postgres != nil {
		b.Postgres.Close()
	}
	if b.Redis != nil {
		_ = b.Redis.Close()
	}
}

// OpenBackend builds the store selected by c.Storage:
//
//	memory   - process memory, lost on exit
//	redis    - one Redis hash per namespace
//	postgres - snippets table, cached in Redis when REDIS_ADDR is set and CACHE_TTL_SECONDS > 0
func OpenBackend(ctx context.Context, c config.Config) (*Backend, error) {
	switch c.Storage {
	case "", config.StorageMemory:
		logger.Info(ctx, "using in-memory snippet storage")
		return &Backend{Opener: memory.NewOpener()}, nil

	case config.StorageRedis:
		client := NewRedisClient(c)
		logger.Info(ctx, "using redis snippet storage at %s", client.Options().Addr)
		return &Backend{Opener: redisrepo.NewOpener(client), Redis: client}, nil

	case config.StoragePostgres:
		pool, err := NewPostgresPool(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("postgres pool: %w", err)
		}
		primary := postgres.NewOpener(pool)
		if err := primary.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		b := &Backend{Opener: primary, Postgres: pool}
		if c.RedisAddr != "" && c.CacheTTL() > 0 {
			b.Redis = NewRedisClient(c)
			b.Opener = cached.NewOpener(primary, b.Redis, c.CacheTTL())
			logger.Info(ctx, "using postgres snippet storage with redis cache (ttl %s)", c.CacheTTL())
		} else {
			logger.Info(ctx, "using postgres snippet storage")
		}
		return b, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.Storage)
	}
}
