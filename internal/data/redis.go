package data

import (
	"github.com/go-redis/redis/v8"
	"github.com/roguepikachu/scriptlab/internal/config"
)

// NewRedisClient creates and returns a new Redis client using configuration.
func NewRedisClient(c config.Config) *redis.Client {
	redisAddr := c.RedisAddr
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
}
