package redis

import (
	"github.com/redis/go-redis/v9"

	"escrowfund/config"
)

// NewClient builds the Redis client used by the ledger-height time source.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
