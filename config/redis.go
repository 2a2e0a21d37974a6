package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedisDB returns nil when no address is configured or the server is
// unreachable; callers treat a nil client as "no cache, no rate limit".
func InitRedisDB(cfg RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		log.Print("⚠️ REDIS_ADDR not set, running without cache and rate limiting")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("⚠️ Failed to connect to Redis, continuing without it: %v", err)
		_ = rdb.Close()
		return nil
	}

	return rdb
}
