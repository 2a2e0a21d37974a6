package repository

import (
	"context"
	"encoding/json"
	"sekarnet/domain"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const packageCacheKey = "cache:packages:all"

type redisPackageCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPackageCache returns nil when rdb is nil so callers skip caching.
func NewPackageCache(rdb *redis.Client, ttl time.Duration) domain.PackageCache {
	if rdb == nil {
		return nil
	}
	return &redisPackageCache{rdb: rdb, ttl: ttl}
}

func (c *redisPackageCache) Get(ctx context.Context) ([]domain.Package, bool) {
	raw, err := c.rdb.Get(ctx, packageCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("package cache read failed")
		}
		return nil, false
	}
	var pkgs []domain.Package
	if err := json.Unmarshal(raw, &pkgs); err != nil {
		return nil, false
	}
	return pkgs, true
}

func (c *redisPackageCache) Set(ctx context.Context, pkgs []domain.Package) {
	raw, err := json.Marshal(pkgs)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, packageCacheKey, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("package cache write failed")
	}
}

func (c *redisPackageCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, packageCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("package cache invalidate failed")
	}
}
