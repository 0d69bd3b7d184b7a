// Package redis caches rendered assessment results so repeated queries over
// the same context skip re-scoring.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/turtacn/ESG-Sentinel/internal/config"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/ESG-Sentinel/pkg/errors"
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = apperrors.New(apperrors.CodeNotFound, "cache miss")

// Cache is a JSON value cache with a key prefix and default TTL.
type Cache struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	logger logging.Logger
}

// NewCache connects to Redis and verifies the connection.
func NewCache(ctx context.Context, cfg config.RedisConfig, logger logging.Logger) (*Cache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "redis connection failed")
	}

	logger.Info("connected to redis", logging.String("addr", cfg.Addr))
	return &Cache{
		client: client,
		prefix: cfg.KeyPrefix,
		ttl:    cfg.DefaultTTL,
		logger: logger.Named("redis.cache"),
	}, nil
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// Get unmarshals the cached value at key into dest. Returns ErrCacheMiss
// when absent.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeCacheError, "cache read failed")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return apperrors.Wrap(err, apperrors.CodeSerialization, "failed to decode cached value")
	}
	return nil
}

// Set stores value at key with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeSerialization, "failed to encode cache value")
	}
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeCacheError, "cache write failed")
	}
	return nil
}

// Delete removes key if present.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeCacheError, "cache delete failed")
	}
	return nil
}

// HealthCheck verifies Redis still answers.
func (c *Cache) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeCacheError, "redis health check failed")
	}
	return nil
}

// Close releases the client.
func (c *Cache) Close() error {
	return c.client.Close()
}
