// Package cache is the typed cache-aside layer over Redis. Records are
// stored as JSON snapshots under "<table>:<id>" keys with a configured TTL.
// Reads populate the cache on miss; every mutator invalidates after its
// transaction commits and never refreshes the cache from a just-written
// value.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkrupp/homegallery/internal/infra/logging"
	"github.com/mkrupp/homegallery/internal/store"
)

// Config holds configuration for the Redis cache.
type Config struct {
	// Addr is the host:port of the Redis server.
	Addr string `env:"ADDR" default:"localhost:6379"`

	// Password authenticates against the server; empty disables auth.
	Password string `env:"PASSWORD" default:""`

	// DB selects the Redis logical database.
	DB int `env:"DB" default:"0"`

	// TTL is the expiration of cached records in seconds.
	TTL int64 `env:"TTL" default:"3600"`
}

// Cache wraps a Redis client with entity key conventions.
type Cache struct {
	db  *redis.Client
	ttl time.Duration
	log logging.Logger
}

// Open connects to Redis and verifies the connection with a ping.
func Open(ctx context.Context, cfg Config) (*Cache, error) {
	log := logging.GetLogger("cache.cache").With(
		logging.Group("redis", "addr", cfg.Addr, "db", cfg.DB),
	)

	db := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Cache{
		db:  db,
		ttl: time.Duration(cfg.TTL) * time.Second,
		log: log,
	}, nil
}

// Key returns the cache key for a record kind and id.
func Key(table string, id int64) string {
	return table + ":" + strconv.FormatInt(id, 10)
}

// Set serializes the record and stores it under its key with the configured
// TTL.
func (c *Cache) Set(ctx context.Context, e store.Entity) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.Table(), err)
	}

	key := Key(e.Table(), e.EntityID())

	if err := c.db.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	c.log.DebugContext(ctx, "cache set", "key", key)

	return nil
}

// Get loads the record stored under the key into dest. A missing or expired
// key is a miss, not an error.
func (c *Cache) Get(ctx context.Context, table string, id int64, dest any) (bool, error) {
	key := Key(table, id)

	value, err := c.db.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.log.DebugContext(ctx, "cache miss", "key", key)

			return false, nil
		}

		return false, fmt.Errorf("get %s: %w", key, err)
	}

	if err := json.Unmarshal(value, dest); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}

	c.log.DebugContext(ctx, "cache hit", "key", key)

	return true, nil
}

// Delete drops the record's key. Deleting an absent key is not an error.
func (c *Cache) Delete(ctx context.Context, e store.Entity) error {
	key := Key(e.Table(), e.EntityID())

	if err := c.db.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	c.log.DebugContext(ctx, "cache delete", "key", key)

	return nil
}

// DeleteAll drops every key of one record kind. Used rarely, e.g. after a
// bulk comment purge.
func (c *Cache) DeleteAll(ctx context.Context, table string) error {
	keys, err := c.db.Keys(ctx, table+":*").Result()
	if err != nil {
		return fmt.Errorf("keys %s: %w", table, err)
	}

	for _, key := range keys {
		if err := c.db.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}

	c.log.DebugContext(ctx, "cache delete all", "table", table, "keys", len(keys))

	return nil
}

// Close closes the underlying Redis client.
func (c *Cache) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close redis: %w", err)
	}

	return nil
}
