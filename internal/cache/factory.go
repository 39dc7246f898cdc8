package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	Backend string
	Prefix  string
	TTL     time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SQLitePath string
}

// Backend is a Store with a connection behind it.
type Backend interface {
	Store
	Ping(ctx context.Context) error
	Close() error
}

// NewBackend opens the secondary store named by cfg.Backend. The memory
// backend has no secondary tier and returns (nil, nil).
func NewBackend(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Backend {
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		// Fail fast if Redis is misconfigured
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		return NewRedisStore(client, RedisConfig{
			Prefix: cfg.Prefix,
			TTL:    cfg.TTL,
		}), nil

	case BackendSQLite:
		store, err := NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil

	case BackendMemory, "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
