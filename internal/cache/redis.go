package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lyricsync-gateway/internal/lyrics"
)

// RedisStore implements Store using Redis. Documents are stored as JSON.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type RedisConfig struct {
	Prefix string
	// TTL of each entry; 0 keeps entries forever.
	TTL time.Duration
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client, config RedisConfig) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: config.Prefix,
		ttl:    config.TTL,
	}
}

// key builds the final Redis key with prefix.
func (s *RedisStore) key(k lyrics.Key) string {
	if s.prefix == "" {
		return StoreKey(k)
	}
	return s.prefix + ":" + StoreKey(k)
}

func (s *RedisStore) Get(ctx context.Context, key lyrics.Key) (*lyrics.Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("context error: %w", err)
	}

	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var doc lyrics.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, fmt.Errorf("redis value is not a document: %w", err)
	}
	if doc.Empty() {
		return nil, false, nil
	}
	return &doc, true, nil
}

// Set stores doc, overwriting any previous value.
func (s *RedisStore) Set(ctx context.Context, key lyrics.Key, doc *lyrics.Document) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if err := s.client.Set(ctx, s.key(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Ping checks if Redis connection is healthy.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
