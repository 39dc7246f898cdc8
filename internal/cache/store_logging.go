package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"lyricsync-gateway/internal/lyrics"
	"lyricsync-gateway/internal/metrics"
	"lyricsync-gateway/pkg/logging/logging"
)

// LoggingStore wraps a Store with logging + metrics.
type LoggingStore struct {
	inner   Store
	backend string
}

// NewLoggingStore returns a store that logs and records metrics under backend.
func NewLoggingStore(inner Store, backend string) Store {
	return &LoggingStore{inner: inner, backend: backend}
}

func (s *LoggingStore) Get(ctx context.Context, key lyrics.Key) (*lyrics.Document, bool, error) {
	start := time.Now()
	doc, ok, err := s.inner.Get(ctx, key)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	result := "miss"
	if err != nil {
		result = "error"
	} else if ok {
		result = "hit"
	}
	metrics.StoreRequestsTotal.WithLabelValues(s.backend, "get", result).Inc()

	fields := append(s.fields(key, latencyMs), zap.String("store_result", result))

	logger := logging.L(ctx)
	if err != nil {
		logger.Error("store_get", append(fields, zap.Error(err))...)
	} else {
		logger.Debug("store_get", fields...)
	}

	return doc, ok, err
}

func (s *LoggingStore) Set(ctx context.Context, key lyrics.Key, doc *lyrics.Document) error {
	start := time.Now()
	err := s.inner.Set(ctx, key, doc)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.StoreRequestsTotal.WithLabelValues(s.backend, "set", result).Inc()

	fields := s.fields(key, latencyMs)

	logger := logging.L(ctx)
	if err != nil {
		logger.Error("store_set", append(fields, zap.Error(err))...)
	} else {
		logger.Debug("store_set", fields...)
	}

	return err
}

func (s *LoggingStore) fields(key lyrics.Key, latencyMs float64) []zap.Field {
	return []zap.Field{
		zap.String("cache_tier", "store"),
		zap.String("store_backend", s.backend),
		zap.String("store_key", StoreKey(key)),
		zap.String("title", key.Title),
		zap.String("artist", key.Artist),
		zap.Float64("latency_ms", latencyMs),
	}
}
