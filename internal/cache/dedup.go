// Package cache deduplicates lyrics lookups.
//
// Each song key moves through Absent → InFlight → Resolved. Resolved is
// terminal for the life of the Cache; a failed fetch drops the key back to
// Absent so the next request tries again.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lyricsync-gateway/internal/lyrics"
	"lyricsync-gateway/internal/metrics"
	"lyricsync-gateway/pkg/logging/logging"
)

const DefaultFetchTimeout = 30 * time.Second

// State is what Get reports about a key.
type State int

const (
	StateAbsent State = iota
	StatePending
	StateResolved
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	default:
		return "absent"
	}
}

// Resolver produces a document for a song, or an error when none exists.
type Resolver interface {
	Resolve(ctx context.Context, song lyrics.SongIdentity, settings lyrics.Settings) (*lyrics.Document, error)
}

type Options struct {
	// Store is the optional secondary tier; nil disables it.
	Store Store
	// FetchTimeout bounds one shared fetch (default: 30s).
	FetchTimeout time.Duration
	Logger       *zap.Logger
}

// call is one in-flight fetch. doc and err are written once by the fetch
// goroutine before done is closed.
type call struct {
	id      string
	started time.Time
	done    chan struct{}
	doc     *lyrics.Document
	err     error
}

type Cache struct {
	resolver     Resolver
	store        Store
	fetchTimeout time.Duration
	logger       *zap.Logger

	// mu guards both resolved and inflight.
	mu       sync.Mutex
	resolved resolvedTier
	inflight map[lyrics.Key]*call
}

// New returns an empty cache in front of resolver.
func New(resolver Resolver, opts Options) *Cache {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Cache{
		resolver:     resolver,
		store:        opts.Store,
		fetchTimeout: opts.FetchTimeout,
		logger:       opts.Logger.Named("cache"),
		resolved:     newResolvedTier(),
		inflight:     make(map[lyrics.Key]*call),
	}
}

// Get reports what the cache holds for song without any network activity.
func (c *Cache) Get(song lyrics.SongIdentity) (*lyrics.Document, State) {
	key := song.Key()

	c.mu.Lock()
	defer c.mu.Unlock()

	if doc, ok := c.resolved.get(key); ok {
		return doc, StateResolved
	}
	if _, ok := c.inflight[key]; ok {
		return nil, StatePending
	}
	return nil, StateAbsent
}

// Len returns the number of resolved documents.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolved.len()
}

// Request returns the document for song. A resolved key answers at once;
// otherwise the caller joins the key's in-flight fetch, starting one if
// there is none.
//
// If ctx ends first the caller gets ctx.Err(); the fetch keeps running for
// everyone else and still fills the cache.
func (c *Cache) Request(ctx context.Context, song lyrics.SongIdentity, settings lyrics.Settings) (*lyrics.Document, error) {
	key := song.Key()

	c.mu.Lock()
	if doc, ok := c.resolved.get(key); ok {
		c.mu.Unlock()
		metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
		return doc, nil
	}

	cl, joined := c.inflight[key]
	if !joined {
		cl = &call{
			id:      uuid.NewString(),
			started: time.Now(),
			done:    make(chan struct{}),
		}
		c.inflight[key] = cl
		metrics.InflightFetches.Inc()
		go c.fetch(ctx, key, song, settings, cl)
	}
	c.mu.Unlock()

	logger := c.loggerFor(ctx).With(
		zap.String("song_key", key.String()),
		zap.String("fetch_id", cl.id),
	)
	if joined {
		metrics.CacheRequestsTotal.WithLabelValues("joined").Inc()
		logger.Debug("joined in-flight fetch")
	} else {
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
		logger.Info("fetch started")
	}

	select {
	case <-cl.done:
		return cl.doc, cl.err
	case <-ctx.Done():
		logger.Info("caller stopped waiting", zap.Error(ctx.Err()))
		return nil, ctx.Err()
	}
}

// fetch settles cl. It runs on a context that ignores the starting caller's
// cancellation so other waiters are not cut off.
func (c *Cache) fetch(parent context.Context, key lyrics.Key, song lyrics.SongIdentity, settings lyrics.Settings, cl *call) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), c.fetchTimeout)
	defer cancel()

	logger := c.loggerFor(ctx).With(
		zap.String("song_key", key.String()),
		zap.String("fetch_id", cl.id),
	)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("fetch panicked",
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			cl.doc, cl.err = nil, fmt.Errorf("lyrics fetch panicked: %v", rec)
		}

		fields := []zap.Field{zap.Duration("duration", time.Since(cl.started))}
		if cl.err != nil {
			logger.Info("fetch failed", append(fields, zap.Error(cl.err))...)
		} else {
			logger.Info("fetch settled", append(fields, zap.String("source", cl.doc.Metadata.Source))...)
		}

		c.mu.Lock()
		if cl.err == nil {
			c.resolved.put(key, cl.doc)
		}
		delete(c.inflight, key)
		c.mu.Unlock()

		metrics.InflightFetches.Dec()
		close(cl.done)
	}()

	cl.doc, cl.err = c.load(ctx, logger, key, song, settings)
}

// load consults the secondary store, then the resolver, and writes a fresh
// result back to the store.
func (c *Cache) load(
	ctx context.Context,
	logger *zap.Logger,
	key lyrics.Key,
	song lyrics.SongIdentity,
	settings lyrics.Settings,
) (*lyrics.Document, error) {
	if c.store != nil {
		// store errors are treated as a miss
		if doc, ok, err := c.store.Get(ctx, key); err == nil && ok && !doc.Empty() {
			logger.Debug("served from store")
			return doc, nil
		}
	}

	doc, err := c.resolver.Resolve(ctx, song, settings)
	if err != nil {
		return nil, err
	}
	if doc.Empty() {
		return nil, lyrics.ResolutionError(song)
	}

	if c.store != nil {
		if err := c.store.Set(ctx, key, doc); err != nil {
			logger.Warn("store write failed", zap.Error(err))
		}
	}
	return doc, nil
}

// loggerFor prefers the request-scoped logger carried by ctx.
func (c *Cache) loggerFor(ctx context.Context) *zap.Logger {
	if l, ok := logging.Lookup(ctx); ok {
		return l.Named("cache")
	}
	return c.logger
}
