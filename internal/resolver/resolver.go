// Package resolver walks an ordered list of lyrics providers and returns
// the first usable document.
package resolver

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"lyricsync-gateway/internal/lyrics"
	"lyricsync-gateway/internal/metrics"
)

type Resolver struct {
	providers []lyrics.Provider
	logger    *zap.Logger
}

// New keeps providers in the given order. The first one is the default
// primary; Settings.PreferredProvider can promote another to the front.
func New(logger *zap.Logger, providers ...lyrics.Provider) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		providers: providers,
		logger:    logger.Named("resolver"),
	}
}

// Providers reports the configured provider names in default order.
func (r *Resolver) Providers() []lyrics.ProviderName {
	names := make([]lyrics.ProviderName, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name())
	}
	return names
}

// Resolve tries providers strictly in sequence and stops at the first
// non-empty document. Provider failures are logged and skipped; when every
// provider comes back empty the result is a resolution failure.
func (r *Resolver) Resolve(ctx context.Context, song lyrics.SongIdentity, settings lyrics.Settings) (*lyrics.Document, error) {
	logger := r.logger.With(
		zap.String("song_key", song.Key().String()),
	)

	for _, p := range r.order(settings.PreferredProvider) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		doc, err := r.call(ctx, p, song)

		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("provider failed, falling back",
				zap.String("provider", string(p.Name())),
				zap.String("kind", lyrics.KindOf(err).String()),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
		case doc.Empty():
			logger.Debug("provider had no lyrics",
				zap.String("provider", string(p.Name())),
				zap.Duration("duration", time.Since(start)),
			)
		default:
			metrics.ResolutionsTotal.WithLabelValues("found").Inc()
			logger.Info("lyrics resolved",
				zap.String("provider", string(p.Name())),
				zap.String("type", string(doc.Type)),
				zap.Int("lines", len(doc.Lines)),
			)
			return doc, nil
		}
	}

	metrics.ResolutionsTotal.WithLabelValues("not_found").Inc()
	logger.Info("no provider had lyrics")
	return nil, lyrics.ResolutionError(song)
}

// call shields the loop from a misbehaving provider.
func (r *Resolver) call(ctx context.Context, p lyrics.Provider, song lyrics.SongIdentity) (doc *lyrics.Document, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("provider panicked",
				zap.String("provider", string(p.Name())),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			doc, err = nil, lyrics.TransportError(p.Name(), "fetch", errors.New("provider panicked"))
		}
	}()
	return p.Fetch(ctx, song)
}

// order returns the providers with preferred moved to the front. Unknown or
// empty names leave the default order untouched.
func (r *Resolver) order(preferred lyrics.ProviderName) []lyrics.Provider {
	if preferred == "" || len(r.providers) < 2 || r.providers[0].Name() == preferred {
		return r.providers
	}

	idx := -1
	for i, p := range r.providers {
		if p.Name() == preferred {
			idx = i
			break
		}
	}
	if idx < 0 {
		return r.providers
	}

	ordered := make([]lyrics.Provider, 0, len(r.providers))
	ordered = append(ordered, r.providers[idx])
	ordered = append(ordered, r.providers[:idx]...)
	ordered = append(ordered, r.providers[idx+1:]...)
	return ordered
}
