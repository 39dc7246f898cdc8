package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"lyricsync-gateway/internal/cache"
	"lyricsync-gateway/internal/config"
	"lyricsync-gateway/internal/lyrics"
	"lyricsync-gateway/internal/providers"
	"lyricsync-gateway/internal/resolver"
	"lyricsync-gateway/pkg/logging/logging"
)

// gateway is everything a command needs, built from one config.
type gateway struct {
	cfg     *config.Config
	logger  *zap.Logger
	cache   *cache.Cache
	backend cache.Backend // nil for the memory backend
	closers []func() error
}

func buildGateway(ctx context.Context, cfgPath string) (*gateway, error) {
	// ----- Config -----
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	// ----- Logger -----
	logger, err := logging.NewLogger(logging.Options{
		Env:   cfg.Logger.Env,
		Level: cfg.Logger.Level,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logging.SetDefault(logger)

	logger.Info("loaded config",
		zap.String("config_path", cfgPath),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("preferred_provider", cfg.Providers.Preferred),
		zap.String("lyricsplus_base_url", cfg.Providers.LyricsPlus.BaseURL),
		zap.String("lrclib_base_url", cfg.Providers.LRCLib.BaseURL),
	)

	g := &gateway{cfg: cfg, logger: logger}

	// ----- Secondary store (redis / sqlite) -----
	backend, err := cache.NewBackend(ctx, cache.Config{
		Backend:       cfg.Cache.Backend,
		Prefix:        cfg.Cache.Prefix,
		TTL:           cfg.Cache.TTL,
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
		SQLitePath:    cfg.Cache.SQLitePath,
	})
	if err != nil {
		logger.Error("store connection failed", zap.Error(err))
		return nil, err
	}
	var store cache.Store
	if backend != nil {
		g.backend = backend
		g.closers = append(g.closers, backend.Close)
		store = cache.NewLoggingStore(backend, cfg.Cache.Backend)
		logger.Info("secondary store ready", zap.String("backend", cfg.Cache.Backend))
	}

	// ----- Providers -----
	var chain []lyrics.Provider

	if pc := cfg.Providers.LyricsPlus; pc.Enabled {
		p, err := providers.NewLyricsPlus(providerConfig(pc), pc.SourceTag, logger)
		if err != nil {
			g.Close()
			return nil, err
		}
		g.closers = append(g.closers, p.Close)
		chain = append(chain, p)
	}
	if pc := cfg.Providers.LRCLib; pc.Enabled {
		p, err := providers.NewLRCLib(providerConfig(pc), logger)
		if err != nil {
			g.Close()
			return nil, err
		}
		g.closers = append(g.closers, p.Close)
		chain = append(chain, p)
	}

	// ----- Resolver + cache -----
	res := resolver.New(logger, chain...)
	g.cache = cache.New(res, cache.Options{
		Store:        store,
		FetchTimeout: cfg.Cache.FetchTimeout,
		Logger:       logger,
	})

	return g, nil
}

func providerConfig(pc config.Provider) providers.Config {
	return providers.Config{
		BaseURL:     pc.BaseURL,
		UserAgent:   pc.UserAgent,
		Timeout:     pc.Timeout,
		MaxRetries:  pc.MaxRetries,
		BaseBackoff: pc.BaseBackoff,
		RateLimit:   pc.RateLimit,
	}
}

// defaultSettings applies the configured provider preference.
func (g *gateway) defaultSettings() lyrics.Settings {
	return lyrics.Settings{PreferredProvider: lyrics.ProviderName(g.cfg.Providers.Preferred)}
}

// ping checks the secondary store, if there is one.
func (g *gateway) ping(ctx context.Context) error {
	if g.backend == nil {
		return nil
	}
	return g.backend.Ping(ctx)
}

func (g *gateway) Close() error {
	var errs []error
	for i := len(g.closers) - 1; i >= 0; i-- {
		if err := g.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	_ = g.logger.Sync()
	return errors.Join(errs...)
}
