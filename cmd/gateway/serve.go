package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"lyricsync-gateway/internal/handlers"
	"lyricsync-gateway/internal/httpserver"
	"lyricsync-gateway/internal/metrics"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP lyrics gateway",
		Flags:  []cli.Flag{configFlag()},
		Action: serve,
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	g, err := buildGateway(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer g.Close()

	logger := g.logger
	cfg := g.cfg

	// ----- Metrics -----
	metrics.Register()

	// ----- Handlers -----
	lyricsHandler := handlers.NewLyricsHandler(g.cache, g.defaultSettings())
	health := &handlers.Health{}
	if g.backend != nil {
		health.Ping = g.ping
	}

	// ----- Router + middleware -----
	r := chi.NewRouter()
	httpserver.SetupRouter(r, logger, lyricsHandler, health, cfg.Server.RequestTimeout)

	// ----- HTTP server -----
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting gateway",
		zap.String("addr", srv.Addr),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// ----- Graceful shutdown -----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		logger.Info("shutdown signal received")
	case err := <-serveErr:
		logger.Error("server error", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server shutdown complete")
	return nil
}
