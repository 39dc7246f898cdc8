package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"lyricsync-gateway/internal/handlers"
	"lyricsync-gateway/internal/metrics"
	"lyricsync-gateway/internal/middleware"
)

func SetupRouter(
	r *chi.Mux,
	baseLogger *zap.Logger,
	lyricsHandler *handlers.LyricsHandler,
	health http.Handler,
	requestTimeout time.Duration,
) {
	r.Use(metrics.Middleware)

	// base middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	r.Use(middleware.RequestLogger(baseLogger))
	r.Use(middleware.Recoverer())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Get("/lyrics", lyricsHandler.GetLyrics)
		r.Get("/lyrics/state", lyricsHandler.GetState)
	})

	r.Method(http.MethodGet, "/healthz", health)
	r.Handle("/metrics", metrics.Handler())
}
