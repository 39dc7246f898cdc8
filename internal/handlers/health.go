package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"lyricsync-gateway/pkg/logging/logging"
)

// Health answers /healthz. Ping, when set, checks the secondary store.
type Health struct {
	Ping func(ctx context.Context) error
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.Ping(ctx); err != nil {
			logging.L(r.Context()).Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "store unavailable"})
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
