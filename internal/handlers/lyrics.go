package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"lyricsync-gateway/internal/cache"
	"lyricsync-gateway/internal/lyrics"
	"lyricsync-gateway/pkg/logging/logging"
)

// LyricsService is the part of *cache.Cache the HTTP layer needs.
type LyricsService interface {
	Request(ctx context.Context, song lyrics.SongIdentity, settings lyrics.Settings) (*lyrics.Document, error)
	Get(song lyrics.SongIdentity) (*lyrics.Document, cache.State)
}

// LyricsHandler holds dependencies for the /v1/lyrics endpoints.
type LyricsHandler struct {
	Service  LyricsService
	Defaults lyrics.Settings
}

func NewLyricsHandler(svc LyricsService, defaults lyrics.Settings) *LyricsHandler {
	return &LyricsHandler{
		Service:  svc,
		Defaults: defaults,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type stateResponse struct {
	Key   string `json:"key"`
	State string `json:"state"`
}

// GetLyrics handles GET /v1/lyrics?title=&artist=[&album=][&duration=][&provider=].
func (h *LyricsHandler) GetLyrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)
	start := time.Now()

	song, err := parseSong(r)
	if err != nil {
		logger.Warn("invalid request", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	settings := h.Defaults
	if p := r.URL.Query().Get("provider"); p != "" {
		name, ok := parseProvider(p)
		if !ok {
			logger.Warn("unknown provider", zap.String("provider", p))
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown provider " + strconv.Quote(p)})
			return
		}
		settings.PreferredProvider = name
	}

	_, before := h.Service.Get(song)

	doc, err := h.Service.Request(ctx, song, settings)
	if err != nil {
		status, msg := statusFor(err)
		logger.Info("lyrics_request",
			zap.String("title", song.Title),
			zap.String("artist", song.Artist),
			zap.String("cache_state", before.String()),
			zap.Int("status", status),
			zap.Duration("total_latency_ms", time.Since(start)),
			zap.Error(err),
		)
		writeJSON(w, status, errorResponse{Error: msg})
		return
	}

	logger.Info("lyrics_request",
		zap.String("title", song.Title),
		zap.String("artist", song.Artist),
		zap.String("cache_state", before.String()),
		zap.String("type", string(doc.Type)),
		zap.String("source", doc.Metadata.Source),
		zap.Int("lines", len(doc.Lines)),
		zap.Duration("total_latency_ms", time.Since(start)),
	)

	writeJSON(w, http.StatusOK, doc)
}

// GetState handles GET /v1/lyrics/state?title=&artist=. It never triggers a fetch.
func (h *LyricsHandler) GetState(w http.ResponseWriter, r *http.Request) {
	song, err := parseSong(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	_, state := h.Service.Get(song)
	writeJSON(w, http.StatusOK, stateResponse{
		Key:   song.Key().String(),
		State: state.String(),
	})
}

func parseSong(r *http.Request) (lyrics.SongIdentity, error) {
	q := r.URL.Query()

	song := lyrics.SongIdentity{
		Title:  q.Get("title"),
		Artist: q.Get("artist"),
		Album:  q.Get("album"),
	}
	if strings.TrimSpace(song.Title) == "" || strings.TrimSpace(song.Artist) == "" {
		return lyrics.SongIdentity{}, errors.New("title and artist are required")
	}

	if raw := q.Get("duration"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil || d < 0 {
			return lyrics.SongIdentity{}, errors.New("duration must be a non-negative number of seconds")
		}
		song.Duration = d
	}
	return song, nil
}

func parseProvider(s string) (lyrics.ProviderName, bool) {
	switch name := lyrics.ProviderName(s); name {
	case lyrics.ProviderLyricsPlus, lyrics.ProviderLRCLib:
		return name, true
	default:
		return "", false
	}
}

// statusFor maps a lookup error to an HTTP status and a client-facing message.
func statusFor(err error) (int, string) {
	switch {
	case lyrics.KindOf(err) == lyrics.KindResolution:
		return http.StatusNotFound, lyrics.ErrNoLyricsFound.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, "lyrics lookup timed out"
	default:
		return http.StatusBadGateway, "lyrics lookup failed"
	}
}

// writeJSON is a small helper to send JSON responses consistently.
// The body is encoded before the status goes out, so an unencodable value
// becomes a 500 rather than a truncated 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "response encoding failed"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
