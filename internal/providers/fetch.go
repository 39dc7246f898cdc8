package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"lyricsync-gateway/internal/lyrics"
	"lyricsync-gateway/internal/metrics"
	"lyricsync-gateway/internal/normalize"
)

const maxResponseSize = 4 * 1024 * 1024 // 4MB; synced word-level payloads are well below this

// fetch performs one GET against the provider and normalizes the answer.
//
// Non-2xx statuses and payloads the normalizer cannot use return (nil, nil).
// Only failures to reach the provider or to read a JSON body return an error.
func (u *upstream) fetch(
	parentCtx context.Context,
	path string,
	query url.Values,
	song lyrics.SongIdentity,
	n normalize.Normalizer,
) (*lyrics.Document, error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.ProviderRequestsTotal.WithLabelValues(string(u.name), outcome).Inc()
		metrics.ProviderLatencySeconds.WithLabelValues(string(u.name)).Observe(time.Since(start).Seconds())
	}()

	logger := u.logger.With(
		zap.String("title", song.Title),
		zap.String("artist", song.Artist),
	)

	if err := u.limiter.Wait(parentCtx); err != nil {
		return nil, lyrics.TransportError(u.name, "rate limit", err)
	}

	ctx, cancel := context.WithTimeout(parentCtx, u.cfg.Timeout)
	defer cancel()

	reqURL := u.cfg.BaseURL + path + "?" + query.Encode()

	doOnce := func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build HTTP request: %w", err)
		}
		req.Header.Set("User-Agent", u.cfg.UserAgent)
		req.Header.Set("Accept", "application/json")
		return u.httpClient.Do(req)
	}

	resp, err := u.doWithRetry(ctx, doOnce)
	if err != nil {
		logger.Warn("provider request failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, lyrics.TransportError(u.name, "request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = "not_found"
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		msg := truncate(string(body), 200)
		var uerr upstreamError
		if err := json.Unmarshal(body, &uerr); err == nil && uerr.text() != "" {
			msg = uerr.text()
		}
		logger.Info("provider returned no lyrics",
			zap.Int("status", resp.StatusCode),
			zap.String("upstream_message", msg),
		)
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, lyrics.TransportError(u.name, "read body", err)
	}
	if !json.Valid(body) {
		logger.Warn("provider sent malformed body", zap.String("body", truncate(string(body), 200)))
		return nil, lyrics.TransportError(u.name, "decode", fmt.Errorf("malformed response body"))
	}

	doc := n.Normalize(body)
	if doc.Empty() {
		outcome = "not_found"
		logger.Warn("provider response carried no synced lyrics",
			zap.Int("bytes", len(body)),
		)
		return nil, nil
	}

	fillMetadata(doc, song)
	outcome = "found"

	logger.Info("provider returned lyrics",
		zap.String("type", string(doc.Type)),
		zap.Int("lines", len(doc.Lines)),
		zap.String("source", doc.Metadata.Source),
		zap.Duration("duration", time.Since(start)),
	)
	return doc, nil
}

// fillMetadata backfills identity fields the provider left blank.
func fillMetadata(doc *lyrics.Document, song lyrics.SongIdentity) {
	if doc.Metadata.Title == "" {
		doc.Metadata.Title = song.Title
	}
	if doc.Metadata.Artist == "" {
		doc.Metadata.Artist = song.Artist
	}
	if doc.Metadata.Album == "" {
		doc.Metadata.Album = song.QueryAlbum()
	}
}

// truncate limits string length for logging
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
