package providers

import (
	"context"
	"math"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"lyricsync-gateway/internal/lyrics"
	"lyricsync-gateway/internal/normalize"
)

// LRCLib queries lrclib.net (or a mirror) for LRC synced lyrics.
type LRCLib struct {
	*upstream
	normalizer normalize.LRC
}

func NewLRCLib(cfg Config, logger *zap.Logger) (*LRCLib, error) {
	up, err := newUpstream(lyrics.ProviderLRCLib, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &LRCLib{
		upstream:   up,
		normalizer: normalize.LRC{Source: "LRCLIB"},
	}, nil
}

func (p *LRCLib) Name() lyrics.ProviderName { return lyrics.ProviderLRCLib }

func (p *LRCLib) Fetch(ctx context.Context, song lyrics.SongIdentity) (*lyrics.Document, error) {
	q := url.Values{}
	q.Set("artist_name", song.Artist)
	q.Set("track_name", song.Title)
	if album := song.QueryAlbum(); album != "" {
		q.Set("album_name", album)
	}
	// LRCLIB matches duration in whole seconds
	if song.Duration > 0 {
		q.Set("duration", strconv.Itoa(int(math.Round(song.Duration))))
	}

	return p.fetch(ctx, lrclibPath, q, song, p.normalizer)
}
