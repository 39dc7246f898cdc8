package providers

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"lyricsync-gateway/internal/lyrics"
	"lyricsync-gateway/internal/normalize"
)

// LyricsPlus queries a LyricsPlus-compatible API, which serves word- and line-synced lyrics.
type LyricsPlus struct {
	*upstream
	normalizer normalize.Rich
}

// NewLyricsPlus builds the client. sourceTag is appended to the upstream source in metadata.
func NewLyricsPlus(cfg Config, sourceTag string, logger *zap.Logger) (*LyricsPlus, error) {
	up, err := newUpstream(lyrics.ProviderLyricsPlus, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &LyricsPlus{
		upstream:   up,
		normalizer: normalize.Rich{SourceTag: sourceTag},
	}, nil
}

func (p *LyricsPlus) Name() lyrics.ProviderName { return lyrics.ProviderLyricsPlus }

func (p *LyricsPlus) Fetch(ctx context.Context, song lyrics.SongIdentity) (*lyrics.Document, error) {
	q := url.Values{}
	q.Set("title", song.Title)
	q.Set("artist", song.Artist)
	if album := song.QueryAlbum(); album != "" {
		q.Set("album", album)
	}
	if song.Duration > 0 {
		q.Set("duration", strconv.FormatFloat(song.Duration, 'f', -1, 64))
	}

	return p.fetch(ctx, lyricsPlusPath, q, song, p.normalizer)
}
