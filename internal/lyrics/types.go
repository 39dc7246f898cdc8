package lyrics

import (
	"context"
	"fmt"
)

// DocumentType tells consumers which timing granularity a document carries.
type DocumentType string

const (
	TypeLine DocumentType = "Line"
	TypeWord DocumentType = "Word"
)

// ProviderName identifies an upstream lyrics provider.
type ProviderName string

const (
	ProviderLyricsPlus ProviderName = "lyricsplus"
	ProviderLRCLib     ProviderName = "lrclib"
)

// SongIdentity is what callers know about the song being played.
// Duration is in seconds and is only a query hint for providers.
type SongIdentity struct {
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Key returns the cache key. Album and Duration are not part of it.
func (s SongIdentity) Key() Key {
	return Key{Title: s.Title, Artist: s.Artist}
}

// QueryAlbum returns the album to send upstream, or "" when it should be omitted.
// Some players report the track title as the album for singles.
func (s SongIdentity) QueryAlbum() string {
	if s.Album == "" || s.Album == s.Title {
		return ""
	}
	return s.Album
}

// Key is the structured cache key. It is comparable and used directly as a map key.
type Key struct {
	Title  string
	Artist string
}

// String renders an unambiguous length-prefixed form: <len>:<title>|<len>:<artist>
func (k Key) String() string {
	return fmt.Sprintf("%d:%s|%d:%s", len(k.Title), k.Title, len(k.Artist), k.Artist)
}

// Settings carries per-request caller preferences.
type Settings struct {
	PreferredProvider ProviderName `json:"preferredProvider,omitempty"`
}

// Line is one timed lyric line, or one word in a Word document.
type Line struct {
	Text         string            `json:"text"`
	StartTime    float64           `json:"startTime"`
	EndTime      float64           `json:"endTime"`
	Duration     float64           `json:"duration,omitempty"`
	IsLineEnding bool              `json:"isLineEnding,omitempty"`
	Element      map[string]string `json:"element,omitempty"`
}

// Metadata describes the track a document belongs to and where it came from.
type Metadata struct {
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	Album        string  `json:"album,omitempty"`
	Duration     float64 `json:"duration,omitempty"`
	Instrumental bool    `json:"instrumental"`
	Source       string  `json:"source"`
}

// Document is the canonical lyric document every provider is normalized into.
// It must not be modified once handed to the cache.
type Document struct {
	Type     DocumentType `json:"type"`
	Lines    []Line       `json:"lines"`
	Metadata Metadata     `json:"metadata"`
}

// Empty reports whether d carries no usable lines.
func (d *Document) Empty() bool {
	return d == nil || len(d.Lines) == 0
}

// Provider fetches lyrics for a song from one upstream source.
// A nil document with a nil error means the provider has no lyrics for the song.
type Provider interface {
	Name() ProviderName
	Fetch(ctx context.Context, song SongIdentity) (*Document, error)
}
