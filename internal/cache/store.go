package cache

import (
	"context"

	"lyricsync-gateway/internal/lyrics"
)

// Store is the optional secondary tier behind the in-process cache.
// Implemented by Redis (shared between instances) and SQLite (local disk).
//
// A miss is (nil, false, nil). Errors are reported to the caller, which logs
// them and carries on as if it were a miss.
type Store interface {
	Get(ctx context.Context, key lyrics.Key) (*lyrics.Document, bool, error)
	Set(ctx context.Context, key lyrics.Key, doc *lyrics.Document) error
}
