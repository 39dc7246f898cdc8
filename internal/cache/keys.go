package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"lyricsync-gateway/internal/lyrics"
)

// StoreKey turns a song key into a flat string for backends that only take
// string keys:
//
//	lyrics:<SHA256_HEX of Key.String()>
//
// Key.String() is length-prefixed, so distinct (title, artist) pairs never
// share a hash input.
func StoreKey(k lyrics.Key) string {
	sum := sha256.Sum256([]byte(k.String()))
	return "lyrics:" + hex.EncodeToString(sum[:])
}
