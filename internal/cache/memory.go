package cache

import (
	"lyricsync-gateway/internal/lyrics"
)

// resolvedTier is the in-process map of settled documents. Entries are never
// evicted or replaced.
//
// It has no lock of its own: every method runs under Cache.mu together with
// the in-flight registry.
type resolvedTier struct {
	items map[lyrics.Key]*lyrics.Document
}

func newResolvedTier() resolvedTier {
	return resolvedTier{items: make(map[lyrics.Key]*lyrics.Document)}
}

func (t *resolvedTier) get(key lyrics.Key) (*lyrics.Document, bool) {
	doc, ok := t.items[key]
	return doc, ok
}

// put keeps the first document stored under key.
func (t *resolvedTier) put(key lyrics.Key, doc *lyrics.Document) {
	if _, exists := t.items[key]; exists {
		return
	}
	t.items[key] = doc
}

func (t *resolvedTier) len() int {
	return len(t.items)
}
