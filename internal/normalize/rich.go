package normalize

import (
	"encoding/json"
	"strings"

	"lyricsync-gateway/internal/lyrics"
)

// DefaultSourceTag marks documents that came through the LyricsPlus API.
const DefaultSourceTag = "(via LyricsPlus)"

// Rich normalizes LyricsPlus-style payloads:
//
//	{"type": "Line"|"Word", "lyrics": [{"time", "duration", "text", ...}], "metadata": {...}}
//
// Line payloads carry milliseconds; word payloads are kept in their own units.
type Rich struct {
	SourceTag string
}

func (n Rich) Normalize(raw []byte) *lyrics.Document {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil || env == nil {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(env["lyrics"], &items); err != nil || len(items) == 0 {
		return nil
	}

	var envType any
	_ = json.Unmarshal(env["type"], &envType)
	lineLevel := toString(envType) == string(lyrics.TypeLine)

	scale := 1.0
	docType := lyrics.TypeWord
	if lineLevel {
		scale = 1000
		docType = lyrics.TypeLine
	}

	lines := make([]lyrics.Line, 0, len(items))
	for _, rawItem := range items {
		var item map[string]any
		if err := json.Unmarshal(rawItem, &item); err != nil || item == nil {
			continue
		}

		start := nonNegative(toFloat(item["time"]) / scale)
		duration := nonNegative(toFloat(item["duration"]) / scale)

		lines = append(lines, lyrics.Line{
			Text:         toString(item["text"]),
			StartTime:    start,
			Duration:     duration,
			EndTime:      finite(start + duration),
			IsLineEnding: toBool(item["isLineEnding"]),
			Element:      element(item["element"]),
		})
	}
	if len(lines) == 0 {
		return nil
	}

	var meta map[string]any
	_ = json.Unmarshal(env["metadata"], &meta)

	return &lyrics.Document{
		Type:     docType,
		Lines:    lines,
		Metadata: n.metadata(meta),
	}
}

// metadata builds a fresh Metadata; meta itself is only read.
func (n Rich) metadata(meta map[string]any) lyrics.Metadata {
	tag := n.SourceTag
	if tag == "" {
		tag = DefaultSourceTag
	}

	return lyrics.Metadata{
		Title:        toString(meta["title"]),
		Artist:       toString(meta["artist"]),
		Album:        toString(meta["album"]),
		Duration:     nonNegative(toFloat(meta["duration"])),
		Instrumental: toBool(meta["instrumental"]),
		Source:       strings.TrimSpace(toString(meta["source"]) + " " + tag),
	}
}

func element(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s := toString(val); s != "" {
			out[k] = s
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
