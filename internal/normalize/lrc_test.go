package normalize

import (
	"encoding/json"
	"testing"

	"lyricsync-gateway/internal/lyrics"
)

func TestParseLRC(t *testing.T) {
	t.Parallel()

	lines := ParseLRC("[00:12.50]Hello\n[00:15.00]World")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %#v", len(lines), lines)
	}

	want := []lyrics.Line{
		{Text: "Hello", StartTime: 12.5, EndTime: 15.0, Duration: 2.5},
		{Text: "World", StartTime: 15.0, EndTime: 19.0, Duration: 4.0},
	}
	for i, w := range want {
		got := lines[i]
		if got.Text != w.Text || got.StartTime != w.StartTime || got.EndTime != w.EndTime || got.Duration != w.Duration {
			t.Errorf("line %d: got %+v, want %+v", i, got, w)
		}
	}
}

func TestParseLRCSkipsBlankAndUntimedLines(t *testing.T) {
	t.Parallel()

	text := "[ar:Someone]\n" +
		"plain line without time\n" +
		"[01:02.03]   \n" +
		"[01:05.10] First \r\n" +
		"\n" +
		"[01:10.00]Second"

	lines := ParseLRC(text)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %#v", len(lines), lines)
	}
	if lines[0].Text != "First" {
		t.Errorf("expected trimmed text, got %q", lines[0].Text)
	}
	if lines[0].StartTime != 65.1 {
		t.Errorf("expected start 65.1, got %v", lines[0].StartTime)
	}
	// blank timed line is dropped entirely, so it does not end the previous line
	if lines[0].EndTime != lines[1].StartTime {
		t.Errorf("expected end %v, got %v", lines[1].StartTime, lines[0].EndTime)
	}
}

func TestParseLRCMillisecondFraction(t *testing.T) {
	t.Parallel()

	lines := ParseLRC("[00:01.500]x")
	if len(lines) != 1 || lines[0].StartTime != 1.5 {
		t.Fatalf("expected start 1.5, got %#v", lines)
	}
}

func TestLRCNormalize(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"trackName": "Song",
		"artistName": "Band",
		"albumName": "LP",
		"duration": 201,
		"instrumental": false,
		"syncedLyrics": "[00:12.50]Hello\n[00:15.00]World"
	}`)

	doc := LRC{}.Normalize(raw)
	if doc == nil {
		t.Fatalf("expected document, got nil")
	}
	if doc.Type != lyrics.TypeLine {
		t.Errorf("expected Line document, got %s", doc.Type)
	}
	if len(doc.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(doc.Lines))
	}
	m := doc.Metadata
	if m.Title != "Song" || m.Artist != "Band" || m.Album != "LP" || m.Duration != 201 || m.Source != "LRCLIB" {
		t.Errorf("unexpected metadata: %+v", m)
	}
}

func TestLRCNormalizeNotFound(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"plain only":      `{"plainLyrics": "la la", "syncedLyrics": null}`,
		"missing field":   `{"trackName": "Song"}`,
		"empty synced":    `{"syncedLyrics": "  "}`,
		"no timed lines":  `{"syncedLyrics": "just words\nmore words"}`,
		"not json":        `<html>`,
		"wrong structure": `[1, 2, 3]`,
		"instrumental":    `{"instrumental": true, "syncedLyrics": null}`,
	}
	for name, raw := range cases {
		if doc := (LRC{}).Normalize([]byte(raw)); doc != nil {
			t.Errorf("%s: expected nil, got %+v", name, doc)
		}
	}
}

func TestLRCNormalizeCoercesDuration(t *testing.T) {
	t.Parallel()

	doc := LRC{Source: "mirror"}.Normalize([]byte(`{"duration": "abc", "syncedLyrics": "[00:01.00]x"}`))
	if doc == nil {
		t.Fatalf("expected document")
	}
	if doc.Metadata.Duration != 0 {
		t.Errorf("expected non-numeric duration to coerce to 0, got %v", doc.Metadata.Duration)
	}
	if doc.Metadata.Source != "mirror" {
		t.Errorf("expected configured source, got %q", doc.Metadata.Source)
	}
}

func TestParseLRCOversizedFields(t *testing.T) {
	t.Parallel()

	lines := ParseLRC("[153722867280912931:00.00]x\n[99999999999999999999:00.00]y")
	if len(lines) != 1 {
		t.Fatalf("expected the out-of-range tag to be skipped, got %#v", lines)
	}
	got := lines[0]
	if got.Text != "x" || got.StartTime < 0 || got.EndTime < got.StartTime || got.Duration < 0 {
		t.Fatalf("unexpected line: %+v", got)
	}
	if _, err := json.Marshal(got); err != nil {
		t.Fatalf("line must stay encodable: %v", err)
	}
}

func TestParseLRCStackedTimestamps(t *testing.T) {
	t.Parallel()

	lines := ParseLRC("[00:01.00][00:05.00]Chorus\n[00:03.00]Verse")

	want := []lyrics.Line{
		{Text: "Chorus", StartTime: 1, EndTime: 3, Duration: 2},
		{Text: "Verse", StartTime: 3, EndTime: 5, Duration: 2},
		{Text: "Chorus", StartTime: 5, EndTime: 9, Duration: 4},
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %#v", len(want), lines)
	}
	for i, w := range want {
		got := lines[i]
		if got.Text != w.Text || got.StartTime != w.StartTime || got.EndTime != w.EndTime || got.Duration != w.Duration {
			t.Errorf("line %d: got %+v, want %+v", i, got, w)
		}
	}
}
