package normalize

import (
	"encoding/json"
	"math"
	"testing"

	"lyricsync-gateway/internal/lyrics"
)

func TestRichLineLevelConvertsMilliseconds(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"type": "Line",
		"lyrics": [{"time": 1000, "duration": 500, "text": "Hi"}],
		"metadata": {"title": "Song", "artist": "Band", "source": "Apple"}
	}`)

	doc := Rich{}.Normalize(raw)
	if doc == nil {
		t.Fatalf("expected document, got nil")
	}
	if doc.Type != lyrics.TypeLine {
		t.Errorf("expected Line document, got %s", doc.Type)
	}

	got := doc.Lines[0]
	if got.Text != "Hi" || got.StartTime != 1.0 || got.Duration != 0.5 || got.EndTime != 1.5 {
		t.Fatalf("unexpected line: %+v", got)
	}
	if doc.Metadata.Source != "Apple (via LyricsPlus)" {
		t.Errorf("unexpected source: %q", doc.Metadata.Source)
	}
	if doc.Metadata.Title != "Song" || doc.Metadata.Artist != "Band" {
		t.Errorf("unexpected metadata: %+v", doc.Metadata)
	}
}

func TestRichWordLevelKeepsUnits(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"type": "Word",
		"lyrics": [
			{"time": 1000, "duration": 500, "text": "Hi", "isLineEnding": 1,
			 "element": {"singer": "v1", "key": "L1"}}
		],
		"metadata": {"source": "Musixmatch"}
	}`)

	doc := Rich{SourceTag: "[lp]"}.Normalize(raw)
	if doc == nil {
		t.Fatalf("expected document, got nil")
	}
	if doc.Type != lyrics.TypeWord {
		t.Errorf("expected Word document, got %s", doc.Type)
	}

	got := doc.Lines[0]
	if got.StartTime != 1000 || got.Duration != 500 || got.EndTime != 1500 {
		t.Fatalf("expected unscaled units, got %+v", got)
	}
	if !got.IsLineEnding {
		t.Errorf("expected isLineEnding to be set")
	}
	if got.Element["singer"] != "v1" || got.Element["key"] != "L1" {
		t.Errorf("unexpected element: %#v", got.Element)
	}
	if doc.Metadata.Source != "Musixmatch [lp]" {
		t.Errorf("unexpected source: %q", doc.Metadata.Source)
	}
}

func TestRichCoercesMissingAndInvalidNumbers(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"type": "Line",
		"lyrics": [
			{"text": "no timing"},
			{"time": "2500", "duration": "oops", "text": "string time"},
			"not an object",
			{"time": -40, "duration": 100, "text": "negative"}
		]
	}`)

	doc := Rich{}.Normalize(raw)
	if doc == nil {
		t.Fatalf("expected document, got nil")
	}
	if len(doc.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %#v", len(doc.Lines), doc.Lines)
	}
	if l := doc.Lines[0]; l.StartTime != 0 || l.Duration != 0 || l.EndTime != 0 {
		t.Errorf("missing fields should coerce to 0, got %+v", l)
	}
	if l := doc.Lines[1]; l.StartTime != 2.5 || l.Duration != 0 {
		t.Errorf("unexpected coercion: %+v", l)
	}
	if l := doc.Lines[2]; l.StartTime != 0 {
		t.Errorf("negative start should clamp to 0, got %+v", l)
	}
	if doc.Metadata.Source != DefaultSourceTag {
		t.Errorf("expected bare tag without upstream source, got %q", doc.Metadata.Source)
	}
}

func TestRichRejectsMalformed(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty lyrics":    `{"type": "Line", "lyrics": []}`,
		"missing lyrics":  `{"type": "Line"}`,
		"lyrics object":   `{"type": "Line", "lyrics": {"time": 1}}`,
		"only scalars":    `{"type": "Line", "lyrics": [1, "two", null]}`,
		"top-level array": `[{"time": 1}]`,
		"not json":        `not json`,
		"null":            `null`,
	}
	for name, raw := range cases {
		if doc := (Rich{}).Normalize([]byte(raw)); doc != nil {
			t.Errorf("%s: expected nil, got %+v", name, doc)
		}
	}
}

func TestRichHugeTimesStayEncodable(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"type": "Word",
		"lyrics": [{"time": 1e308, "duration": 1e308, "text": "far"}]
	}`)

	doc := Rich{}.Normalize(raw)
	if doc == nil {
		t.Fatalf("expected document, got nil")
	}
	got := doc.Lines[0]
	if math.IsInf(got.EndTime, 0) || got.EndTime < got.StartTime {
		t.Fatalf("unexpected end time: %+v", got)
	}
	if _, err := json.Marshal(doc); err != nil {
		t.Fatalf("document must stay encodable: %v", err)
	}
}
