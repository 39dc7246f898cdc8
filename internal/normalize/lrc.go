package normalize

import (
	"cmp"
	"encoding/json"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"lyricsync-gateway/internal/lyrics"
)

// DefaultTailDuration is how long the last LRC line stays on screen, in seconds.
const DefaultTailDuration = 4.0

var (
	// one or more leading [mm:ss.xx] tags, then the text
	lrcLineRe = regexp.MustCompile(`^((?:\[\d+:\d+\.\d+\])+)(.*)$`)
	lrcTagRe  = regexp.MustCompile(`\[(\d+):(\d+)\.(\d+)\]`)
)

// lrclibEnvelope is the /api/get response body.
type lrclibEnvelope struct {
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     any     `json:"duration"`
	Instrumental any     `json:"instrumental"`
	SyncedLyrics *string `json:"syncedLyrics"`
}

// LRC normalizes LRCLIB responses carrying LRC-formatted synced lyrics.
type LRC struct {
	// Source is recorded in the document metadata.
	Source string
}

func (n LRC) Normalize(raw []byte) *lyrics.Document {
	var env lrclibEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil
	}
	if env.SyncedLyrics == nil || strings.TrimSpace(*env.SyncedLyrics) == "" {
		return nil
	}

	lines := ParseLRC(*env.SyncedLyrics)
	if len(lines) == 0 {
		return nil
	}

	source := n.Source
	if source == "" {
		source = "LRCLIB"
	}

	return &lyrics.Document{
		Type:  lyrics.TypeLine,
		Lines: lines,
		Metadata: lyrics.Metadata{
			Title:        env.TrackName,
			Artist:       env.ArtistName,
			Album:        env.AlbumName,
			Duration:     nonNegative(toFloat(env.Duration)),
			Instrumental: toBool(env.Instrumental),
			Source:       source,
		},
	}
}

// ParseLRC parses LRC text into line-level timings, ordered by start time.
// A line with stacked tags ([00:01.00][00:05.00]text) yields one entry per tag.
// Lines without a timestamp, lines with blank text and tags whose fields do not
// fit an int are skipped.
func ParseLRC(text string) []lyrics.Line {
	var out []lyrics.Line

	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		m := lrcLineRe.FindStringSubmatch(raw)
		if m == nil {
			continue
		}

		lyric := strings.TrimSpace(m[2])
		if lyric == "" {
			continue
		}

		for _, tag := range lrcTagRe.FindAllStringSubmatch(m[1], -1) {
			start, ok := lrcTimestamp(tag[1], tag[2], tag[3])
			if !ok {
				continue
			}
			out = append(out, lyrics.Line{Text: lyric, StartTime: start})
		}
	}

	slices.SortStableFunc(out, func(a, b lyrics.Line) int {
		return cmp.Compare(a.StartTime, b.StartTime)
	})

	for i := range out {
		if i+1 < len(out) {
			out[i].EndTime = out[i+1].StartTime
		} else {
			out[i].EndTime = finite(out[i].StartTime + DefaultTailDuration)
		}
		out[i].Duration = out[i].EndTime - out[i].StartTime
	}

	return out
}

// lrcTimestamp converts the digit fields of one tag to seconds.
func lrcTimestamp(mm, ss, frac string) (float64, bool) {
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.Atoi(ss)
	if err != nil {
		return 0, false
	}
	fraction, err := strconv.Atoi(frac)
	if err != nil {
		return 0, false
	}
	// two digits are centiseconds; other widths scale by their own length
	scale := math.Pow(10, float64(len(frac)))

	start := float64(minutes)*60 + float64(seconds) + float64(fraction)/scale
	return nonNegative(finite(start)), true
}
