// Package normalize converts raw provider payloads into lyrics.Document values.
//
// Normalizers are pure and total: malformed input yields nil, never a panic or an error.
// A nil result is the "no lyrics here" signal and lets the resolver fall back.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"lyricsync-gateway/internal/lyrics"
)

// Normalizer turns one provider's raw JSON body into a canonical document.
type Normalizer interface {
	Normalize(raw []byte) *lyrics.Document
}

// toFloat coerces a decoded JSON value to a float. Anything non-numeric becomes 0.
func toFloat(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if n {
			f = 1
		}
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// nonNegative clamps negative times to zero.
func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

// finite pulls an overflowed result back to the largest representable value
// so documents stay JSON-encodable. NaN becomes 0.
func finite(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return 0
	case math.IsInf(f, 1):
		return math.MaxFloat64
	case math.IsInf(f, -1):
		return -math.MaxFloat64
	}
	return f
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	default:
		return false
	}
}
