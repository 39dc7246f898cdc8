package lyrics

import (
	"errors"
	"fmt"
)

// Kind classifies lyrics retrieval failures so callers can branch without matching strings.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound: a provider answered but had no lyrics.
	KindNotFound
	// KindTransport: the provider could not be reached or sent an unreadable body.
	KindTransport
	// KindResolution: every provider was exhausted without a document.
	KindResolution
	// KindMalformed: a readable response that could not be interpreted.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindTransport:
		return "transport_failure"
	case KindResolution:
		return "resolution_failure"
	case KindMalformed:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// ErrNoLyricsFound is wrapped by every resolution failure.
var ErrNoLyricsFound = errors.New("no lyrics found")

// Error is a classified retrieval failure, optionally tied to a provider.
type Error struct {
	Kind     Kind
	Provider ProviderName
	Op       string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Provider != "" {
		msg = string(e.Provider) + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// TransportError wraps err as a KindTransport failure for provider p.
func TransportError(p ProviderName, op string, err error) *Error {
	return &Error{Kind: KindTransport, Provider: p, Op: op, Err: err}
}

// ResolutionError reports that no provider produced lyrics for song.
func ResolutionError(song SongIdentity) *Error {
	return &Error{
		Kind: KindResolution,
		Op:   "resolve",
		Err:  fmt.Errorf("%w for %q by %q", ErrNoLyricsFound, song.Title, song.Artist),
	}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
