package providers

// Paths appended to each provider's BaseURL.
const (
	lyricsPlusPath = "/v2/lyrics/get"
	lrclibPath     = "/api/get"
)

// Default upstream hosts.
const (
	DefaultLyricsPlusURL = "https://lyricsplus.prjktla.workers.dev"
	DefaultLRCLibURL     = "https://lrclib.net"
)

// upstreamError is the error body both providers send with non-2xx statuses.
// LRCLIB: {"code":404,"name":"TrackNotFound","message":"Failed to find specified track"}
// LyricsPlus: {"error":"..."}
type upstreamError struct {
	Code    int    `json:"code"`
	Name    string `json:"name"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e upstreamError) text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Error != "":
		return e.Error
	default:
		return e.Name
	}
}
