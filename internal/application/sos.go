package application

import (
	"strings"

	"github.com/srijan008/MedGamma-Server/internal/domain"
)

// SOS marker tokens the model emits at the start of a crisis response. They
// are stripped before the text reaches the client; the raw text decides which
// alert fires.
const (
	MarkerCall = "[SOS_CALL]"
	MarkerSMS  = "[SOS_SMS]"
	MarkerSOS  = "[SOS]" // legacy single-level marker
)

// markerWindow is how many leading characters may need buffering before we
// can rule a marker in or out (longest marker is 10 chars).
const markerWindow = 15

// SOSFilter screens a streamed model response. The head of the stream is
// buffered until it is long enough to contain a complete marker (or a closing
// bracket shows up); the marker is stripped and everything after is forwarded
// verbatim. The filter keeps both the raw and the cleaned accumulation: the
// cleaned text is what gets persisted and shown, the raw text is what the
// crisis scan runs over.
type SOSFilter struct {
	head    strings.Builder
	raw     strings.Builder
	clean   strings.Builder
	decided bool
}

// Feed consumes one stream chunk and returns the text to forward to the
// client, which may be empty while the head is still being buffered.
func (f *SOSFilter) Feed(chunk string) string {
	if chunk == "" {
		return ""
	}
	f.raw.WriteString(chunk)

	if f.decided {
		f.clean.WriteString(chunk)
		return chunk
	}

	f.head.WriteString(chunk)
	buffered := f.head.String()
	if len(buffered) <= markerWindow && !strings.Contains(buffered, "]") {
		return ""
	}

	out := stripMarkers(buffered)
	f.decided = true
	f.head.Reset()
	f.clean.WriteString(out)
	return out
}

// Flush releases whatever is still buffered. Call once at end of stream;
// needed when the whole response was shorter than the marker window.
func (f *SOSFilter) Flush() string {
	if f.decided || f.head.Len() == 0 {
		return ""
	}
	out := stripMarkers(f.head.String())
	f.decided = true
	f.head.Reset()
	f.clean.WriteString(out)
	return out
}

// Raw returns the full unstripped response.
func (f *SOSFilter) Raw() string {
	return f.raw.String()
}

// Clean returns the response with markers removed.
func (f *SOSFilter) Clean() string {
	return f.clean.String()
}

// Severity classifies the raw response. [SOS_CALL] outranks [SOS_SMS]; a bare
// [SOS] is treated as critical for backward compatibility.
func (f *SOSFilter) Severity() domain.Severity {
	return DetectSeverity(f.Raw())
}

func DetectSeverity(raw string) domain.Severity {
	switch {
	case strings.Contains(raw, MarkerCall):
		return domain.SeverityCritical
	case strings.Contains(raw, MarkerSMS):
		return domain.SeverityMedium
	case strings.Contains(raw, MarkerSOS):
		return domain.SeverityCritical
	default:
		return domain.SeverityNone
	}
}

func stripMarkers(s string) string {
	s = strings.ReplaceAll(s, MarkerCall, "")
	s = strings.ReplaceAll(s, MarkerSMS, "")
	s = strings.ReplaceAll(s, MarkerSOS, "")
	return strings.TrimLeft(s, " \t\n")
}
