package application

import (
	"testing"

	"github.com/srijan008/MedGamma-Server/internal/domain"

	"github.com/stretchr/testify/assert"
)

func feedAll(f *SOSFilter, chunks ...string) string {
	var out string
	for _, c := range chunks {
		out += f.Feed(c)
	}
	out += f.Flush()
	return out
}

func TestSOSFilter_Passthrough(t *testing.T) {
	f := &SOSFilter{}
	out := feedAll(f, "Hello, how are ", "you feeling today?")

	assert.Equal(t, "Hello, how are you feeling today?", out)
	assert.Equal(t, "Hello, how are you feeling today?", f.Clean())
	assert.Equal(t, domain.SeverityNone, f.Severity())
}

func TestSOSFilter_StripsCallMarker(t *testing.T) {
	f := &SOSFilter{}
	out := feedAll(f, "[SOS_CALL] Please reach out to someone you trust right now.")

	assert.Equal(t, "Please reach out to someone you trust right now.", out)
	assert.Contains(t, f.Raw(), "[SOS_CALL]")
	assert.NotContains(t, f.Clean(), "[SOS_CALL]")
	assert.Equal(t, domain.SeverityCritical, f.Severity())
}

func TestSOSFilter_MarkerSplitAcrossChunks(t *testing.T) {
	f := &SOSFilter{}
	out := feedAll(f, "[SOS_", "SMS] I hear how hard this is for you.")

	assert.Equal(t, "I hear how hard this is for you.", out)
	assert.Equal(t, domain.SeverityMedium, f.Severity())
}

func TestSOSFilter_BuffersHeadUntilWindow(t *testing.T) {
	f := &SOSFilter{}

	// Nothing should escape while the head could still hold a marker.
	assert.Equal(t, "", f.Feed("[SOS"))
	assert.Equal(t, "", f.Feed("_CAL"))

	// The closing bracket resolves the head even under the length window.
	got := f.Feed("L]Stay with me.")
	assert.Equal(t, "Stay with me.", got)

	// Later chunks stream straight through.
	assert.Equal(t, " You are not alone.", f.Feed(" You are not alone."))
	assert.Equal(t, "", f.Flush())
}

func TestSOSFilter_ShortStreamFlush(t *testing.T) {
	f := &SOSFilter{}

	assert.Equal(t, "", f.Feed("Okay."))
	assert.Equal(t, "Okay.", f.Flush())
	assert.Equal(t, "Okay.", f.Clean())
}

func TestSOSFilter_LegacyMarkerIsCritical(t *testing.T) {
	f := &SOSFilter{}
	out := feedAll(f, "[SOS] Please call your local emergency number.")

	assert.Equal(t, "Please call your local emergency number.", out)
	assert.Equal(t, domain.SeverityCritical, f.Severity())
}

func TestDetectSeverity(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.Severity
	}{
		{"no marker", "just a normal reply", domain.SeverityNone},
		{"call marker", "[SOS_CALL] text", domain.SeverityCritical},
		{"sms marker", "[SOS_SMS] text", domain.SeverityMedium},
		{"legacy marker", "[SOS] text", domain.SeverityCritical},
		{"call outranks sms", "[SOS_CALL][SOS_SMS] text", domain.SeverityCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSeverity(tt.raw))
		})
	}
}
