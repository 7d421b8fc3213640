package utils

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestHTTPHelper_BuildHeaders(t *testing.T) {
	h := NewHTTPHelper("")
	headers := h.BuildHeaders(map[string]string{"X-Trace": "abc"})

	if headers.Get("User-Agent") != "listingdeck/1.0" {
		t.Errorf("User-Agent = %q", headers.Get("User-Agent"))
	}

	if headers.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q", headers.Get("Accept"))
	}

	if headers.Get("X-Trace") != "abc" {
		t.Errorf("X-Trace = %q", headers.Get("X-Trace"))
	}
}

func TestHTTPHelper_IsValidURL(t *testing.T) {
	h := NewHTTPHelper("test-agent")

	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/listings.json", true},
		{"http://localhost:8080/a.json", true},
		{"ftp://example.com/a.json", false},
		{"listings.json", false},
		{"https://", false},
	}

	for _, tt := range tests {
		if got := h.IsValidURL(tt.url); got != tt.want {
			t.Errorf("IsValidURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestStringHelper_TruncateString(t *testing.T) {
	s := NewStringHelper()

	if got := s.TruncateString("Cozy loft", 20); got != "Cozy loft" {
		t.Errorf("short string changed: %q", got)
	}

	got := s.TruncateString("Sunny studio near Golden Gate Park", 15)
	if runewidth.StringWidth(got) > 15 {
		t.Errorf("truncated width %d exceeds 15: %q", runewidth.StringWidth(got), got)
	}

	if got[len(got)-3:] != "..." {
		t.Errorf("missing ellipsis: %q", got)
	}

	wide := s.TruncateString("金門公園附近的陽光工作室", 10)
	if runewidth.StringWidth(wide) > 10 {
		t.Errorf("wide truncation width %d exceeds 10: %q", runewidth.StringWidth(wide), wide)
	}
}

func TestStringHelper_NormalizeWhitespace(t *testing.T) {
	s := NewStringHelper()
	if got := s.NormalizeWhitespace("  Walk \n to\tthe   park "); got != "Walk to the park" {
		t.Errorf("NormalizeWhitespace = %q", got)
	}
}

func TestStringHelper_PadRight(t *testing.T) {
	s := NewStringHelper()
	if got := s.PadRight("公園", 6); runewidth.StringWidth(got) != 6 {
		t.Errorf("PadRight width = %d, want 6", runewidth.StringWidth(got))
	}
}
