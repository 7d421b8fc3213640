package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"listingdeck/pkg/metadata"
)

const fixture = `[
  {"name": "Sunny loft", "price": "$85.00", "amenities": "[\"Wifi\",\"Kitchen\"]", "host_name": "Ana"},
  {"name": "Garden flat", "price": "$150.00", "amenities": "[]"},
  {"name": "Penthouse", "price": "$1,234.56"},
  null
]`

func writeFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "listings.json")
	if err := os.WriteFile(path, []byte(fixture), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	return path
}

func TestRun_RendersEverySurface(t *testing.T) {
	source := writeFixture(t)
	out := t.TempDir()

	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{
		"-source", source,
		"-html", filepath.Join(out, "listings.html"),
		"-markdown", filepath.Join(out, "listings.md"),
		"-chart", filepath.Join(out, "chart.html"),
		"-json", filepath.Join(out, "listings.json"),
		"-env-file", filepath.Join(out, "missing.env"),
	}, &stdout, &stderr)

	if code != exitOK {
		t.Fatalf("Expected exit code 0, got %d\n%s", code, stderr.String())
	}

	for _, name := range []string{"listings.html", "listings.md", "chart.html", "listings.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("Expected %s to be written: %v", name, err)
		}
	}

	md, _ := os.ReadFile(filepath.Join(out, "listings.md"))
	if ok, err := metadata.Verify(string(md)); !ok {
		t.Errorf("Expected a verifiable markdown report: %v", err)
	}

	if !strings.Contains(stdout.String(), "PRICE DISTRIBUTION") {
		t.Errorf("Expected terminal statistics:\n%s", stdout.String())
	}

	if !strings.Contains(stderr.String(), "3 rendered, 1 skipped") {
		t.Errorf("Expected run summary in logs:\n%s", stderr.String())
	}
}

func TestRun_LoadFailureExitsNonZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	out := t.TempDir()

	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{
		"-source", server.URL,
		"-html", filepath.Join(out, "listings.html"),
		"-env-file", filepath.Join(out, "missing.env"),
	}, &stdout, &stderr)

	if code != exitLoad {
		t.Fatalf("Expected exit code %d, got %d", exitLoad, code)
	}

	page, err := os.ReadFile(filepath.Join(out, "listings.html"))
	if err != nil {
		t.Fatalf("Expected the error page to be written: %v", err)
	}

	if !strings.Contains(string(page), "500") || !strings.Contains(string(page), "Try Again") {
		t.Error("Expected the status code and a retry button on the error page")
	}

	if !strings.Contains(stdout.String(), "UNABLE TO LOAD LISTINGS") {
		t.Errorf("Expected the terminal failure box:\n%s", stdout.String())
	}
}

func TestRun_EnvFileOverrides(t *testing.T) {
	source := writeFixture(t)
	out := t.TempDir()

	envFile := filepath.Join(out, ".env")
	env := "LISTINGS_SOURCE=" + source + "\nLISTINGS_WINDOW=2\nLISTINGS_JSON=" + filepath.Join(out, "cards.json") + "\n"

	if err := os.WriteFile(envFile, []byte(env), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	// godotenv never overrides variables that are already set
	for _, key := range []string{"LISTINGS_SOURCE", "LISTINGS_WINDOW", "LISTINGS_JSON"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-env-file", envFile, "-quiet", "-html", ""}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("Expected exit code 0, got %d\n%s", code, stderr.String())
	}

	data, err := os.ReadFile(filepath.Join(out, "cards.json"))
	if err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}

	var doc struct {
		Listings []json.RawMessage `json:"listings"`
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	if len(doc.Listings) != 2 {
		t.Errorf("Expected 2 cards in a window of 2, got %d", len(doc.Listings))
	}

	if stdout.Len() != 0 {
		t.Errorf("Expected no terminal output with -quiet, got:\n%s", stdout.String())
	}
}

func TestRun_InvalidConfiguration(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-window", "0", "-env-file", filepath.Join(t.TempDir(), "x")}, &stdout, &stderr)
	if code != exitUsage {
		t.Errorf("Expected exit code %d, got %d", exitUsage, code)
	}

	if !strings.Contains(stderr.String(), "window") {
		t.Errorf("Expected a window error, got %s", stderr.String())
	}
}
