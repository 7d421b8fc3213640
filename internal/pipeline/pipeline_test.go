package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"listingdeck/internal/loader"
	"listingdeck/internal/logger"
	"listingdeck/internal/models"
	"listingdeck/internal/normalizer"
)

type recordingSurface struct {
	cards    []models.Card
	failures []error
	reports  []models.Report
	flushes  int
}

func (r *recordingSurface) Card(card models.Card)      { r.cards = append(r.cards, card) }
func (r *recordingSurface) Failure(err error)          { r.failures = append(r.failures, err) }
func (r *recordingSurface) Stats(report models.Report) { r.reports = append(r.reports, report) }
func (r *recordingSurface) Flush() error               { r.flushes++; return nil }

func writeFixture(t *testing.T, records []any) string {
	t.Helper()

	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("Failed to marshal fixture: %v", err)
	}

	path := filepath.Join(t.TempDir(), "airbnb_sf_listings_500.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	return path
}

func listings(n int, rng *rand.Rand) []any {
	records := make([]any, n)

	for i := range records {
		records[i] = map[string]any{
			"name":      fmt.Sprintf("Listing %d", i+1),
			"price":     fmt.Sprintf("$%d.00", rng.Intn(400)),
			"amenities": `["Wifi","Kitchen"]`,
			"host_name": "Host",
		}
	}

	return records
}

func newPipeline(workers int, buf *bytes.Buffer) *Pipeline {
	return New(loader.NewLoader(), normalizer.NewProcessor(), workers, logger.New(buf, "debug"))
}

func TestRun_FiveHundredRecords(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	records := listings(500, rng)

	// a few malformed elements inside the window
	records[3] = nil
	records[10] = []string{"not", "an", "object"}
	records[20] = "just a string"
	records[30] = map[string]any{"price": "free", "amenities": "{broken"}

	path := writeFixture(t, records)

	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			var buf bytes.Buffer

			surface := &recordingSurface{}

			report, err := newPipeline(workers, &buf).Run(context.Background(), path, surface)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			if report.TotalRecords != 500 || report.Window != 50 {
				t.Errorf("Expected 500 records and window 50, got %d and %d", report.TotalRecords, report.Window)
			}

			if report.Skipped != 3 {
				t.Errorf("Expected 3 skipped, got %d", report.Skipped)
			}

			if len(surface.cards) != 47 || report.Rendered != 47 {
				t.Errorf("Expected 47 cards, got %d (report %d)", len(surface.cards), report.Rendered)
			}

			if got := report.Tiers.Total() + report.Skipped; got != 50 {
				t.Errorf("Expected tiers plus skipped to equal 50, got %d", got)
			}

			for i := 1; i < len(surface.cards); i++ {
				if surface.cards[i].Index <= surface.cards[i-1].Index {
					t.Fatalf("Cards out of source order at %d", i)
				}
			}

			if len(surface.reports) != 1 || len(surface.failures) != 0 || surface.flushes != 1 {
				t.Errorf("Expected one report, no failure and one flush, got %d/%d/%d",
					len(surface.reports), len(surface.failures), surface.flushes)
			}

			if report.SourceChecksum == "" {
				t.Error("Expected the source checksum in the report")
			}

			logs := buf.String()
			if !strings.Contains(logs, "47 rendered, 3 skipped") {
				t.Errorf("Expected run summary in logs:\n%s", logs)
			}

			if !strings.Contains(logs, "field=price") || !strings.Contains(logs, "field=amenities") {
				t.Errorf("Expected fallback warnings in logs:\n%s", logs)
			}
		})
	}
}

func TestRun_FewerThanWindow(t *testing.T) {
	path := writeFixture(t, listings(12, rand.New(rand.NewSource(1))))

	var buf bytes.Buffer

	surface := &recordingSurface{}

	report, err := newPipeline(1, &buf).Run(context.Background(), path, surface)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(surface.cards) != 12 || report.Window != 12 || report.Skipped != 0 {
		t.Errorf("Unexpected report %+v", report)
	}
}

func TestRun_UnexpectedStatus(t *testing.T) {
	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	var buf bytes.Buffer

	surface := &recordingSurface{}

	_, err := newPipeline(1, &buf).Run(context.Background(), server.URL+"/listings.json", surface)

	var loadErr *loader.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected LoadError, got %v", err)
	}

	if !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected the status code in %q", err)
	}

	if len(surface.failures) != 1 {
		t.Errorf("Expected exactly one failure, got %d", len(surface.failures))
	}

	if len(surface.cards) != 0 || len(surface.reports) != 0 {
		t.Error("No cards or stats should be rendered after a load failure")
	}

	if surface.flushes != 1 {
		t.Errorf("Expected the failure to be flushed once, got %d", surface.flushes)
	}

	if hits.Load() != 1 {
		t.Errorf("Expected a single request, got %d", hits.Load())
	}
}

func TestRun_MissingFile(t *testing.T) {
	var buf bytes.Buffer

	surface := &recordingSurface{}

	_, err := newPipeline(1, &buf).Run(context.Background(), filepath.Join(t.TempDir(), "missing.json"), surface)
	if !errors.Is(err, loader.ErrRead) {
		t.Fatalf("Expected ErrRead, got %v", err)
	}

	if len(surface.failures) != 1 || len(surface.cards) != 0 {
		t.Errorf("Expected one failure and no cards, got %d/%d", len(surface.failures), len(surface.cards))
	}
}

func TestRun_PanickingTransformIsIsolated(t *testing.T) {
	path := writeFixture(t, listings(5, rand.New(rand.NewSource(3))))

	transform := normalizer.NewTransformer().Transform
	processor := normalizer.NewProcessorWithDeps(normalizer.NewValidator(), func(raw models.RawListing, index int) (models.Card, []normalizer.Warning) {
		if index == 2 {
			panic("boom")
		}

		return transform(raw, index)
	})

	var buf bytes.Buffer

	surface := &recordingSurface{}

	report, err := New(loader.NewLoader(), processor, 2, logger.New(&buf, "info")).Run(context.Background(), path, surface)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Rendered != 4 || report.Skipped != 1 {
		t.Errorf("Expected 4 rendered and 1 skipped, got %d and %d", report.Rendered, report.Skipped)
	}

	if !strings.Contains(buf.String(), "transform panicked") {
		t.Errorf("Expected the panic to be logged:\n%s", buf.String())
	}
}

type flushFailSurface struct{ recordingSurface }

func (f *flushFailSurface) Flush() error { return errors.New("read-only filesystem") }

func TestRun_FlushError(t *testing.T) {
	path := writeFixture(t, listings(2, rand.New(rand.NewSource(5))))

	var buf bytes.Buffer

	_, err := newPipeline(1, &buf).Run(context.Background(), path, &flushFailSurface{})
	if err == nil || !strings.Contains(err.Error(), "read-only filesystem") {
		t.Errorf("Expected flush error, got %v", err)
	}
}
