package metadata

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleReport = "# Listings\n\n| Title | Price |\n| ----- | ----- |\n| Loft  | $120  |"

func TestSign_RoundTrip(t *testing.T) {
	generated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	signed := Sign(sampleReport, Metadata{
		GeneratedAt:    generated,
		Source:         "airbnb_sf_listings_500.json",
		SourceChecksum: Checksum([]byte("[]")),
		Rendered:       48,
		Skipped:        2,
	})

	if !strings.HasPrefix(signed, sampleReport) {
		t.Fatalf("Sign should keep the content first:\n%s", signed)
	}

	meta, clean := Extract(signed)
	if meta == nil {
		t.Fatal("Extract found no metadata block")
	}

	if clean != sampleReport {
		t.Errorf("Extract clean content = %q", clean)
	}

	if meta.Source != "airbnb_sf_listings_500.json" || meta.Rendered != 48 || meta.Skipped != 2 {
		t.Errorf("Unexpected metadata: %+v", meta)
	}

	if !meta.GeneratedAt.Equal(generated) {
		t.Errorf("GeneratedAt = %v, want %v", meta.GeneratedAt, generated)
	}

	if meta.SourceChecksum != Checksum([]byte("[]")) {
		t.Errorf("SourceChecksum = %s", meta.SourceChecksum)
	}

	ok, err := Verify(signed)
	if err != nil || !ok {
		t.Errorf("Verify() = %v, %v; want true, nil", ok, err)
	}
}

func TestSign_ReplacesExistingBlock(t *testing.T) {
	once := Sign(sampleReport, Metadata{Source: "a.json"})
	twice := Sign(once, Metadata{Source: "b.json"})

	if strings.Count(twice, TagStart) != 1 {
		t.Errorf("Expected exactly one metadata block, got:\n%s", twice)
	}

	meta, _ := Extract(twice)
	if meta.Source != "b.json" {
		t.Errorf("Source = %s, want b.json", meta.Source)
	}
}

func TestVerify_Errors(t *testing.T) {
	if _, err := Verify(sampleReport); !errors.Is(err, ErrNoMetadataBlock) {
		t.Errorf("Expected ErrNoMetadataBlock, got %v", err)
	}

	noHash := sampleReport + "\n\n" + TagStart + "\nSOURCE: x\n" + TagEnd
	if _, err := Verify(noHash); !errors.Is(err, ErrNoHashFound) {
		t.Errorf("Expected ErrNoHashFound, got %v", err)
	}

	tampered := strings.Replace(Sign(sampleReport, Metadata{}), "$120", "$99", 1)
	if _, err := Verify(tampered); !errors.Is(err, ErrHashMismatch) {
		t.Errorf("Expected ErrHashMismatch, got %v", err)
	}
}

func TestChecksum_Stable(t *testing.T) {
	a := Checksum([]byte(`[{"name":"Loft"}]`))
	b := Checksum([]byte(`[{"name":"Loft"}]`))
	c := Checksum([]byte(`[{"name":"Flat"}]`))

	if a != b {
		t.Error("Checksum should be deterministic")
	}

	if a == c {
		t.Error("Checksum should differ for different input")
	}

	if len(a) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(a))
	}
}
