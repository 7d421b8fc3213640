// Package metadata stamps generated listing reports with provenance and a
// content hash, and fingerprints source documents.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// TagStart is the start of the metadata block.
	TagStart = "<!-- LISTINGS_REPORT"
	// TagEnd is the end of the metadata block.
	TagEnd = "LISTINGS_REPORT_END -->"
)

// Metadata verification errors.
var (
	ErrNoMetadataBlock = errors.New("no metadata block found")
	ErrNoHashFound     = errors.New("no hash found in metadata")
	ErrHashMismatch    = errors.New("hash mismatch")
)

// Metadata describes the load cycle a report was generated from.
type Metadata struct {
	GeneratedAt    time.Time
	Source         string
	SourceChecksum string
	Hash           string
	Rendered       int
	Skipped        int
}

// metadataRegex matches the entire metadata block including tags.
var metadataRegex = regexp.MustCompile(`(?s)<!--\s*LISTINGS_REPORT\s*\n(.*?)\n\s*LISTINGS_REPORT_END\s*-->`)

// Extract removes the metadata block from content and returns both the
// metadata and the cleaned content. The cleaned content is what gets hashed.
func Extract(content string) (*Metadata, string) {
	match := metadataRegex.FindStringSubmatch(content)
	cleanContent := metadataRegex.ReplaceAllString(content, "")
	cleanContent = strings.TrimRight(cleanContent, "\n")

	if len(match) < 2 {
		return nil, cleanContent
	}

	meta := &Metadata{}

	for _, line := range strings.Split(match[1], "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])

		switch key {
		case "SOURCE":
			meta.Source = val
		case "SOURCE_SHA256":
			meta.SourceChecksum = val
		case "GENERATED":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				meta.GeneratedAt = t
			}
		case "RENDERED":
			meta.Rendered, _ = strconv.Atoi(val)
		case "SKIPPED":
			meta.Skipped, _ = strconv.Atoi(val)
		case "HASH":
			meta.Hash = val
		}
	}

	return meta, cleanContent
}

// Checksum returns the hex SHA-256 of raw bytes, used to fingerprint sources.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:])
}

// CalculateHash computes the SHA-256 hash of the content (excluding metadata).
func CalculateHash(content string) string {
	_, clean := Extract(content)

	return Checksum([]byte(clean))
}

// Sign appends or replaces the metadata block with a fresh hash.
// A zero GeneratedAt is replaced with the current time.
func Sign(content string, meta Metadata) string {
	_, clean := Extract(content)

	generated := meta.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	var sb strings.Builder

	sb.WriteString(clean)
	sb.WriteString("\n\n")
	sb.WriteString(TagStart + "\n")
	fmt.Fprintf(&sb, "SOURCE: %s\n", meta.Source)

	if meta.SourceChecksum != "" {
		fmt.Fprintf(&sb, "SOURCE_SHA256: %s\n", meta.SourceChecksum)
	}

	fmt.Fprintf(&sb, "GENERATED: %s\n", generated.UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "RENDERED: %d\n", meta.Rendered)
	fmt.Fprintf(&sb, "SKIPPED: %d\n", meta.Skipped)
	fmt.Fprintf(&sb, "HASH: %s\n", CalculateHash(clean))
	sb.WriteString(TagEnd)

	return sb.String()
}

// Verify checks if the content matches the hash in its metadata.
func Verify(content string) (bool, error) {
	meta, clean := Extract(content)
	if meta == nil {
		return false, ErrNoMetadataBlock
	}

	if meta.Hash == "" {
		return false, ErrNoHashFound
	}

	calculated := CalculateHash(clean)
	if calculated != meta.Hash {
		return false, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, meta.Hash, calculated)
	}

	return true, nil
}
