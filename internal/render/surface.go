// Package render provides the surfaces a load cycle is displayed on: an HTML
// document, the terminal, a markdown report and a JSON export.
package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"listingdeck/internal/models"
)

// Surface displays the outcome of one load cycle. A cycle either calls Card
// for each rendered listing followed by Stats, or calls Failure once. Flush
// completes the output.
type Surface interface {
	Card(card models.Card)
	Failure(err error)
	Stats(report models.Report)
	Flush() error
}

// Multi fans every call out to several surfaces.
type Multi []Surface

// Card implements Surface.
func (m Multi) Card(card models.Card) {
	for _, s := range m {
		s.Card(card)
	}
}

// Failure implements Surface.
func (m Multi) Failure(err error) {
	for _, s := range m {
		s.Failure(err)
	}
}

// Stats implements Surface.
func (m Multi) Stats(report models.Report) {
	for _, s := range m {
		s.Stats(report)
	}
}

// Flush flushes every surface and joins their errors.
func (m Multi) Flush() error {
	var errs []error

	for _, s := range m {
		if err := s.Flush(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
