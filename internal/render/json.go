package render

import (
	"encoding/json"
	"fmt"

	"listingdeck/internal/models"
)

// JSONExport writes the rendered cards and the cycle statistics as JSON.
type JSONExport struct {
	path    string
	cards   []models.Card
	report  *models.Report
	failure error
}

type jsonDocument struct {
	Listings []models.Card `json:"listings"`
	Summary  *models.Report `json:"summary,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// NewJSONExport creates a JSON surface writing to path on Flush.
func NewJSONExport(path string) *JSONExport {
	return &JSONExport{path: path}
}

// Card implements Surface.
func (j *JSONExport) Card(card models.Card) {
	j.cards = append(j.cards, card)
}

// Failure implements Surface.
func (j *JSONExport) Failure(err error) {
	j.failure = err
}

// Stats implements Surface.
func (j *JSONExport) Stats(report models.Report) {
	j.report = &report
}

// Flush writes the document to disk.
func (j *JSONExport) Flush() error {
	doc := jsonDocument{Listings: j.cards, Summary: j.report}
	if doc.Listings == nil {
		doc.Listings = []models.Card{}
	}

	if j.failure != nil {
		doc = jsonDocument{Listings: []models.Card{}, Error: j.failure.Error()}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return writeFile(j.path, data)
}
