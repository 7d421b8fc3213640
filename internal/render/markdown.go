package render

import (
	"fmt"
	"strconv"
	"strings"

	"listingdeck/internal/formatter"
	"listingdeck/internal/models"
	"listingdeck/pkg/metadata"
)

// Markdown writes a signed markdown report with one table row per card.
type Markdown struct {
	path    string
	source  string
	rows    []string
	report  *models.Report
	failure error
}

// NewMarkdown creates a markdown surface writing to path on Flush.
func NewMarkdown(path, source string) *Markdown {
	return &Markdown{path: path, source: source}
}

// Card implements Surface.
func (m *Markdown) Card(card models.Card) {
	m.rows = append(m.rows, formatter.Row(
		strconv.Itoa(card.Index+1),
		formatter.EscapeCell(card.Title),
		formatter.EscapeCell(card.HostName),
		formatter.EscapeCell(card.PriceLabel),
		card.Tier.String(),
		formatter.EscapeCell(card.AmenitySummary()),
	))
}

// Failure implements Surface.
func (m *Markdown) Failure(err error) {
	m.failure = err
}

// Stats implements Surface.
func (m *Markdown) Stats(report models.Report) {
	m.report = &report
}

// Render returns the signed report.
func (m *Markdown) Render() string {
	var sb strings.Builder

	sb.WriteString("# Listings\n\n")
	fmt.Fprintf(&sb, "Source: `%s`\n\n", m.source)

	meta := metadata.Metadata{Source: m.source}

	if m.failure != nil {
		fmt.Fprintf(&sb, "**Unable to load listings:** %s\n", m.failure)

		return metadata.Sign(sb.String(), meta)
	}

	sb.WriteString(formatter.Row("#", "Title", "Host", "Price", "Tier", "Amenities") + "\n")
	sb.WriteString(formatter.Row("--:", "---", "---", "--:", "---", "---") + "\n")

	for _, row := range m.rows {
		sb.WriteString(row + "\n")
	}

	if r := m.report; r != nil {
		meta.SourceChecksum = r.SourceChecksum
		meta.Rendered = r.Rendered
		meta.Skipped = r.Skipped

		sb.WriteString("\n## Price distribution\n\n")
		sb.WriteString(formatter.Row("Tier", "Listings") + "\n")
		sb.WriteString(formatter.Row("---", "--:") + "\n")

		for _, tier := range models.Tiers() {
			sb.WriteString(formatter.Row(tier.Label(), strconv.Itoa(r.Tiers.Get(tier))) + "\n")
		}

		fmt.Fprintf(&sb, "\n%d rendered, %d skipped, %d listings in source.\n", r.Rendered, r.Skipped, r.TotalRecords)
	}

	return metadata.Sign(formatter.FormatMarkdown(sb.String()), meta)
}

// Flush writes the report to disk.
func (m *Markdown) Flush() error {
	return writeFile(m.path, []byte(m.Render()))
}
