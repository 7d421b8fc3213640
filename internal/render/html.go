package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/yosssi/gohtml"

	"listingdeck/internal/models"
	"listingdeck/internal/normalizer"
	"listingdeck/pkg/metadata"
)

//go:embed templates/listings.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("listings.html.tmpl").Funcs(template.FuncMap{
	"plain":        PlainText,
	"hostFallback": func() string { return normalizer.Fallback(normalizer.FieldHostImage) },
}).ParseFS(templateFS, "templates/listings.html.tmpl"))

// HTMLOptions configures the HTML document surface.
type HTMLOptions struct {
	Path   string
	Title  string
	Source string
	Pretty bool
	Stamp  bool
}

// HTMLDocument renders the cards into a standalone HTML page.
type HTMLDocument struct {
	opts    HTMLOptions
	cards   []models.Card
	report  *models.Report
	failure error
}

type pageData struct {
	Title   string
	Source  string
	Failure string
	Cards   []models.Card
	Report  *models.Report
}

// NewHTMLDocument creates an HTML surface writing to opts.Path on Flush.
func NewHTMLDocument(opts HTMLOptions) *HTMLDocument {
	if opts.Title == "" {
		opts.Title = "Airbnb Listings"
	}

	return &HTMLDocument{opts: opts}
}

// Card implements Surface.
func (d *HTMLDocument) Card(card models.Card) {
	d.cards = append(d.cards, card)
}

// Failure implements Surface.
func (d *HTMLDocument) Failure(err error) {
	d.failure = err
}

// Stats implements Surface.
func (d *HTMLDocument) Stats(report models.Report) {
	d.report = &report
}

// Render returns the page for everything received so far.
func (d *HTMLDocument) Render() ([]byte, error) {
	data := pageData{
		Title:  d.opts.Title,
		Source: d.opts.Source,
		Cards:  d.cards,
		Report: d.report,
	}

	if d.failure != nil {
		data.Failure = d.failure.Error()
		data.Cards = nil
		data.Report = nil
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}

	page := buf.String()
	if d.opts.Pretty {
		page = gohtml.Format(page)
	}

	if d.opts.Stamp {
		meta := metadata.Metadata{Source: d.opts.Source}
		if d.report != nil && d.failure == nil {
			meta.SourceChecksum = d.report.SourceChecksum
			meta.Rendered = d.report.Rendered
			meta.Skipped = d.report.Skipped
		}

		page = metadata.Sign(page, meta)
	}

	return []byte(page), nil
}

// Flush writes the page to disk.
func (d *HTMLDocument) Flush() error {
	page, err := d.Render()
	if err != nil {
		return err
	}

	return writeFile(d.opts.Path, page)
}
