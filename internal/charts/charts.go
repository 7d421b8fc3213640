// Package charts renders the price-tier distribution of a load cycle as an
// interactive echarts page.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"listingdeck/internal/models"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title       string   // Page title
	Width       string   // Chart width (e.g., "900px")
	Height      string   // Chart height (e.g., "500px")
	Theme       string   // Chart theme
	BucketWidth float64  // Price histogram bucket width in dollars
	Buckets     int      // Number of histogram buckets, the last one open ended
	TierColors  []string // Colors for cheap, mid and expensive
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:       "Listing price distribution",
		Width:       "900px",
		Height:      "500px",
		Theme:       "light",
		BucketWidth: 50,
		Buckets:     10,
		TierColors:  []string{"#2ecc71", "#f39c12", "#c0392b"},
	}
}

// TierChart collects one load cycle and writes a pie of tier counts and a
// histogram of nightly prices.
type TierChart struct {
	path   string
	config ChartConfig
	prices []float64
	report *models.Report
	failed bool
}

// NewTierChart creates a chart surface writing to path on Flush.
func NewTierChart(path string, config ChartConfig) *TierChart {
	return &TierChart{path: path, config: config}
}

// Card implements render.Surface.
func (c *TierChart) Card(card models.Card) {
	c.prices = append(c.prices, card.Price)
}

// Failure implements render.Surface. A failed cycle leaves any previous chart
// in place.
func (c *TierChart) Failure(error) {
	c.failed = true
}

// Stats implements render.Surface.
func (c *TierChart) Stats(report models.Report) {
	c.report = &report
}

// Flush writes the chart page. Nothing is written for a failed cycle or one
// without statistics.
func (c *TierChart) Flush() error {
	if c.failed || c.report == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}

	if err := os.WriteFile(c.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}

	return nil
}

// Render writes the chart page to w.
func (c *TierChart) Render(w io.Writer) error {
	if c.report == nil {
		return fmt.Errorf("no statistics to chart")
	}

	page := components.NewPage()
	page.PageTitle = c.config.Title
	page.AddCharts(c.tierPie(), c.priceHistogram())

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

func (c *TierChart) tierPie() *charts.Pie {
	pie := charts.NewPie()

	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  c.config.Width,
			Height: c.config.Height,
			Theme:  c.config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Price tiers",
			Subtitle: fmt.Sprintf("%d rendered, %d skipped", c.report.Rendered, c.report.Skipped),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	)

	data := make([]opts.PieData, 0, len(models.Tiers()))

	for i, tier := range models.Tiers() {
		point := opts.PieData{
			Name:  tier.Label(),
			Value: c.report.Tiers.Get(tier),
		}

		if i < len(c.config.TierColors) {
			point.ItemStyle = &opts.ItemStyle{Color: c.config.TierColors[i]}
		}

		data = append(data, point)
	}

	pie.AddSeries("Listings", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c}",
			}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"35%", "65%"},
			}),
		)

	return pie
}

func (c *TierChart) priceHistogram() *charts.Bar {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  c.config.Width,
			Height: c.config.Height,
			Theme:  c.config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Nightly prices",
			Subtitle: fmt.Sprintf("average $%.2f", c.report.AveragePrice),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "USD"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Listings"}),
	)

	labels, counts := Histogram(c.prices, c.config.BucketWidth, c.config.Buckets)

	data := make([]opts.BarData, len(counts))
	for i, n := range counts {
		data[i] = opts.BarData{Value: n}
	}

	bar.SetXAxis(labels).
		AddSeries("Listings", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	return bar
}

// Histogram buckets prices into n ranges of the given width. The last bucket
// collects everything above the others.
func Histogram(prices []float64, width float64, n int) ([]string, []int) {
	if width <= 0 {
		width = 50
	}

	if n < 1 {
		n = 1
	}

	labels := make([]string, n)
	for i := range labels {
		lo := float64(i) * width
		if i == n-1 {
			labels[i] = fmt.Sprintf("$%.0f+", lo)
		} else {
			labels[i] = fmt.Sprintf("$%.0f-%.0f", lo, lo+width)
		}
	}

	counts := make([]int, n)

	for _, p := range prices {
		i := int(p / width)
		if i < 0 {
			i = 0
		}

		if i >= n {
			i = n - 1
		}

		counts[i]++
	}

	return labels, counts
}
