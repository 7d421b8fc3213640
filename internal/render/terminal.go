package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"listingdeck/internal/models"
	"listingdeck/pkg/utils"
)

const (
	defaultTerminalWidth = 72
	minTerminalWidth     = 40
	maxBarWidth          = 30
)

// Terminal prints compact cards and a boxed price distribution.
type Terminal struct {
	w       io.Writer
	str     *utils.StringHelper
	source  string
	width   int
	printed int
	err     error
}

// NewTerminal creates a terminal surface. A width below 40 columns falls back
// to 72.
func NewTerminal(w io.Writer, source string, width int) *Terminal {
	if width < minTerminalWidth {
		width = defaultTerminalWidth
	}

	return &Terminal{
		w:      w,
		str:    utils.NewStringHelper(),
		source: source,
		width:  width,
	}
}

func (t *Terminal) printf(format string, args ...any) {
	if t.err != nil {
		return
	}

	_, t.err = fmt.Fprintf(t.w, format, args...)
}

// Card implements Surface.
func (t *Terminal) Card(card models.Card) {
	t.printed++

	number := fmt.Sprintf("%3d.", card.Index+1)
	tag := fmt.Sprintf("[%s]", card.Tier)
	price := t.str.TruncateString(card.PriceLabel, 14)

	titleWidth := t.width - len(number) - len(tag) - 14 - 4
	title := t.str.PadRight(t.str.TruncateString(card.Title, titleWidth), titleWidth)

	t.printf("%s %s %14s %s\n", number, title, price, tag)

	indent := strings.Repeat(" ", len(number)+1)
	body := t.width - len(indent)

	t.printf("%s%s\n", indent, t.str.TruncateString("Hosted by "+card.HostName+" · "+card.AmenitySummary(), body))
	t.printf("%s%s\n", indent, t.str.TruncateString(t.str.NormalizeWhitespace(PlainText(card.Description)), body))
}

// Failure implements Surface.
func (t *Terminal) Failure(err error) {
	border := strings.Repeat("═", t.width-2)

	t.printf("\n╔%s╗\n", border)
	t.printf("║%s║\n", center("UNABLE TO LOAD LISTINGS", t.width-2))
	t.printf("╚%s╝\n", border)
	t.printf("  Error : %s\n", err)

	if t.source != "" {
		t.printf("  Check that %s exists and holds a JSON array of listings.\n", t.source)
	}

	t.printf("  Fix the source and run again to retry.\n\n")
}

// Stats implements Surface.
func (t *Terminal) Stats(report models.Report) {
	border := strings.Repeat("═", t.width-2)
	thin := strings.Repeat("─", t.width-2)

	t.printf("\n╔%s╗\n", border)
	t.printf("║%s║\n", center("PRICE DISTRIBUTION", t.width-2))
	t.printf("╚%s╝\n", border)

	t.printf("  Listings in source      : %d\n", report.TotalRecords)
	t.printf("  Rendered / skipped      : %d / %d\n", report.Rendered, report.Skipped)

	if report.Rendered > 0 {
		t.printf("  Average price/night     : $%.2f\n", report.AveragePrice)
		t.printf("  Lowest / highest        : $%.2f / $%.2f\n", report.MinPrice, report.MaxPrice)
	}

	t.printf("%s\n", thin)

	largest := max(report.Tiers.Cheap, report.Tiers.Mid, report.Tiers.Expensive)

	for _, tier := range models.Tiers() {
		count := report.Tiers.Get(tier)

		bar := 0
		if largest > 0 {
			bar = count * maxBarWidth / largest
		}

		t.printf("  %-16s %3d  %s\n", tier.Label()+":", count, strings.Repeat("▓", bar))
	}

	if report.MostExpensive != nil {
		t.printf("%s\n", thin)
		t.printf("  Most expensive          : %s (%s)\n",
			t.str.TruncateString(report.MostExpensive.Title, t.width-30), report.MostExpensive.PriceLabel)
	}

	t.printf("\n")
}

// Flush implements Surface and reports the first write error.
func (t *Terminal) Flush() error {
	if t.err != nil {
		return errors.Join(errors.New("terminal output failed"), t.err)
	}

	return nil
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}

	pad := (width - n) / 2

	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-n-pad)
}
