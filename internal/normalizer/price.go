package normalizer

import (
	"regexp"
	"strconv"

	"listingdeck/internal/models"
)

// Tier thresholds. Each bound belongs to the higher tier.
const (
	MidTierMin       = 100.0
	ExpensiveTierMin = 200.0
)

var (
	nonPriceChars  = regexp.MustCompile(`[^0-9.]`)
	leadingDecimal = regexp.MustCompile(`^(\d+(\.\d+)?|\.\d+)`)
)

// ClassifyPrice maps a nightly price to its tier.
func ClassifyPrice(price float64) models.PriceTier {
	switch {
	case price < MidTierMin:
		return models.TierCheap
	case price < ExpensiveTierMin:
		return models.TierMid
	default:
		return models.TierExpensive
	}
}

// ParsePrice extracts a nightly price from currency text such as "$1,234.56".
// Everything but digits and dots is dropped and the leading decimal number is
// read, so "1.2.3" yields 1.2. ok is false when no number could be read; the
// returned price is then 0.
func ParsePrice(raw string) (price float64, ok bool) {
	cleaned := nonPriceChars.ReplaceAllString(raw, "")

	match := leadingDecimal.FindString(cleaned)
	if match == "" {
		return 0, false
	}

	val, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}

	return val, true
}
