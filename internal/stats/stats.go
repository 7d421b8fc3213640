// Package stats folds cards into price-tier counts and run summaries.
package stats

import "listingdeck/internal/models"

// Aggregate counts cards per price tier. The result does not depend on the
// order of cards, so partial counts can be combined with TierCounts.Merge.
func Aggregate(cards []models.Card) models.TierCounts {
	var counts models.TierCounts

	for _, c := range cards {
		counts.Add(c.Tier)
	}

	return counts
}

// Summarize builds the statistics for one load cycle over the rendered cards.
func Summarize(source string, cards []models.Card, total, window, skipped int) models.Report {
	report := models.Report{
		Source:       source,
		Tiers:        Aggregate(cards),
		TotalRecords: total,
		Window:       window,
		Rendered:     len(cards),
		Skipped:      skipped,
	}

	if len(cards) == 0 {
		return report
	}

	var sum float64

	report.MinPrice = cards[0].Price
	mostExpensive := cards[0]

	for _, c := range cards {
		sum += c.Price

		if c.Price < report.MinPrice {
			report.MinPrice = c.Price
		}

		if c.Price > mostExpensive.Price {
			mostExpensive = c
		}
	}

	report.MaxPrice = mostExpensive.Price
	report.AveragePrice = sum / float64(len(cards))
	report.MostExpensive = &mostExpensive

	return report
}
