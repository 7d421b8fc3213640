package models

import (
	"fmt"
	"strings"
)

// Amenity display limits.
const (
	MaxDisplayAmenities   = 6
	AmenityOverflowMarker = "..."
	NoAmenitiesText       = "No amenities listed"
)

// PriceTier buckets a nightly price.
type PriceTier int

// Price tiers, ordered from cheapest.
const (
	TierCheap PriceTier = iota
	TierMid
	TierExpensive
)

// String returns the tier's CSS class name.
func (p PriceTier) String() string {
	switch p {
	case TierCheap:
		return "cheap"
	case TierMid:
		return "mid"
	case TierExpensive:
		return "expensive"
	}

	return "unknown"
}

// Label returns the human readable tier name used in statistics.
func (p PriceTier) Label() string {
	switch p {
	case TierCheap:
		return "budget-friendly"
	case TierMid:
		return "mid-range"
	case TierExpensive:
		return "premium"
	}

	return "unknown"
}

// MarshalText encodes the tier by its class name.
func (p PriceTier) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a class name produced by MarshalText.
func (p *PriceTier) UnmarshalText(text []byte) error {
	for _, tier := range Tiers() {
		if tier.String() == string(text) {
			*p = tier

			return nil
		}
	}

	return fmt.Errorf("unknown price tier %q", text)
}

// Tiers lists every tier in display order.
func Tiers() []PriceTier {
	return []PriceTier{TierCheap, TierMid, TierExpensive}
}

// Card is the render-ready view of one listing.
type Card struct {
	ID               string    `json:"id,omitempty"`
	ListingURL       string    `json:"listingUrl,omitempty"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Amenities        []string  `json:"amenities"`
	PriceLabel       string    `json:"priceLabel"`
	ImageURL         string    `json:"imageUrl"`
	ImageFallbackURL string    `json:"imageFallbackUrl"`
	HostImageURL     string    `json:"hostImageUrl"`
	HostName         string    `json:"hostName"`
	Price            float64   `json:"price"`
	Index            int       `json:"index"`
	Tier             PriceTier `json:"tier"`
}

// DisplayAmenities returns at most MaxDisplayAmenities amenities and whether
// the list was cut.
func (c Card) DisplayAmenities() ([]string, bool) {
	if len(c.Amenities) <= MaxDisplayAmenities {
		return c.Amenities, false
	}

	return c.Amenities[:MaxDisplayAmenities], true
}

// AmenitySummary joins the displayed amenities, appending the overflow marker
// when the list was cut.
func (c Card) AmenitySummary() string {
	shown, cut := c.DisplayAmenities()
	if len(shown) == 0 {
		return NoAmenitiesText
	}

	summary := strings.Join(shown, ", ")
	if cut {
		summary += AmenityOverflowMarker
	}

	return summary
}

// TierCounts counts cards per price tier.
type TierCounts struct {
	Cheap     int `json:"cheap"`
	Mid       int `json:"mid"`
	Expensive int `json:"expensive"`
}

// Add counts one card of the given tier.
func (t *TierCounts) Add(tier PriceTier) {
	switch tier {
	case TierCheap:
		t.Cheap++
	case TierMid:
		t.Mid++
	case TierExpensive:
		t.Expensive++
	}
}

// Merge returns the sum of two counts.
func (t TierCounts) Merge(other TierCounts) TierCounts {
	return TierCounts{
		Cheap:     t.Cheap + other.Cheap,
		Mid:       t.Mid + other.Mid,
		Expensive: t.Expensive + other.Expensive,
	}
}

// Get returns the count for a tier.
func (t TierCounts) Get(tier PriceTier) int {
	switch tier {
	case TierCheap:
		return t.Cheap
	case TierMid:
		return t.Mid
	case TierExpensive:
		return t.Expensive
	}

	return 0
}

// Total returns the number of counted cards.
func (t TierCounts) Total() int {
	return t.Cheap + t.Mid + t.Expensive
}

// Report holds the statistics of one load cycle.
type Report struct {
	Source         string     `json:"source"`
	SourceChecksum string     `json:"sourceChecksum,omitempty"`
	MostExpensive  *Card      `json:"mostExpensive,omitempty"`
	Tiers          TierCounts `json:"tiers"`
	TotalRecords   int        `json:"totalRecords"`
	Window         int        `json:"window"`
	Rendered       int        `json:"rendered"`
	Skipped        int        `json:"skipped"`
	AveragePrice   float64    `json:"averagePrice"`
	MinPrice       float64    `json:"minPrice"`
	MaxPrice       float64    `json:"maxPrice"`
}
