package normalizer

import (
	"fmt"

	"listingdeck/internal/models"
)

// Warning notes a malformed field that was replaced by a fallback. The card
// is still produced.
type Warning struct {
	Field Field
	Value string
}

func (w Warning) String() string {
	return fmt.Sprintf("invalid %s %q", w.Field, w.Value)
}

// Transformer maps raw listings to cards. It has no side effects.
type Transformer struct{}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform converts one raw listing into a card. It never fails: malformed
// fields fall back to defaults and are reported as warnings.
func (t *Transformer) Transform(raw models.RawListing, index int) (models.Card, []Warning) {
	var warnings []Warning

	amenities, ok := ParseAmenities(raw.Amenities.Value)
	if !ok {
		warnings = append(warnings, Warning{Field: FieldAmenities, Value: raw.Amenities.Value})
	}

	var price float64
	if !raw.Price.Blank() {
		if price, ok = ParsePrice(raw.Price.Value); !ok {
			warnings = append(warnings, Warning{Field: FieldPrice, Value: raw.Price.Value})
		}
	}

	card := models.Card{
		ID:               raw.ID.Value,
		ListingURL:       raw.ListingURL.Value,
		Title:            orFallback(raw.Name, FieldTitle),
		Description:      orFallback(raw.Description, FieldDescription),
		Amenities:        amenities,
		PriceLabel:       orFallback(raw.Price, FieldPrice),
		ImageURL:         orFallback(raw.PictureURL, FieldImage),
		ImageFallbackURL: Fallback(FieldImageError),
		HostImageURL:     orFallback(raw.HostPictureURL, FieldHostImage),
		HostName:         orFallback(raw.HostName, FieldHostName),
		Price:            price,
		Index:            index,
		Tier:             ClassifyPrice(price),
	}

	return card, warnings
}
