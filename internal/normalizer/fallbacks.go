// Package normalizer turns raw listing records into render-ready cards.
package normalizer

import (
	"strings"

	"listingdeck/internal/models"
)

// Field names a card field that has a fallback value.
type Field string

// Card fields with fallbacks.
const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldPrice       Field = "price"
	FieldAmenities   Field = "amenities"
	FieldImage       Field = "image"
	FieldImageError  Field = "image_error"
	FieldHostImage   Field = "host_image"
	FieldHostName    Field = "host_name"
)

var fallbacks = map[Field]string{
	FieldTitle:       "Unnamed Listing",
	FieldDescription: "No description available for this listing.",
	FieldPrice:       "Price not available",
	FieldAmenities:   models.NoAmenitiesText,
	FieldImage:       "https://via.placeholder.com/300x200?text=No+Image",
	FieldImageError:  "https://via.placeholder.com/300x200?text=Image+Not+Available",
	FieldHostImage:   "https://via.placeholder.com/45x45?text=Host",
	FieldHostName:    "Unknown Host",
}

// Fallback returns the value substituted for an absent or blank field.
func Fallback(field Field) string {
	return fallbacks[field]
}

// orFallback returns the trimmed value, or the field's fallback when blank.
func orFallback(value models.Text, field Field) string {
	if value.Blank() {
		return Fallback(field)
	}

	return strings.TrimSpace(value.Value)
}
