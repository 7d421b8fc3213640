package normalizer

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ParseAmenities decodes a JSON-encoded array of amenity names. Numbers and
// booleans are kept as text; nulls, objects and nested arrays are dropped.
// ok is false when the text is not a JSON array, in which case the list is
// empty.
func ParseAmenities(raw string) (amenities []string, ok bool) {
	amenities = []string{}

	if strings.TrimSpace(raw) == "" {
		return amenities, true
	}

	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return amenities, false
	}

	for _, item := range items {
		switch v := item.(type) {
		case string:
			amenities = append(amenities, v)
		case float64:
			amenities = append(amenities, strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			amenities = append(amenities, strconv.FormatBool(v))
		}
	}

	return amenities, true
}
