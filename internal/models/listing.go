// Package models defines data structures for the listing loader, normalizer and renderers.
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text is an optional listing field. It decodes from a JSON string, number or
// bool and stays empty for null, so a record never fails on field types.
type Text struct {
	Value string
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Text{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*t = Text{Value: s, Set: true}
	case 't', 'f':
		*t = Text{Value: strconv.FormatBool(data[0] == 't'), Set: true}
	default:
		// Numbers and nested values are kept verbatim. Some exports ship
		// amenities as a real array instead of an encoded string.
		*t = Text{Value: string(data), Set: true}
	}

	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Set {
		return []byte("null"), nil
	}

	return json.Marshal(t.Value)
}

// String returns the raw value.
func (t Text) String() string {
	return t.Value
}

// Blank reports whether the field is absent or only whitespace.
func (t Text) Blank() bool {
	return !t.Set || strings.TrimSpace(t.Value) == ""
}

// NewText returns a set Text holding s.
func NewText(s string) Text {
	return Text{Value: s, Set: true}
}

// RawListing is one untrusted record from the listings source.
type RawListing struct {
	ID             Text `json:"id"`
	ListingURL     Text `json:"listing_url"`
	Name           Text `json:"name"`
	Description    Text `json:"description"`
	Price          Text `json:"price"`
	Amenities      Text `json:"amenities"`
	PictureURL     Text `json:"picture_url"`
	HostPictureURL Text `json:"host_picture_url"`
	HostName       Text `json:"host_name"`
}
