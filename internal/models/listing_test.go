package models

import (
	"encoding/json"
	"testing"
)

func TestRawListing_UnmarshalTypeConfusion(t *testing.T) {
	input := `{
		"name": 42,
		"description": null,
		"price": "$1,200.00",
		"amenities": ["Wifi", "Kitchen"],
		"host_name": true
	}`

	var raw RawListing
	if err := json.Unmarshal([]byte(input), &raw); err != nil {
		t.Fatalf("Unmarshal returned unexpected error: %v", err)
	}

	if raw.Name.Value != "42" || !raw.Name.Set {
		t.Errorf("Name = %+v, want set 42", raw.Name)
	}

	if raw.Description.Set {
		t.Errorf("Description should be unset for null, got %+v", raw.Description)
	}

	if raw.Price.Value != "$1,200.00" {
		t.Errorf("Price = %q, want $1,200.00", raw.Price.Value)
	}

	if raw.Amenities.Value != `["Wifi", "Kitchen"]` {
		t.Errorf("Amenities = %q, want verbatim array", raw.Amenities.Value)
	}

	if raw.HostName.Value != "true" {
		t.Errorf("HostName = %q, want true", raw.HostName.Value)
	}

	if !raw.PictureURL.Blank() {
		t.Error("PictureURL should be blank when missing")
	}
}

func TestText_Blank(t *testing.T) {
	tests := []struct {
		name string
		text Text
		want bool
	}{
		{name: "Unset", text: Text{}, want: true},
		{name: "Empty", text: NewText(""), want: true},
		{name: "Whitespace", text: NewText("  \t"), want: true},
		{name: "Value", text: NewText("Loft"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.text.Blank(); got != tt.want {
				t.Errorf("Blank() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestText_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Text `json:"a"`
		B Text `json:"b"`
	}{A: NewText("x")})
	if err != nil {
		t.Fatalf("Marshal returned unexpected error: %v", err)
	}

	if string(data) != `{"a":"x","b":null}` {
		t.Errorf("Marshal = %s", data)
	}
}
