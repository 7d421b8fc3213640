package normalizer

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"listingdeck/internal/models"
)

func TestNewProcessor(t *testing.T) {
	p := NewProcessor()
	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor()

	card, warnings, err := p.Process(json.RawMessage(`{"name":"Loft","price":"$99.99","amenities":"oops"}`), 2)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if card.Title != "Loft" || card.Tier != models.TierCheap || card.Index != 2 {
		t.Errorf("Unexpected card: %+v", card)
	}

	if len(warnings) != 1 || warnings[0].Field != FieldAmenities {
		t.Errorf("Expected one amenities warning, got %v", warnings)
	}
}

func TestProcessor_Process_ValidationError(t *testing.T) {
	p := NewProcessor()

	_, _, err := p.Process(json.RawMessage(`null`), 6)
	if err == nil {
		t.Fatal("Process expected error for null record")
	}

	var itemErr *ItemError
	if !errors.As(err, &itemErr) {
		t.Fatalf("Expected *ItemError, got %T", err)
	}

	if itemErr.Index != 6 || !errors.Is(err, ErrNotObject) {
		t.Errorf("Unexpected item error: %v", err)
	}

	if !strings.Contains(err.Error(), "listing 7 skipped") {
		t.Errorf("Expected 1-based listing number in message, got %q", err.Error())
	}
}

func TestProcessor_Process_Panic(t *testing.T) {
	p := NewProcessorWithDeps(NewValidator(), func(models.RawListing, int) (models.Card, []Warning) {
		panic("boom")
	})

	card, warnings, err := p.Process(json.RawMessage(`{"name":"Loft"}`), 0)
	if !errors.Is(err, ErrTransformPanic) {
		t.Fatalf("Expected ErrTransformPanic, got %v", err)
	}

	if card.Title != "" || warnings != nil {
		t.Errorf("Expected zero card on panic, got %+v %v", card, warnings)
	}
}
