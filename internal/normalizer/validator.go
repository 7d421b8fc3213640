package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Validation errors.
var (
	ErrEmptyRecord = errors.New("empty record")
	ErrNotObject   = errors.New("record is not a JSON object")
)

// Validator checks that a raw array element can be treated as a listing.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks that the element is a JSON object.
func (v *Validator) Validate(raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ErrEmptyRecord
	}

	if trimmed[0] != '{' {
		return ErrNotObject
	}

	return nil
}
