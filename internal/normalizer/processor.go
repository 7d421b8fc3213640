package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"

	"listingdeck/internal/models"
)

// Processing errors.
var (
	ErrDecodeRecord   = errors.New("failed to decode record")
	ErrTransformPanic = errors.New("transform panicked")
)

// ItemError reports a listing that was skipped. It never aborts the cycle.
type ItemError struct {
	Err   error
	Index int
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("listing %d skipped: %v", e.Index+1, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// TransformFunc converts a decoded listing into a card.
type TransformFunc func(raw models.RawListing, index int) (models.Card, []Warning)

// Processor validates, decodes and transforms one raw element at a time.
type Processor struct {
	validator *Validator
	transform TransformFunc
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return NewProcessorWithDeps(NewValidator(), NewTransformer().Transform)
}

// NewProcessorWithDeps creates a processor with injected dependencies.
func NewProcessorWithDeps(validator *Validator, transform TransformFunc) *Processor {
	return &Processor{
		validator: validator,
		transform: transform,
	}
}

// Process turns the element at index into a card. Any failure, including a
// panic while transforming, comes back as an *ItemError.
func (p *Processor) Process(raw json.RawMessage, index int) (card models.Card, warnings []Warning, err error) {
	defer func() {
		if r := recover(); r != nil {
			card, warnings = models.Card{}, nil
			err = &ItemError{Index: index, Err: fmt.Errorf("%w: %v", ErrTransformPanic, r)}
		}
	}()

	if err := p.validator.Validate(raw); err != nil {
		return models.Card{}, nil, &ItemError{Index: index, Err: fmt.Errorf("validation failed: %w", err)}
	}

	var listing models.RawListing
	if err := json.Unmarshal(raw, &listing); err != nil {
		return models.Card{}, nil, &ItemError{Index: index, Err: fmt.Errorf("%w: %w", ErrDecodeRecord, err)}
	}

	card, warnings = p.transform(listing, index)

	return card, warnings, nil
}
