// Package validator checks generated listings reports: table structure,
// tier consistency and the integrity stamp.
package validator

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"listingdeck/internal/formatter"
	"listingdeck/internal/models"
	"listingdeck/internal/normalizer"
	"listingdeck/pkg/metadata"
)

// cardColumns is the number of cells in a card row: #, Title, Host, Price,
// Tier, Amenities.
const cardColumns = 6

// ValidationError represents a validation error with context.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Line    int
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
	Stats    ValidationStats
	IsValid  bool
}

// ValidationStats contains validation statistics.
type ValidationStats struct {
	TotalRows   int
	ValidRows   int
	InvalidRows int
	Tiers       models.TierCounts
}

// ReportValidator validates markdown listings reports.
type ReportValidator struct{}

// NewReportValidator creates a new validator.
func NewReportValidator() *ReportValidator {
	return &ReportValidator{}
}

func (r *ValidationResult) fail(e ValidationError) {
	r.IsValid = false
	r.Errors = append(r.Errors, e)
}

// ValidateReport checks every card row of the report table and compares the
// tally with the price distribution table and the stamp.
func (v *ReportValidator) ValidateReport(content string) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	meta, body := metadata.Extract(content)
	lines := strings.Split(body, "\n")

	var (
		inCards, inTiers bool
		tierTable        = map[string]int{}
	)

	for i, line := range lines {
		lineNum := i + 1
		line = strings.TrimSpace(line)

		if !strings.HasPrefix(line, "|") {
			inCards, inTiers = false, false

			continue
		}

		cells := formatter.SplitRow(line)

		switch {
		case isHeader(cells, "Title", "Tier"):
			inCards = true
			continue
		case isHeader(cells, "Tier", "Listings"):
			inTiers = true
			continue
		case isSeparator(cells):
			continue
		}

		switch {
		case inCards:
			result.Stats.TotalRows++

			errs := v.validateRow(cells, lineNum)
			if len(errs) > 0 {
				result.Stats.InvalidRows++

				for _, e := range errs {
					result.fail(e)
				}

				continue
			}

			result.Stats.ValidRows++

			tier, _ := parseTier(cells[4])
			result.Stats.Tiers.Add(tier)
		case inTiers && len(cells) == 2:
			n, err := strconv.Atoi(cells[1])
			if err != nil {
				result.fail(ValidationError{Line: lineNum, Field: "listings", Value: cells[1], Message: "tier count is not a number"})

				continue
			}

			tierTable[cells[0]] = n
		}
	}

	if result.Stats.TotalRows == 0 {
		result.Warnings = append(result.Warnings, "no card rows found")
	}

	for _, tier := range models.Tiers() {
		want, ok := tierTable[tier.Label()]
		if !ok {
			continue
		}

		if got := result.Stats.Tiers.Get(tier); got != want {
			result.fail(ValidationError{
				Field:   "tiers",
				Value:   tier.Label(),
				Message: fmt.Sprintf("distribution reports %d %s listings but the table has %d", want, tier.Label(), got),
			})
		}
	}

	if meta != nil && meta.Rendered != result.Stats.TotalRows {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("stamp reports %d rendered listings but the table has %d rows", meta.Rendered, result.Stats.TotalRows))
	}

	return result
}

// ValidateIntegrity checks the content against the hash in its stamp.
func (v *ReportValidator) ValidateIntegrity(content string) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	if valid, err := metadata.Verify(content); !valid {
		result.fail(ValidationError{Message: fmt.Sprintf("integrity check failed: %v", err)})
	}

	return result
}

// validateRow validates a single card row.
func (v *ReportValidator) validateRow(cells []string, lineNum int) []ValidationError {
	if len(cells) != cardColumns {
		return []ValidationError{{
			Line:    lineNum,
			Message: fmt.Sprintf("expected %d columns (#, Title, Host, Price, Tier, Amenities), got %d", cardColumns, len(cells)),
		}}
	}

	var errs []ValidationError

	if n, err := strconv.Atoi(cells[0]); err != nil || n < 1 {
		errs = append(errs, ValidationError{Line: lineNum, Field: "#", Value: cells[0], Message: "row number must be a positive integer"})
	}

	if cells[1] == "" {
		errs = append(errs, ValidationError{Line: lineNum, Field: "title", Message: "title is empty"})
	}

	tier, ok := parseTier(cells[4])
	if !ok {
		errs = append(errs, ValidationError{Line: lineNum, Field: "tier", Value: cells[4], Message: "unknown price tier"})

		return errs
	}

	// unparseable prices were rendered as 0
	price, _ := normalizer.ParsePrice(cells[3])

	if want := normalizer.ClassifyPrice(price); want != tier {
		errs = append(errs, ValidationError{
			Line:    lineNum,
			Field:   "tier",
			Value:   cells[4],
			Message: fmt.Sprintf("price %s belongs to tier %s", cells[3], want),
		})
	}

	return errs
}

func isHeader(cells []string, names ...string) bool {
	for _, name := range names {
		found := false

		for _, c := range cells {
			if c == name {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}

func isSeparator(cells []string) bool {
	for _, c := range cells {
		if c == "" || strings.Trim(c, ":-") != "" {
			return false
		}
	}

	return len(cells) > 0
}

func parseTier(s string) (models.PriceTier, bool) {
	var tier models.PriceTier
	if err := tier.UnmarshalText([]byte(s)); err != nil {
		return 0, false
	}

	return tier, true
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s | Total: %d | Valid: %d | Invalid: %d | Warnings: %d",
		status,
		r.Stats.TotalRows,
		r.Stats.ValidRows,
		r.Stats.InvalidRows,
		len(r.Warnings),
	)
}

// WriteErrors prints validation errors and warnings in readable form.
func (r *ValidationResult) WriteErrors(w io.Writer) {
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "❌ Validation Errors:")
	}

	for _, err := range r.Errors {
		switch {
		case err.Line > 0 && err.Field != "":
			fmt.Fprintf(w, "  Line %d [%s]: %s\n", err.Line, err.Field, err.Message)
		case err.Line > 0:
			fmt.Fprintf(w, "  Line %d: %s\n", err.Line, err.Message)
		default:
			fmt.Fprintf(w, "  %s\n", err.Message)
		}

		if err.Value != "" {
			fmt.Fprintf(w, "    Found: %q\n", err.Value)
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "⚠️  Validation Warnings:")
	}

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  %s\n", warn)
	}
}
