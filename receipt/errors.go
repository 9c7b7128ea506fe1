/*
errors.go - Centralized error types for the receipt engine

PURPOSE:
  All engine error kinds in one place for consistency and discoverability.
  Callers (pattern parsing, API handlers, CLI) classify with errors.Is and
  the helpers at the bottom; they never match on message text.

ERROR CATEGORIES:
  1. Construction errors - bad participant lists
  2. Item errors - bad item fields, bad indices, over-commitment
  3. Resolver errors - abbreviations that cannot be aligned to people

USAGE:
  Presentation layers map kinds to behavior:

    if receipt.IsNotFound(err) {
        // 404
    } else if receipt.IsClientError(err) {
        // 400 with err.Error()
    }

SEE ALSO:
  - receipt.go: Construction and item-append paths
  - item.go: Update/remove paths
  - resolver.go: Abbreviation resolution
*/
package receipt

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicateParticipant is returned when a receipt is constructed with
	// the same name listed twice. Comparison is case-sensitive.
	ErrDuplicateParticipant = errors.New("duplicate participant")

	// ErrNotEnoughParticipants is returned when fewer than two people share a
	// receipt, or when an item is added with nobody to share it.
	ErrNotEnoughParticipants = errors.New("not enough participants")

	// ErrInvalidShareConfiguration is returned when an item's people and
	// ratios cannot be aligned.
	ErrInvalidShareConfiguration = errors.New("invalid share configuration")

	// ErrInvalidField is returned for field-level validation failures,
	// currently an empty item name.
	ErrInvalidField = errors.New("invalid field")

	// ErrInvalidAbbreviation is returned when an abbreviation list contains
	// duplicates or an abbreviation matches no participant.
	ErrInvalidAbbreviation = errors.New("invalid abbreviation")

	// ErrDuplicatePeople is returned when two abbreviations in the same call
	// resolve to the same person.
	ErrDuplicatePeople = errors.New("duplicate person")

	// ErrItemTotalExceedsReceiptTotal is returned by split calculation when
	// the items sum to more than the receipt's total.
	ErrItemTotalExceedsReceiptTotal = errors.New("itemized total exceeds receipt total")

	// ErrDecimalParsing is returned when a monetary field cannot be parsed.
	// The wrapped message carries the underlying parser error.
	ErrDecimalParsing = errors.New("invalid decimal value")

	// ErrInvalidIndex is returned when an item index is out of range.
	ErrInvalidIndex = errors.New("item index out of range")

	// ErrNotProportionallySplittable is returned when an operation would
	// leave proportional items with no non-proportional items to derive
	// their shares from.
	ErrNotProportionallySplittable = errors.New("receipt is not proportionally splittable")
)

var (
	errEmptyItemName = fmt.Errorf("%w: item name must not be empty", ErrInvalidField)
	errZeroRatioSum  = fmt.Errorf("%w: ratio weights must not sum to zero", ErrInvalidShareConfiguration)
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DuplicateParticipantError reports which name was repeated at construction.
type DuplicateParticipantError struct {
	Name string
}

func (e *DuplicateParticipantError) Error() string {
	return fmt.Sprintf("duplicate participant: %q is listed more than once", e.Name)
}

func (e *DuplicateParticipantError) Unwrap() error {
	return ErrDuplicateParticipant
}

// ShareConfigError reports a people/ratio length mismatch on an item.
type ShareConfigError struct {
	People int
	Ratios int
}

func (e *ShareConfigError) Error() string {
	return fmt.Sprintf("invalid share configuration: %d people but %d ratios", e.People, e.Ratios)
}

func (e *ShareConfigError) Unwrap() error {
	return ErrInvalidShareConfiguration
}

// OvercommitError reports by how much the items exceed the receipt total.
type OvercommitError struct {
	ItemizedTotal decimal.Decimal
	ReceiptTotal  decimal.Decimal
}

func (e *OvercommitError) Error() string {
	excess := e.ItemizedTotal.Sub(e.ReceiptTotal)
	return fmt.Sprintf("itemized total %s exceeds receipt total %s by %s",
		e.ItemizedTotal, e.ReceiptTotal, excess)
}

func (e *OvercommitError) Unwrap() error {
	return ErrItemTotalExceedsReceiptTotal
}

// IndexError reports an out-of-range item index.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("item index %d out of range (%d items)", e.Index, e.Count)
}

func (e *IndexError) Unwrap() error {
	return ErrInvalidIndex
}

// AbbreviationClashError reports an abbreviation whose resolved person was
// already claimed by an earlier abbreviation in the same call.
type AbbreviationClashError struct {
	Abbreviation string
	Name         string
}

func (e *AbbreviationClashError) Error() string {
	return fmt.Sprintf("%q maps to %q, which has already been specified once", e.Abbreviation, e.Name)
}

func (e *AbbreviationClashError) Unwrap() error {
	return ErrDuplicatePeople
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDuplicateParticipant) ||
		errors.Is(err, ErrNotEnoughParticipants) ||
		errors.Is(err, ErrInvalidShareConfiguration) ||
		errors.Is(err, ErrInvalidField) ||
		errors.Is(err, ErrInvalidAbbreviation) ||
		errors.Is(err, ErrDuplicatePeople) ||
		errors.Is(err, ErrItemTotalExceedsReceiptTotal) ||
		errors.Is(err, ErrDecimalParsing) ||
		errors.Is(err, ErrNotProportionallySplittable)
}

// IsNotFound returns true if the error indicates a missing item.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrInvalidIndex)
}
