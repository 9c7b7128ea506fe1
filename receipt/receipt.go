/*
Package receipt provides the bill-splitting engine.

PURPOSE:
  This package contains the data model and algorithms for allocating a
  receipt's total across line items and participants. It produces an
  auditable per-person breakdown that reconciles to the receipt total,
  including a synthetic row for the unitemized leftover.

KEY CONCEPTS IN THIS FILE (receipt.go):
  - Receipt: The total, the canonical participant order, and the items
  - Ratio items: Per-person weights are user-set (default uniform)
  - Proportional items: Per-person shares are derived from the other
    items' aggregate distribution and re-derived after every mutation

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Atomicity: A rejected mutation leaves the receipt exactly as it was
  3. Purity: Split calculation never mutates; all state lives in Receipt
  4. Single owner: One goroutine drives a receipt; there is no internal
     locking (callers that share a receipt wrap it in their own mutex)

USAGE:
  r, err := receipt.New(decimal.NewFromInt(300), []string{"Alice", "Bob"})
  err = r.AddItemByRatio(decimal.NewFromInt(200), "Food", []string{"Alice", "Bob"}, nil)
  splits, err := r.CalculateSplits()

SEE ALSO:
  - item.go: Item mutation (update/remove) and the recalculation pass
  - splits.go: The split matrix and proportional-share derivation
  - resolver.go: Abbreviation-to-participant resolution
  - errors.go: Error kinds returned by every operation
*/
package receipt

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// RECEIPT - Total, participants, items
// =============================================================================

// Receipt is the total bill, the people sharing it, and its items.
// Participant order is canonical: every split row reports people in this
// order. The zero value is not usable; construct with New.
type Receipt struct {
	value         decimal.Decimal
	participants  []string
	items         []Item
	abbreviations map[string]string // learned abbreviation -> participant name
}

// New builds a receipt for value shared by the given people.
// Names are case-sensitive and must be unique; at least two are required.
func New(value decimal.Decimal, participants []string) (*Receipt, error) {
	if len(participants) < 2 {
		return nil, ErrNotEnoughParticipants
	}
	seen := make(map[string]struct{}, len(participants))
	for _, name := range participants {
		if _, ok := seen[name]; ok {
			return nil, &DuplicateParticipantError{Name: name}
		}
		seen[name] = struct{}{}
	}
	return &Receipt{
		value:         value,
		participants:  append([]string(nil), participants...),
		abbreviations: make(map[string]string),
	}, nil
}

// Value returns the receipt's total amount.
func (r *Receipt) Value() decimal.Decimal { return r.value }

// Participants returns the canonical participant order.
func (r *Receipt) Participants() []string {
	return append([]string(nil), r.participants...)
}

// Items returns a copy of the items in insertion order.
func (r *Receipt) Items() []Item {
	return r.cloneItems()
}

// Item returns the item at index.
func (r *Receipt) Item(index int) (Item, error) {
	if index < 0 || index >= len(r.items) {
		return Item{}, &IndexError{Index: index, Count: len(r.items)}
	}
	return r.items[index].clone(), nil
}

// ItemizedTotal returns the sum of all item values.
func (r *Receipt) ItemizedTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range r.items {
		total = total.Add(r.items[i].Value)
	}
	return total
}

// Leftover returns the part of the total not covered by items.
// Negative when the items over-commit the receipt.
func (r *Receipt) Leftover() decimal.Decimal {
	return r.value.Sub(r.ItemizedTotal())
}

// =============================================================================
// ITEM APPEND
// =============================================================================

// AddItemByRatio appends a non-proportional item. A nil or empty shareRatio
// defaults to uniform weight 1 per person. The ratio entries align by index
// with sharedBy; the weight sum must be nonzero.
func (r *Receipt) AddItemByRatio(value decimal.Decimal, name string, sharedBy []string, shareRatio []decimal.Decimal) error {
	if len(shareRatio) == 0 {
		shareRatio = uniformRatio(len(sharedBy))
	}
	if len(sharedBy) != len(shareRatio) {
		return &ShareConfigError{People: len(sharedBy), Ratios: len(shareRatio)}
	}
	if len(sharedBy) == 0 {
		return ErrNotEnoughParticipants
	}
	if sumDecimals(shareRatio).IsZero() {
		return errZeroRatioSum
	}
	if name == "" {
		return errEmptyItemName
	}
	r.items = append(r.items, Item{
		Value:      value,
		Name:       name,
		SharedBy:   append([]string(nil), sharedBy...),
		ShareRatio: append([]decimal.Decimal(nil), shareRatio...),
	})
	return nil
}

// AddItemByProportion appends a proportional item. Its per-person shares are
// derived from the receipt's current non-proportional aggregate and re-derived
// whenever that aggregate changes. Requires at least one non-proportional item
// covering somebody in sharedBy.
func (r *Receipt) AddItemByProportion(value decimal.Decimal, name string, sharedBy []string) error {
	if len(sharedBy) == 0 {
		return ErrInvalidShareConfiguration
	}
	if name == "" {
		return errEmptyItemName
	}
	ratio, err := r.deriveShareRatio(sharedBy, value)
	if err != nil {
		return err
	}
	r.items = append(r.items, Item{
		Value:        value,
		Name:         name,
		SharedBy:     append([]string(nil), sharedBy...),
		ShareRatio:   ratio,
		Proportional: true,
	})
	return nil
}

func uniformRatio(n int) []decimal.Decimal {
	ratio := make([]decimal.Decimal, n)
	one := decimal.NewFromInt(1)
	for i := range ratio {
		ratio[i] = one
	}
	return ratio
}
