/*
item.go - Items and the invariant-preserving mutations over them

PURPOSE:
  Defines the Item type and the update/remove operations. Mutations follow
  a stage-validate-commit discipline: changes are applied to a copy of the
  item list, the proportional recalculation runs on the copy, and only a
  fully valid result replaces the receipt's items. A rejected call leaves
  the receipt untouched.

RECALCULATION:
  Proportional items track the non-proportional aggregate. Any committed
  change to an item's value, people, or proportional flag re-derives every
  proportional item's shares. The pass is idempotent: running it twice
  without an intervening change produces identical shares.

SEE ALSO:
  - receipt.go: Item append paths
  - splits.go: Share derivation used by the recalculation pass
*/
package receipt

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ITEM
// =============================================================================

// Item is a named sub-amount of the receipt owned by a subset of the
// participants. ShareRatio aligns by index with SharedBy. For ratio items
// the ratio entries are relative weights; for proportional items they are
// derived per-person amounts that track the rest of the receipt.
type Item struct {
	Value        decimal.Decimal
	Name         string
	SharedBy     []string
	ShareRatio   []decimal.Decimal
	Proportional bool
}

func (it Item) clone() Item {
	it.SharedBy = append([]string(nil), it.SharedBy...)
	it.ShareRatio = append([]decimal.Decimal(nil), it.ShareRatio...)
	return it
}

func (r *Receipt) cloneItems() []Item {
	items := make([]Item, len(r.items))
	for i := range r.items {
		items[i] = r.items[i].clone()
	}
	return items
}

// =============================================================================
// UPDATE
// =============================================================================

// ItemPatch is a partial update for UpdateItem. Nil fields are left
// unchanged.
type ItemPatch struct {
	Value        *decimal.Decimal
	Name         *string
	SharedBy     []string // nil = unchanged; resets the ratio to uniform
	Proportional *bool
}

// UpdateItem applies patch to the item at index. Setting SharedBy resets the
// item's ratio to uniform weights. Flipping Proportional on requires at least
// one other non-proportional item; flipping it off resets the item to the
// full participant list with uniform weights. Both flips reset SharedBy to
// the full participant list. A change to value, people, or the proportional
// flag re-derives every proportional item's shares before returning.
func (r *Receipt) UpdateItem(index int, patch ItemPatch) error {
	if index < 0 || index >= len(r.items) {
		return &IndexError{Index: index, Count: len(r.items)}
	}
	if patch.Proportional != nil && *patch.Proportional && !anyNonProportionalExcept(r.items, index) {
		return fmt.Errorf("%w: no other item to derive %q from", ErrNotProportionallySplittable, r.items[index].Name)
	}
	if patch.SharedBy != nil && len(patch.SharedBy) == 0 {
		return ErrNotEnoughParticipants
	}

	staged := r.cloneItems()
	it := &staged[index]
	recalc := false
	if patch.Value != nil {
		it.Value = *patch.Value
		recalc = true
	}
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.SharedBy != nil {
		it.SharedBy = append([]string(nil), patch.SharedBy...)
		it.ShareRatio = uniformRatio(len(patch.SharedBy))
		recalc = true
	}
	if patch.Proportional != nil {
		it.Proportional = *patch.Proportional
		it.SharedBy = append([]string(nil), r.participants...)
		if !*patch.Proportional {
			it.ShareRatio = uniformRatio(len(r.participants))
		}
		recalc = true
	}

	if recalc && anyProportional(staged) {
		if err := recalcProportional(staged, r.participants); err != nil {
			return err
		}
	}
	r.items = staged
	return nil
}

// =============================================================================
// REMOVE
// =============================================================================

// RemoveItem deletes the item at index. Removing the last non-proportional
// item while proportional items remain is rejected: their shares would have
// nothing to derive from.
func (r *Receipt) RemoveItem(index int) error {
	if index < 0 || index >= len(r.items) {
		return &IndexError{Index: index, Count: len(r.items)}
	}
	if !r.items[index].Proportional && anyProportional(r.items) && !anyNonProportionalExcept(r.items, index) {
		return fmt.Errorf("%w: removing %q would leave no item to derive proportional shares from",
			ErrNotProportionallySplittable, r.items[index].Name)
	}

	staged := r.cloneItems()
	staged = append(staged[:index], staged[index+1:]...)
	if anyProportional(staged) {
		if err := recalcProportional(staged, r.participants); err != nil {
			return err
		}
	}
	r.items = staged
	return nil
}

// =============================================================================
// RECALCULATION
// =============================================================================

// recalcProportional re-derives the shares of every proportional item in
// items, in place. Derivation reads only non-proportional items, so the
// pass is order-independent and idempotent.
func recalcProportional(items []Item, participants []string) error {
	for i := range items {
		if !items[i].Proportional {
			continue
		}
		ratio, err := deriveRatio(items, participants, items[i].SharedBy, items[i].Value)
		if err != nil {
			return err
		}
		items[i].ShareRatio = ratio
	}
	return nil
}

func anyProportional(items []Item) bool {
	for i := range items {
		if items[i].Proportional {
			return true
		}
	}
	return false
}

func anyNonProportionalExcept(items []Item, index int) bool {
	for i := range items {
		if i != index && !items[i].Proportional {
			return true
		}
	}
	return false
}
