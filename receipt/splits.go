/*
splits.go - Split calculation over a receipt snapshot

PURPOSE:
  Pure computation producing the per-item, per-person monetary matrix plus
  the synthetic leftover and total rows. Nothing in this file mutates the
  receipt; a failed calculation is side-effect free.

ROUNDING:
  Every emitted cell is rounded to 2 fractional digits at emission time.
  The total row sums the rounded cells and rounds again, so row and column
  totals can drift from the continuous total by a cent per participant.
  That drift is the documented contract, kept for output compatibility.

SEE ALSO:
  - receipt.go: The model this file computes over
  - item.go: The recalculation pass built on deriveRatio
*/
package receipt

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Row labels reserved for the synthetic rows. Item names are not checked
// against them; a colliding item name renders indistinguishably.
const (
	LabelLeftover = "<leftover>"
	LabelTotal    = "<total>"
)

// Splits is the displayable outcome of a split calculation. Rows align with
// Labels; every row has one cell per participant in canonical order plus a
// trailing row-total cell. Columns carries the matching headers.
type Splits struct {
	Labels  []string
	Columns []string
	Rows    [][]decimal.Decimal
}

// =============================================================================
// CALCULATION
// =============================================================================

// CalculateSplits computes the full split matrix: one row per item, a
// leftover row when the items do not cover the total, and a final total row
// summing the rounded cells. Fails when the items over-commit the receipt,
// leaving the receipt untouched.
func (r *Receipt) CalculateSplits() (*Splits, error) {
	leftover := r.Leftover()
	if leftover.IsNegative() {
		return nil, &OvercommitError{ItemizedTotal: r.ItemizedTotal(), ReceiptTotal: r.value}
	}

	labels := make([]string, 0, len(r.items)+2)
	rows := make([][]decimal.Decimal, 0, len(r.items)+2)
	for _, it := range r.items {
		row := make([]decimal.Decimal, len(r.participants)+1)
		// A proportional item of value 0 derives an all-zero ratio; its
		// cells stay zero instead of dividing by the zero sum.
		if sum := sumDecimals(it.ShareRatio); !sum.IsZero() {
			for i, name := range r.participants {
				if pos := indexOf(it.SharedBy, name); pos >= 0 {
					row[i] = it.Value.Mul(it.ShareRatio[pos]).Div(sum).Round(2)
				}
			}
		}
		row[len(r.participants)] = it.Value
		labels = append(labels, it.Name)
		rows = append(rows, row)
	}

	if leftover.IsPositive() {
		norm, err := normalizeShares(r.AggregateProportion(true))
		if err != nil {
			return nil, err
		}
		row := make([]decimal.Decimal, len(r.participants)+1)
		for i := range norm {
			row[i] = norm[i].Mul(leftover).Round(2)
		}
		row[len(r.participants)] = leftover
		labels = append(labels, LabelLeftover)
		rows = append(rows, row)
	}

	total := make([]decimal.Decimal, len(r.participants)+1)
	for _, row := range rows {
		for j := range row {
			total[j] = total[j].Add(row[j])
		}
	}
	for j := range total {
		total[j] = total[j].Round(2)
	}
	labels = append(labels, LabelTotal)
	rows = append(rows, total)

	return &Splits{
		Labels:  labels,
		Columns: append(r.Participants(), "Total"),
		Rows:    rows,
	}, nil
}

// =============================================================================
// PROPORTIONS
// =============================================================================

// AggregateProportion returns, per participant in canonical order, the
// unrounded amount the items assign to them. With excludeProportional set,
// only non-proportional items contribute; that aggregate is the basis for
// deriving proportional shares and for allocating the leftover.
func (r *Receipt) AggregateProportion(excludeProportional bool) []decimal.Decimal {
	return aggregateProportion(r.items, r.participants, excludeProportional)
}

func aggregateProportion(items []Item, participants []string, excludeProportional bool) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(participants))
	for _, it := range items {
		if excludeProportional && it.Proportional {
			continue
		}
		sum := sumDecimals(it.ShareRatio)
		if sum.IsZero() {
			// An all-zero ratio assigns nothing.
			continue
		}
		for i, name := range participants {
			if pos := indexOf(it.SharedBy, name); pos >= 0 {
				shares[i] = shares[i].Add(it.Value.Mul(it.ShareRatio[pos]).Div(sum))
			}
		}
	}
	return shares
}

// deriveRatio computes a proportional item's per-person shares: the
// non-proportional aggregate restricted to sharedBy, normalized to sum 1,
// scaled by the item's value. The result is stored amounts, not weights,
// aligned by index with sharedBy.
func deriveRatio(items []Item, participants []string, sharedBy []string, value decimal.Decimal) ([]decimal.Decimal, error) {
	agg := aggregateProportion(items, participants, true)
	restricted := make([]decimal.Decimal, len(sharedBy))
	for i, name := range sharedBy {
		if pos := indexOf(participants, name); pos >= 0 {
			restricted[i] = agg[pos]
		}
	}
	norm, err := normalizeShares(restricted)
	if err != nil {
		return nil, err
	}
	ratio := make([]decimal.Decimal, len(norm))
	for i := range norm {
		ratio[i] = norm[i].Mul(value).Round(2)
	}
	return ratio, nil
}

func (r *Receipt) deriveShareRatio(sharedBy []string, value decimal.Decimal) ([]decimal.Decimal, error) {
	return deriveRatio(r.items, r.participants, sharedBy, value)
}

func normalizeShares(shares []decimal.Decimal) ([]decimal.Decimal, error) {
	sum := sumDecimals(shares)
	if sum.IsZero() {
		return nil, fmt.Errorf("%w: no non-proportional shares to derive from", ErrNotProportionallySplittable)
	}
	norm := make([]decimal.Decimal, len(shares))
	for i := range shares {
		norm[i] = shares[i].Div(sum)
	}
	return norm, nil
}

func sumDecimals(ds []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range ds {
		sum = sum.Add(d)
	}
	return sum
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
