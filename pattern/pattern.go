/*
Package pattern turns comma-separated input text into engine calls.

PURPOSE:
  The text input path speaks two tiny pattern languages:
    receipt:  "Total,Person1,Person2[,...]"
    item:     "Value,Abbrev1[,Abbrev2,...]"
  This package splits the patterns, parses the leading value, resolves item
  abbreviations through the receipt, and drives the corresponding engine
  operations. It also owns the argument pairing loop used by the CLI, where
  "-Name" introduces an item and the following argument is its pattern.

SCOPE:
  Only splitting, value parsing and pairing live here. Name resolution and
  every validation rule belong to the receipt package; errors from there
  pass through untouched.

SEE ALSO:
  - receipt: The engine operations this package drives
  - cli: Feeds os.Args through ParseArgs and Build
*/
package pattern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/billsplit/receipt"
)

// ErrInvalidArgument is returned when the argument list does not alternate
// between item flags and item patterns.
var ErrInvalidArgument = errors.New("invalid argument")

// NamedItem pairs an item flag's name with the pattern that follows it.
type NamedItem struct {
	Name    string
	Pattern string
}

// Invocation is a parsed argument list: the receipt pattern and the named
// item patterns in order.
type Invocation struct {
	Receipt string
	Items   []NamedItem
}

// =============================================================================
// PATTERN PARSING
// =============================================================================

// ParseReceipt builds a receipt from a "Total,Person1,Person2" pattern.
// Fields are taken verbatim; participant validation is the engine's.
func ParseReceipt(s string) (*receipt.Receipt, error) {
	fields := strings.Split(s, ",")
	value, err := parseValue(fields[0])
	if err != nil {
		return nil, err
	}
	return receipt.New(value, fields[1:])
}

// AddItem parses a "Value,Abbrev1,Abbrev2" pattern, resolves the
// abbreviations against the receipt and appends a uniformly shared item.
func AddItem(r *receipt.Receipt, name, s string) error {
	fields := strings.Split(s, ",")
	value, err := parseValue(fields[0])
	if err != nil {
		return err
	}
	sharedBy, err := r.ResolveAbbreviations(fields[1:])
	if err != nil {
		return err
	}
	return r.AddItemByRatio(value, name, sharedBy, nil)
}

func parseValue(field string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(field)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q: %v", receipt.ErrDecimalParsing, field, err)
	}
	return value, nil
}

// =============================================================================
// ARGUMENT PAIRING
// =============================================================================

// ParseArgs splits a CLI argument list into the receipt pattern and the
// named item patterns. The first argument is the receipt pattern; after
// that, a "-Name" or "--Name" flag names an item and the next argument is
// its pattern. At least one item is required.
func ParseArgs(args []string) (*Invocation, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: a receipt pattern is required", ErrInvalidArgument)
	}
	inv := &Invocation{Receipt: args[0]}
	for i := 1; i < len(args); i += 2 {
		flag := args[i]
		if !strings.HasPrefix(flag, "-") {
			return nil, fmt.Errorf("%w: expected an item flag, got %q", ErrInvalidArgument, flag)
		}
		if i+1 >= len(args) {
			return nil, fmt.Errorf("%w: item flag %q has no pattern", ErrInvalidArgument, flag)
		}
		inv.Items = append(inv.Items, NamedItem{
			Name:    strings.TrimLeft(flag, "-"),
			Pattern: args[i+1],
		})
	}
	if len(inv.Items) == 0 {
		return nil, fmt.Errorf("%w: only the receipt's total and people were given, not any item to split", ErrInvalidArgument)
	}
	return inv, nil
}

// Build runs a full argument list through the engine: receipt first, then
// every named item in order. The first failing item aborts the build.
func Build(args []string) (*receipt.Receipt, error) {
	inv, err := ParseArgs(args)
	if err != nil {
		return nil, err
	}
	r, err := ParseReceipt(inv.Receipt)
	if err != nil {
		return nil, err
	}
	for _, item := range inv.Items {
		if err := AddItem(r, item.Name, item.Pattern); err != nil {
			return nil, fmt.Errorf("item %q: %w", item.Name, err)
		}
	}
	return r, nil
}
