/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DECIMAL ENCODING:
  All money amounts and ratios travel as strings ("66.67", not 66.67).
  Floats would reintroduce exactly the precision loss the engine's
  decimal arithmetic exists to avoid.

SEE ALSO:
  - handlers.go: Uses these types
  - receipt/: The domain model these types mirror
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/billsplit/groups"
	"github.com/warp/billsplit/receipt"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CreateReceiptRequest is the request to start a new receipt.
type CreateReceiptRequest struct {
	Value        string   `json:"value"`
	Participants []string `json:"participants"`
}

// ReceiptDTO represents a receipt in API responses.
type ReceiptDTO struct {
	ID            string    `json:"id"`
	Value         string    `json:"value"`
	Participants  []string  `json:"participants"`
	Items         []ItemDTO `json:"items"`
	ItemizedTotal string    `json:"itemized_total"`
	Leftover      string    `json:"leftover"`
}

// ItemDTO represents a line item in API responses.
type ItemDTO struct {
	Index        int      `json:"index"`
	Name         string   `json:"name"`
	Value        string   `json:"value"`
	SharedBy     []string `json:"shared_by"`
	ShareRatio   []string `json:"share_ratio"`
	Proportional bool     `json:"proportional"`
}

// AddItemRequest is the request to append an item.
// share_ratio is ignored for proportional items; omitting it on a ratio
// item means an even split.
type AddItemRequest struct {
	Name         string   `json:"name"`
	Value        string   `json:"value"`
	SharedBy     []string `json:"shared_by"`
	ShareRatio   []string `json:"share_ratio,omitempty"`
	Proportional bool     `json:"proportional,omitempty"`
}

// UpdateItemRequest is the PATCH body for an item. Absent fields are
// left untouched; shared_by present but empty is rejected by the engine.
type UpdateItemRequest struct {
	Name         *string  `json:"name,omitempty"`
	Value        *string  `json:"value,omitempty"`
	SharedBy     []string `json:"shared_by,omitempty"`
	Proportional *bool    `json:"proportional,omitempty"`
}

// SplitsDTO is the full split matrix.
type SplitsDTO struct {
	Labels  []string   `json:"labels"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ResolveRequest asks for abbreviations to be expanded to participants.
type ResolveRequest struct {
	Abbreviations []string `json:"abbreviations"`
}

// ResolveResponse carries the resolved participant names, aligned with
// the request's abbreviation order.
type ResolveResponse struct {
	Participants []string `json:"participants"`
}

// GroupDTO represents a recently used participant group.
type GroupDTO struct {
	Names     []string `json:"names"`
	CreatedAt string   `json:"created_at"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toReceiptDTO(id string, r *receipt.Receipt) ReceiptDTO {
	items := r.Items()
	dtos := make([]ItemDTO, len(items))
	for i, item := range items {
		dtos[i] = toItemDTO(i, item)
	}
	return ReceiptDTO{
		ID:            id,
		Value:         r.Value().StringFixed(2),
		Participants:  r.Participants(),
		Items:         dtos,
		ItemizedTotal: r.ItemizedTotal().StringFixed(2),
		Leftover:      r.Leftover().StringFixed(2),
	}
}

func toItemDTO(index int, item receipt.Item) ItemDTO {
	ratios := make([]string, len(item.ShareRatio))
	for i, ratio := range item.ShareRatio {
		ratios[i] = ratio.String()
	}
	return ItemDTO{
		Index:        index,
		Name:         item.Name,
		Value:        item.Value.StringFixed(2),
		SharedBy:     item.SharedBy,
		ShareRatio:   ratios,
		Proportional: item.Proportional,
	}
}

func toSplitsDTO(s *receipt.Splits) SplitsDTO {
	rows := make([][]string, len(s.Rows))
	for i, row := range s.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cell.StringFixed(2)
		}
		rows[i] = cells
	}
	return SplitsDTO{
		Labels:  s.Labels,
		Columns: s.Columns,
		Rows:    rows,
	}
}

func toGroupDTOs(gs []groups.Group) []GroupDTO {
	dtos := make([]GroupDTO, len(gs))
	for i, g := range gs {
		dtos[i] = GroupDTO{
			Names:     g.Names,
			CreatedAt: g.CreatedAt.Format(time.RFC3339),
		}
	}
	return dtos
}

// parseDecimals converts a slice of strings to decimals, nil in nil out.
func parseDecimals(values []string) ([]decimal.Decimal, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}
