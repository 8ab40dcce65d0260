// =============================================================================
// Proforma Generator - HTTP Transport DTOs
// =============================================================================
//
// Request and response shapes for the HTTP API. Binding tags only describe
// the JSON shape; business rules (operation format, requester rules,
// catalog membership, quantities) are the resolver's job so that clients
// receive the full collected error list, never a bind failure for a rule
// violation. The validator tags guard transport-level limits only.
//
// Money crosses the wire as decimal strings with two places on output;
// input accepts both JSON numbers and strings.
//
// =============================================================================

package server

import (
	"github.com/shopspring/decimal"

	"github.com/postventa-tools/proforma/internal/resolver"
	"github.com/postventa-tools/proforma/internal/types"
)

// =============================================================================
// REQUESTS
// =============================================================================

// OrderLineRequest is one raw order line as sent by the form client.
type OrderLineRequest struct {
	Reference   string           `json:"reference"`
	Quantity    int              `json:"quantity" validate:"lte=1000000"`
	Description string           `json:"description"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// OrderRequest is a full order submission.
type OrderRequest struct {
	Operation     string             `json:"operation"`
	Requester     string             `json:"requester"`
	WarehouseCode string             `json:"warehouse_code"`
	SupplierName  string             `json:"supplier_name"`
	Destination   string             `json:"destination"`
	Lines         []OrderLineRequest `json:"lines" validate:"max=500,dive"`
}

// toOrder maps the transport shape onto the domain order.
func (r *OrderRequest) toOrder() types.Order {
	lines := make([]types.RawLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = types.RawLine{
			Reference:         l.Reference,
			Quantity:          l.Quantity,
			ManualDescription: l.Description,
			ManualUnitPrice:   l.UnitPrice,
		}
	}
	return types.Order{
		Envelope: types.OrderEnvelope{
			OperationID:     r.Operation,
			RequesterKind:   types.RequesterKind(r.Requester),
			WarehouseCode:   r.WarehouseCode,
			SupplierName:    r.SupplierName,
			DestinationName: r.Destination,
		},
		Lines: lines,
	}
}

// =============================================================================
// RESPONSES
// =============================================================================

// ResolvedLineResponse is one priced line in a validation response. Price
// and amount are rendered with two decimals; this is the presentation edge.
type ResolvedLineResponse struct {
	Reference   string `json:"reference"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	Amount      string `json:"amount"`
}

// ValidateResponse is the outcome of a validation pass.
type ValidateResponse struct {
	Submittable bool                        `json:"submittable"`
	Errors      []*resolver.ValidationError `json:"errors"`
	Lines       []ResolvedLineResponse      `json:"lines"`
	Total       string                      `json:"total"`
}

// CatalogEntryResponse is a catalog lookup hit. UnitPrice is empty when the
// catalog row carries no usable price.
type CatalogEntryResponse struct {
	Reference   string `json:"reference"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price,omitempty"`
}

// WarehouseResponse is a warehouse lookup hit.
type WarehouseResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// DestinationsResponse lists the selectable destinations in file order.
type DestinationsResponse struct {
	Destinations []types.Destination `json:"destinations"`
}

// ErrorResponse is the generic failure envelope for transport-level errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// newValidateResponse maps a resolver result onto the transport shape.
func newValidateResponse(result *resolver.Result) ValidateResponse {
	lines := make([]ResolvedLineResponse, len(result.Lines))
	for i, l := range result.Lines {
		lines[i] = ResolvedLineResponse{
			Reference:   l.Reference,
			Quantity:    l.Quantity,
			Description: l.Description,
			UnitPrice:   l.UnitPrice.StringFixed(2),
			Amount:      l.Amount.StringFixed(2),
		}
	}

	errs := result.Errors
	if errs == nil {
		errs = []*resolver.ValidationError{}
	}

	return ValidateResponse{
		Submittable: result.Submittable,
		Errors:      errs,
		Lines:       lines,
		Total:       result.Total.StringFixed(2),
	}
}
