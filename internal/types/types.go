// =============================================================================
// Proforma Generator - Shared Types
// =============================================================================
//
// This package contains shared domain types used across multiple modules to
// avoid import cycles. Types defined here are used by:
//   - dataset (reference data records)
//   - resolver (raw and resolved order lines, envelope)
//   - render (document input)
//   - server (transport mapping)
//
// =============================================================================

package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// REFERENCE DATA
// =============================================================================

// WarehouseEntry is a single row of the warehouses table.
type WarehouseEntry struct {
	// Code is the warehouse number ("Almacen" column).
	Code string

	// Description is the warehouse description ("Descripcion" column).
	Description string
}

// Destination is a full shipping destination record ("destinos" table).
// All fields feed the DESTINO block of the rendered document.
type Destination struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Country    string `json:"country"`
	TaxID      string `json:"tax_id"`
}

// =============================================================================
// ORDER LINES
// =============================================================================

// RawLine is one user-entered order row before resolution. Instances are
// owned by the caller (form or API client) and are never mutated by the
// resolver.
type RawLine struct {
	// Reference is the catalog code as typed by the user.
	Reference string

	// Quantity is the requested unit count. Must end up >= 1 to resolve.
	Quantity int

	// ManualDescription, when non-empty, overrides the catalog description.
	ManualDescription string

	// ManualUnitPrice, when set, overrides the catalog price. This is the
	// path for pricing items that are not in the catalog.
	ManualUnitPrice *decimal.Decimal
}

// ResolvedLine is a fully priced order row. It is only ever constructed
// complete: a line either resolves entirely or is rejected with an error.
type ResolvedLine struct {
	// Reference is the trimmed item code.
	Reference string

	// Quantity is the unit count, >= 1.
	Quantity int

	// Description is the final description (catalog or manual), non-empty
	// unless neither source provided one.
	Description string

	// UnitPrice is the final unit price (catalog or manual), >= 0.
	UnitPrice decimal.Decimal

	// Amount is UnitPrice * Quantity at full decimal precision. Rounding to
	// two places happens only at display time.
	Amount decimal.Decimal
}

// =============================================================================
// ORDER ENVELOPE
// =============================================================================

// RequesterKind identifies who is asking for the material.
type RequesterKind string

const (
	// RequesterWarehouse is a back-office / workshop warehouse request.
	// Requires a warehouse code that exists in the warehouses table.
	RequesterWarehouse RequesterKind = "warehouse"

	// RequesterCentral is the central warehouse. No extra detail required.
	RequesterCentral RequesterKind = "central"

	// RequesterSupplier is an external supplier request. Requires a
	// non-blank supplier name.
	RequesterSupplier RequesterKind = "supplier"
)

// Valid reports whether k is one of the known requester kinds.
func (k RequesterKind) Valid() bool {
	switch k {
	case RequesterWarehouse, RequesterCentral, RequesterSupplier:
		return true
	}
	return false
}

// Label returns the requester kind as shown on the document.
func (k RequesterKind) Label() string {
	switch k {
	case RequesterWarehouse:
		return "BO/Taller"
	case RequesterCentral:
		return "Almacén Central"
	case RequesterSupplier:
		return "Proveedor"
	}
	return string(k)
}

// OrderEnvelope carries the non-line fields of an order as entered by the
// user. The resolver validates it; the renderer consumes the validated copy.
type OrderEnvelope struct {
	// OperationID is the OA / SGR transfer number. Validated against
	// ^(OA|SGR)\d+$ case-insensitively and normalized to uppercase.
	OperationID string

	// RequesterKind selects which extra requester fields are required.
	RequesterKind RequesterKind

	// WarehouseCode is required when RequesterKind is RequesterWarehouse.
	WarehouseCode string

	// WarehouseDescription is filled in during validation from the
	// warehouses table.
	WarehouseDescription string

	// SupplierName is required when RequesterKind is RequesterSupplier.
	SupplierName string

	// DestinationName selects a row of the destinations table.
	DestinationName string

	// Destination is filled in during validation from the destinations
	// table.
	Destination *Destination
}

// Order is the full raw input of one editing session.
type Order struct {
	Envelope OrderEnvelope
	Lines    []RawLine
}

// =============================================================================
// HELPERS
// =============================================================================

// NormalizeKey trims a lookup key and folds it to uppercase. This is the
// normalization applied to catalog references and, by default policy, to
// warehouse codes and destination names.
func NormalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
