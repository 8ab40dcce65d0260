// =============================================================================
// Proforma Generator - Line Resolution Engine
// =============================================================================
//
// This module reconciles user-entered order lines against the catalog and
// prices them. Resolution is applied independently per line, in input
// order, and the output preserves that order (it drives the document row
// order).
//
// RESOLUTION POLICY (per line):
//   1. A blank reference (after trimming) skips the line silently. This is
//      a deliberate no-op, not an error: empty form rows are normal.
//   2. A non-blank reference is looked up in the catalog; the catalog
//      description and price become the defaults.
//   3. Manual description / unit price on the input override the catalog
//      values. This is the path for pricing items the catalog lacks.
//   4. A reference missing from a *loaded* catalog is a hard error, unless
//      the policy accepts manually priced uncataloged lines (the default).
//      With no catalog at all, missing membership is never an error: the
//      manual price requirement covers it.
//   5. Quantity must be >= 1.
//   6. The final unit price must exist (catalog or manual) and be >= 0.
//   7. amount = unitPrice * quantity, at full decimal precision. Rounding
//      to two places happens only at display time, never while
//      accumulating.
//
// The resolver is stateless and side-effect-free: the same input against
// the same catalog snapshot always yields the same output.
//
// =============================================================================

package resolver

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/postventa-tools/proforma/internal/types"
)

// =============================================================================
// COLLABORATOR CONTRACTS
// =============================================================================

// CatalogLookup is the catalog collaborator contract. The returned price is
// nil when the catalog row exists but has no usable price. A nil
// CatalogLookup means the catalog source is unavailable, which degrades
// resolution to "manual price required" instead of blocking.
type CatalogLookup interface {
	Lookup(reference string) (description string, unitPrice *decimal.Decimal, found bool)
}

// WarehouseLookup is the warehouses collaborator contract. A nil
// WarehouseLookup means the warehouses source is unavailable; any
// warehouse-kind requester is then rejected with a source error.
type WarehouseLookup interface {
	Lookup(code string) (types.WarehouseEntry, bool)
}

// DestinationLookup is the destinations collaborator contract.
type DestinationLookup interface {
	Lookup(name string) (*types.Destination, bool)
}

// =============================================================================
// POLICY
// =============================================================================

// Policy holds the configurable resolution rules. The zero value is the
// default policy.
type Policy struct {
	// StrictCatalogMembership, when true, rejects lines whose reference is
	// absent from a loaded catalog even if a manual price is supplied.
	StrictCatalogMembership bool
}

// =============================================================================
// LINE RESOLUTION
// =============================================================================

// ResolveLines resolves raw order lines against the catalog.
//
// It returns the resolved lines (only those that passed every check, in
// input order) and the collected per-line errors. Callers decide what a
// non-empty error list means; for document generation any error makes the
// whole order non-submittable.
func ResolveLines(lines []types.RawLine, catalog CatalogLookup, policy Policy) ([]types.ResolvedLine, []*ValidationError) {
	var (
		resolved []types.ResolvedLine
		errs     []*ValidationError
	)

	for idx, line := range lines {
		lineNo := idx + 1

		ref := strings.TrimSpace(line.Reference)
		if ref == "" {
			// Blank row: dropped silently per the form contract.
			continue
		}

		// Catalog defaults.
		var (
			catDesc  string
			catPrice *decimal.Decimal
			inCat    bool
		)
		if catalog != nil {
			catDesc, catPrice, inCat = catalog.Lookup(ref)
		}

		// Manual overrides win over catalog values.
		description := strings.TrimSpace(line.ManualDescription)
		if description == "" {
			description = strings.TrimSpace(catDesc)
		}

		price := catPrice
		if line.ManualUnitPrice != nil {
			price = line.ManualUnitPrice
		}

		lineOK := true

		if catalog != nil && !inCat {
			accepted := !policy.StrictCatalogMembership && line.ManualUnitPrice != nil
			if !accepted {
				errs = append(errs, lineError(lineNo, "reference",
					fmt.Sprintf("la referencia '%s' no existe en el catálogo", ref)))
				lineOK = false
			}
		}

		if line.Quantity <= 0 {
			errs = append(errs, lineError(lineNo, "quantity",
				"la cantidad debe ser mayor que 0"))
			lineOK = false
		}

		switch {
		case price == nil:
			errs = append(errs, lineError(lineNo, "price",
				"falta Precio/UD (catálogo o manual)"))
			lineOK = false
		case price.IsNegative():
			errs = append(errs, lineError(lineNo, "price",
				"el Precio/UD no puede ser negativo"))
			lineOK = false
		}

		if !lineOK {
			continue
		}

		unitPrice := *price
		resolved = append(resolved, types.ResolvedLine{
			Reference:   ref,
			Quantity:    line.Quantity,
			Description: description,
			UnitPrice:   unitPrice,
			Amount:      unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}

	return resolved, errs
}

// Total sums resolved line amounts at full precision.
func Total(lines []types.ResolvedLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Amount)
	}
	return total
}

// AllBlank reports whether every raw line has a blank reference. Used for
// the "at least one reference" envelope rule, which distinguishes an empty
// form from a form with broken lines.
func AllBlank(lines []types.RawLine) bool {
	for _, line := range lines {
		if strings.TrimSpace(line.Reference) != "" {
			return false
		}
	}
	return true
}
