// =============================================================================
// Proforma Generator - Catalog Data Source
// =============================================================================
//
// The catalog maps an item reference to its description and unit price.
// Matching is trimmed and case-insensitive. Prices are parsed into decimals
// at load time; a row whose price cell is not a usable number keeps its
// description but carries no price, so a line using it needs a manual price.
//
// The catalog is the one optional data source: when the file is missing the
// application still runs and every order line must be priced manually.
//
// =============================================================================

package dataset

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/postventa-tools/proforma/internal/types"
)

// Canonical catalog columns.
const (
	ColReference   = "Referencia"
	ColDescription = "Descripcion"
	ColUnitPrice   = "PrecioUD"
)

// catalogAliases are the built-in header spellings accepted for the catalog
// columns, beyond accent/case folding.
var catalogAliases = map[string][]string{
	ColReference:   {"Ref", "Reference", "Codigo"},
	ColDescription: {"Desc", "Description"},
	ColUnitPrice:   {"Precio", "Precio UD", "Precio/UD", "PVP", "UnitPrice"},
}

// catalogRow is one loaded catalog entry. price is nil when the source cell
// did not contain a usable number.
type catalogRow struct {
	reference   string
	description string
	price       *decimal.Decimal
}

// Catalog is an immutable snapshot of the catalog table, keyed for
// case-insensitive reference lookup.
type Catalog struct {
	source string
	byRef  map[string]catalogRow
	count  int
}

// LoadCatalog reads the catalog table from path. extraAliases come from the
// configuration and extend the built-in header aliases.
//
// Returns ErrSourceUnavailable / *SchemaError as described in table.go.
func LoadCatalog(path string, extraAliases map[string][]string) (*Catalog, error) {
	t, err := loadTable(path, []string{ColReference, ColDescription, ColUnitPrice},
		mergeAliases(catalogAliases, extraAliases))
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		source: path,
		byRef:  make(map[string]catalogRow),
	}

	for _, row := range t.rows {
		ref := t.cell(row, ColReference)
		if ref == "" {
			continue
		}

		entry := catalogRow{
			reference:   ref,
			description: t.cell(row, ColDescription),
		}
		if price, ok := parsePrice(t.cell(row, ColUnitPrice)); ok {
			entry.price = &price
		}

		// Last row wins on duplicate references, matching how the
		// spreadsheets are maintained (corrections appended at the end).
		c.byRef[types.NormalizeKey(ref)] = entry
		c.count++
	}

	return c, nil
}

// Lookup finds a reference in the catalog. The returned price is nil when
// the catalog row has no usable price. found is false when no row matches
// the trimmed, case-folded reference.
func (c *Catalog) Lookup(reference string) (description string, unitPrice *decimal.Decimal, found bool) {
	key := types.NormalizeKey(reference)
	if key == "" {
		return "", nil, false
	}

	row, ok := c.byRef[key]
	if !ok {
		return "", nil, false
	}
	return row.description, row.price, true
}

// Len returns the number of loaded catalog rows.
func (c *Catalog) Len() int { return c.count }

// Source returns the path the catalog was loaded from.
func (c *Catalog) Source() string { return c.source }

// =============================================================================
// HELPERS
// =============================================================================

// parsePrice converts a raw price cell into a non-negative decimal.
// Accepts "12.5", "12,50" and a trailing euro sign. Returns ok=false for
// anything else (including negatives, which the catalog never legitimately
// contains).
func parsePrice(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "€"))
	if s == "" {
		return decimal.Decimal{}, false
	}

	// European exports write decimal commas. Only swap when there is no
	// dot; with both present the commas are thousands separators.
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	}
	s = strings.ReplaceAll(s, " ", "")

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, false
	}
	return d, true
}

// mergeAliases overlays configuration aliases on the built-in table without
// mutating either input.
func mergeAliases(builtin, extra map[string][]string) map[string][]string {
	merged := make(map[string][]string, len(builtin))
	for k, v := range builtin {
		merged[k] = append([]string(nil), v...)
	}
	for k, v := range extra {
		merged[k] = append(merged[k], v...)
	}
	return merged
}
