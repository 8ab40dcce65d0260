// =============================================================================
// Proforma Generator - Warehouses Data Source
// =============================================================================
//
// The warehouses table maps a warehouse code ("Almacen") to its description.
// It is consulted only when the requester is a back-office / workshop
// warehouse. Code matching is always trimmed; case folding is a policy
// decision because the source spreadsheets were never consistent about it,
// so it is a load-time option rather than a hard rule.
//
// =============================================================================

package dataset

import (
	"strings"

	"github.com/postventa-tools/proforma/internal/types"
)

// Canonical warehouse columns.
const (
	ColWarehouseCode = "Almacen"
	// Description column is shared with the catalog (ColDescription).
)

var warehouseAliases = map[string][]string{
	ColWarehouseCode: {"Almacén", "Warehouse", "Codigo", "Cod"},
	ColDescription:   {"Desc", "Description"},
}

// Warehouses is an immutable snapshot of the warehouses table.
type Warehouses struct {
	source        string
	caseSensitive bool
	byCode        map[string]types.WarehouseEntry
	count         int
}

// LoadWarehouses reads the warehouses table from path. When caseSensitive
// is true, codes match byte-for-byte after trimming; otherwise they are
// case-folded like catalog references.
func LoadWarehouses(path string, extraAliases map[string][]string, caseSensitive bool) (*Warehouses, error) {
	t, err := loadTable(path, []string{ColWarehouseCode, ColDescription},
		mergeAliases(warehouseAliases, extraAliases))
	if err != nil {
		return nil, err
	}

	w := &Warehouses{
		source:        path,
		caseSensitive: caseSensitive,
		byCode:        make(map[string]types.WarehouseEntry),
	}

	for _, row := range t.rows {
		code := t.cell(row, ColWarehouseCode)
		if code == "" {
			continue
		}
		w.byCode[w.key(code)] = types.WarehouseEntry{
			Code:        code,
			Description: t.cell(row, ColDescription),
		}
		w.count++
	}

	return w, nil
}

// Lookup finds a warehouse by code under the configured matching policy.
func (w *Warehouses) Lookup(code string) (types.WarehouseEntry, bool) {
	key := w.key(code)
	if key == "" {
		return types.WarehouseEntry{}, false
	}
	entry, ok := w.byCode[key]
	return entry, ok
}

// Len returns the number of loaded warehouse rows.
func (w *Warehouses) Len() int { return w.count }

// Source returns the path the table was loaded from.
func (w *Warehouses) Source() string { return w.source }

func (w *Warehouses) key(code string) string {
	if w.caseSensitive {
		return strings.TrimSpace(code)
	}
	return types.NormalizeKey(code)
}
