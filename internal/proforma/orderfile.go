// =============================================================================
// Proforma Generator - Order File Loader
// =============================================================================
//
// 'proforma generate' reads the order from a YAML file instead of a form:
//
//   operation: OA123456
//   requester: warehouse          # warehouse | central | supplier
//   warehouse_code: "0042"
//   supplier_name: ""
//   destination: Central Madrid
//   lines:
//     - reference: REF-1
//       quantity: 3
//     - reference: SPECIAL
//       quantity: 1
//       description: Pieza fuera de catálogo
//       unit_price: "12.50"
//
// Prices are written as strings so YAML never mangles them into binary
// floats; parsing failures surface as load errors, not validation errors,
// because a broken file is an operator problem.
//
// =============================================================================

package proforma

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/postventa-tools/proforma/internal/types"
)

// orderFileLine mirrors one line entry of the order file.
type orderFileLine struct {
	Reference   string `yaml:"reference"`
	Quantity    int    `yaml:"quantity"`
	Description string `yaml:"description"`
	UnitPrice   string `yaml:"unit_price"`
}

// orderFile mirrors the order file document.
type orderFile struct {
	Operation     string          `yaml:"operation"`
	Requester     string          `yaml:"requester"`
	WarehouseCode string          `yaml:"warehouse_code"`
	SupplierName  string          `yaml:"supplier_name"`
	Destination   string          `yaml:"destination"`
	Lines         []orderFileLine `yaml:"lines"`
}

// LoadOrderFile reads an order description from a YAML file.
func LoadOrderFile(path string) (types.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Order{}, fmt.Errorf("failed to read order file: %w", err)
	}

	var file orderFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return types.Order{}, fmt.Errorf("failed to parse order file: %w", err)
	}

	lines := make([]types.RawLine, len(file.Lines))
	for i, l := range file.Lines {
		line := types.RawLine{
			Reference:         l.Reference,
			Quantity:          l.Quantity,
			ManualDescription: l.Description,
		}
		if strings.TrimSpace(l.UnitPrice) != "" {
			price, err := decimal.NewFromString(strings.TrimSpace(l.UnitPrice))
			if err != nil {
				return types.Order{}, fmt.Errorf("line %d: bad unit_price %q: %w", i+1, l.UnitPrice, err)
			}
			line.ManualUnitPrice = &price
		}
		lines[i] = line
	}

	return types.Order{
		Envelope: types.OrderEnvelope{
			OperationID:     file.Operation,
			RequesterKind:   types.RequesterKind(file.Requester),
			WarehouseCode:   file.WarehouseCode,
			SupplierName:    file.SupplierName,
			DestinationName: file.Destination,
		},
		Lines: lines,
	}, nil
}
