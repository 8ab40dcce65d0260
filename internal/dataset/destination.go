// =============================================================================
// Proforma Generator - Destinations Data Source
// =============================================================================
//
// The destinations table holds the full shipping address records used for
// the DESTINO block of the document: name, street address, postal code,
// city, country and tax id. It is the one mandatory data source: without it
// no order can be submitted.
//
// Row order is preserved because the selection list shown to users follows
// the file.
//
// =============================================================================

package dataset

import (
	"github.com/postventa-tools/proforma/internal/types"
)

// Canonical destination columns.
const (
	ColDestName   = "Nombre"
	ColDestStreet = "Direccion"
	ColDestPostal = "CP"
	ColDestCity   = "Ciudad"
	ColDestPais   = "Pais"
	ColDestTaxID  = "CIF"
)

var destinationAliases = map[string][]string{
	ColDestName:   {"Name", "Destino"},
	ColDestStreet: {"Dirección", "Address", "Dir"},
	ColDestPostal: {"CodPostal", "Codigo Postal", "PostalCode", "Zip"},
	ColDestCity:   {"City", "Poblacion", "Población"},
	ColDestPais:   {"País", "Country"},
	ColDestTaxID:  {"NIF", "TaxID", "VAT"},
}

// Destinations is an immutable, ordered snapshot of the destinations table.
type Destinations struct {
	source  string
	ordered []types.Destination
	byName  map[string]int
}

// LoadDestinations reads the destinations table from path.
func LoadDestinations(path string, extraAliases map[string][]string) (*Destinations, error) {
	required := []string{ColDestName, ColDestStreet, ColDestPostal, ColDestCity, ColDestPais, ColDestTaxID}
	t, err := loadTable(path, required, mergeAliases(destinationAliases, extraAliases))
	if err != nil {
		return nil, err
	}

	d := &Destinations{
		source: path,
		byName: make(map[string]int),
	}

	for _, row := range t.rows {
		name := t.cell(row, ColDestName)
		if name == "" {
			continue
		}
		d.byName[types.NormalizeKey(name)] = len(d.ordered)
		d.ordered = append(d.ordered, types.Destination{
			Name:       name,
			Address:    t.cell(row, ColDestStreet),
			PostalCode: t.cell(row, ColDestPostal),
			City:       t.cell(row, ColDestCity),
			Country:    t.cell(row, ColDestPais),
			TaxID:      t.cell(row, ColDestTaxID),
		})
	}

	return d, nil
}

// Lookup finds a destination by name (trimmed, case-insensitive). The
// returned record points into the snapshot and must not be mutated.
func (d *Destinations) Lookup(name string) (*types.Destination, bool) {
	idx, ok := d.byName[types.NormalizeKey(name)]
	if !ok {
		return nil, false
	}
	return &d.ordered[idx], true
}

// Names returns the destination names in file order.
func (d *Destinations) Names() []string {
	names := make([]string, len(d.ordered))
	for i, dest := range d.ordered {
		names[i] = dest.Name
	}
	return names
}

// All returns the destination records in file order.
func (d *Destinations) All() []types.Destination {
	return append([]types.Destination(nil), d.ordered...)
}

// Len returns the number of loaded destinations.
func (d *Destinations) Len() int { return len(d.ordered) }

// Source returns the path the table was loaded from.
func (d *Destinations) Source() string { return d.source }
