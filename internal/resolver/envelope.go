// =============================================================================
// Proforma Generator - Envelope Validation
// =============================================================================
//
// Envelope validation covers the non-line order fields: operation id,
// requester data and destination. All checks are evaluated independently
// and every failure is collected; validation never stops at the first
// error.
//
// =============================================================================

package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/postventa-tools/proforma/internal/types"
)

// operationIDPattern validates the OA / SGR transfer number: the literal
// prefix "OA" or "SGR" followed by one or more digits, no spaces. Matching
// is case-insensitive; the id is normalized to uppercase for the document
// header and the output file name.
var operationIDPattern = regexp.MustCompile(`^(?i)(OA|SGR)\d+$`)

// NormalizeOperationID trims and uppercases an operation id. It does not
// validate; pair it with ValidOperationID.
func NormalizeOperationID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// ValidOperationID reports whether the trimmed id matches the OA/SGR
// pattern.
func ValidOperationID(id string) bool {
	return operationIDPattern.MatchString(strings.TrimSpace(id))
}

// ValidateEnvelope checks the envelope fields against the reference data
// and returns every violated rule.
//
// On success the returned envelope copy carries the normalized operation
// id, the resolved warehouse description (for warehouse requesters) and a
// pointer to the selected destination record.
//
// A nil warehouses lookup marks the warehouses source as unavailable: that
// is only an error when the requester actually needs it. A nil destinations
// lookup marks the mandatory destinations source as unavailable and always
// fails.
func ValidateEnvelope(env types.OrderEnvelope, warehouses WarehouseLookup, destinations DestinationLookup) (types.OrderEnvelope, []*ValidationError) {
	var errs []*ValidationError

	// Operation id.
	opID := strings.TrimSpace(env.OperationID)
	switch {
	case opID == "":
		errs = append(errs, envelopeError("operation",
			"El campo OA/Traspaso SGR es obligatorio."))
	case !ValidOperationID(opID):
		errs = append(errs, envelopeError("operation",
			"OA/SGR debe comenzar por 'OA' o 'SGR' y seguir con números (sin espacios)."))
	default:
		env.OperationID = NormalizeOperationID(opID)
	}

	// Requester.
	switch env.RequesterKind {
	case types.RequesterWarehouse:
		code := strings.TrimSpace(env.WarehouseCode)
		switch {
		case code == "":
			errs = append(errs, envelopeError("requester",
				"Debes indicar el número de almacén solicitante."))
		case warehouses == nil:
			errs = append(errs, envelopeError("requester",
				"Listado de almacenes no disponible."))
		default:
			entry, ok := warehouses.Lookup(code)
			if !ok {
				errs = append(errs, envelopeError("requester",
					fmt.Sprintf("El almacén '%s' no existe en el listado de almacenes.", code)))
			} else {
				env.WarehouseCode = entry.Code
				env.WarehouseDescription = entry.Description
			}
		}

	case types.RequesterSupplier:
		if strings.TrimSpace(env.SupplierName) == "" {
			errs = append(errs, envelopeError("requester",
				"Debes indicar el nombre del proveedor."))
		}

	case types.RequesterCentral:
		// No additional fields.

	default:
		errs = append(errs, envelopeError("requester",
			fmt.Sprintf("Solicitante no válido: '%s'.", env.RequesterKind)))
	}

	// Destination.
	name := strings.TrimSpace(env.DestinationName)
	switch {
	case destinations == nil:
		errs = append(errs, envelopeError("destination",
			"Listado de destinos no disponible."))
	case name == "":
		errs = append(errs, envelopeError("destination",
			"Debes seleccionar un destino."))
	default:
		dest, ok := destinations.Lookup(name)
		if !ok {
			errs = append(errs, envelopeError("destination",
				fmt.Sprintf("El destino '%s' no existe en el listado de destinos.", name)))
		} else {
			env.Destination = dest
			env.DestinationName = dest.Name
		}
	}

	return env, errs
}
