// =============================================================================
// Proforma Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Proforma Generator CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   proforma generate --order FILE  - Validate an order and write the PDF
//   proforma validate               - Check the reference data sources
//   proforma serve                  - Serve the generation flow over HTTP
//   proforma version                - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : core business logic (not for external import)
//   - pkg/       : shared utilities
//   - data/      : reference spreadsheets (catalog, warehouses, destinations)
//   - images/    : header and footer artwork for the PDF
//
// =============================================================================

package main

import (
	"github.com/postventa-tools/proforma/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
