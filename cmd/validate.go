// =============================================================================
// Proforma Generator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command: check that the reference data
// sources load and, optionally, run a validation pass over an order file
// without rendering anything.
//
// COMMAND USAGE:
//   proforma validate                        # Check the data sources only
//   proforma validate --order ./order.yaml   # Also validate an order
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postventa-tools/proforma/internal/proforma"
)

// validateOrderPath optionally points at an order file to validate.
var validateOrderPath string

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the reference data sources and optionally an order file",
	Long: `The validate command loads the configured data sources and reports their
state. The destinations source must load; the catalog and warehouses
sources may be absent, in which case the degraded behavior is reported.

With --order, the order file is additionally validated (no PDF is written)
and every violated rule is listed.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

// init registers the validate command and its flags.
func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(
		&validateOrderPath,
		"order",
		"",
		"Path to an order YAML file to validate",
	)
}

// runValidate checks the data sources and the optional order file.
func runValidate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sources, err := proforma.LoadSources(cfg)
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}

	fmt.Println("=== Data Sources ===")
	if sources.Catalog != nil {
		fmt.Printf("  ✓ catalog:      %d entries (%s)\n", sources.Catalog.Len(), sources.Catalog.Source())
	} else {
		fmt.Println("  ! catalog:      unavailable (lines will require manual prices)")
	}
	if sources.Warehouses != nil {
		fmt.Printf("  ✓ warehouses:   %d entries (%s)\n", sources.Warehouses.Len(), sources.Warehouses.Source())
	} else {
		fmt.Println("  ! warehouses:   unavailable (warehouse requesters will be rejected)")
	}
	fmt.Printf("  ✓ destinations: %d entries (%s)\n", sources.Destinations.Len(), sources.Destinations.Source())

	if validateOrderPath == "" {
		return nil
	}

	order, err := proforma.LoadOrderFile(validateOrderPath)
	if err != nil {
		return err
	}

	result := proforma.New(cfg, sources).Validate(order)
	fmt.Println("\n=== Order ===")
	if result.Submittable {
		fmt.Printf("  ✓ submittable: %d line(s), total %s €\n",
			len(result.Lines), result.Total.StringFixed(2))
		return nil
	}

	printRejection(result.ErrorMessages())
	return fmt.Errorf("order rejected with %d error(s)", len(result.Errors))
}
