// =============================================================================
// Proforma Generator - Generate Command
// =============================================================================
//
// This file defines the 'generate' command: validate one order file and
// write the rendered PDF to the output directory.
//
// COMMAND USAGE:
//   proforma generate --order ./order.yaml [flags]
//
// FLAGS:
//   --order    : Path to the order YAML file (required)
//   --dry-run  : Validate and render without writing any output file
//
// PIPELINE:
//   1. Load configuration and reference data sources
//   2. Load the order file
//   3. Validate envelope and lines (all errors collected)
//   4. Render the PDF and write it (FacturaProforma_<OPERATION>.pdf)
//   5. Archive the document when an archive directory is configured
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postventa-tools/proforma/internal/proforma"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// orderPath is the order file to generate from.
var orderPath string

// dryRun validates and renders without writing output files.
var dryRun bool

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

// generateCmd represents the 'generate' command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Validate an order file and write the proforma PDF",
	Long: `The generate command loads the reference data sources, validates the order
described in the order file and, when every rule passes, renders the PDF
document into the output directory.

On rejection every violated rule is printed (envelope errors first, then
line errors with their line numbers) and the command exits non-zero; no
partial document is ever written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate()
	},
}

// init registers the generate command and its flags.
func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(
		&orderPath,
		"order",
		"",
		"Path to the order YAML file",
	)
	generateCmd.MarkFlagRequired("order")

	generateCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Validate and render without writing output files",
	)
}

// =============================================================================
// MAIN GENERATION FUNCTION
// =============================================================================

// runGenerate executes the generation pipeline for one order file.
func runGenerate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sources, err := proforma.LoadSources(cfg)
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}
	for _, warning := range sources.Warnings {
		fmt.Printf("  ! %s\n", warning)
	}

	order, err := proforma.LoadOrderFile(orderPath)
	if err != nil {
		return err
	}

	gen := proforma.New(cfg, sources)

	if dryRun {
		data, validation, err := gen.RenderPDF(order)
		if err != nil {
			return err
		}
		if !validation.Submittable {
			printRejection(validation.ErrorMessages())
			return fmt.Errorf("order rejected with %d error(s)", len(validation.Errors))
		}
		fmt.Printf("Dry run: order valid, document would be %d bytes (%d line(s), total %s €)\n",
			len(data), len(validation.Lines), validation.Total.StringFixed(2))
		return nil
	}

	result := gen.Run(order)
	if result.Err != nil {
		return result.Err
	}
	if !result.Success {
		printRejection(result.Validation.ErrorMessages())
		return fmt.Errorf("order rejected with %d error(s)", len(result.Validation.Errors))
	}

	fmt.Printf("  ✓ %s (%d line(s), total %s €)\n",
		result.OutputFile, len(result.Validation.Lines), result.Validation.Total.StringFixed(2))
	return nil
}

// printRejection prints the collected validation errors, one per line.
func printRejection(messages []string) {
	fmt.Println("Corrige los siguientes errores:")
	for _, msg := range messages {
		fmt.Printf("  ✗ %s\n", msg)
	}
}
