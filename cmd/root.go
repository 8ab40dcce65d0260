// =============================================================================
// Proforma Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (proforma)
//   ├── generateCmd (proforma generate)
//   ├── validateCmd (proforma validate)
//   ├── serveCmd    (proforma serve)
//   └── versionCmd  (proforma version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/postventa-tools/proforma/internal/config"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

// cfgFile holds the path to the main configuration file.
// Overridden with the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "proforma",
	Short: "Proforma Generator - build Factura Proforma PDF documents",
	Long: `Proforma Generator builds printable "Factura Proforma" PDF documents for
free-of-charge material shipments.

Reference data (catalog, warehouses, destinations) is read from XLSX or CSV
files; orders are validated against it (operation number format, requester
rules, destination selection, line pricing) and rendered as a landscape A4
document with the standard header, destination block and line-item table.

Example Usage:
  proforma generate --order ./order.yaml   # Validate an order and write the PDF
  proforma validate                        # Check the reference data sources
  proforma serve                           # Serve the flow over HTTP`,

	Run: func(cmd *cobra.Command, args []string) {
		// No subcommand: print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig loads the main configuration and applies CLI overrides, then
// initializes the shared logger. Every subcommand starts here.
func loadConfig() (*config.MainConfig, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := config.InitLogger(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	return cfg, nil
}
