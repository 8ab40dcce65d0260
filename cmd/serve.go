// =============================================================================
// Proforma Generator - Serve Command
// =============================================================================
//
// This file defines the 'serve' command: expose the generation flow over
// HTTP for the form client.
//
// COMMAND USAGE:
//   proforma serve [--host 0.0.0.0] [--port 8080]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postventa-tools/proforma/internal/proforma"
	"github.com/postventa-tools/proforma/internal/server"
)

// Flag overrides for the server address; empty/zero means use the config.
var (
	serveHost string
	servePort int
)

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the proforma generation flow over HTTP",
	Long: `The serve command loads the reference data sources once and serves the
lookup, validation and PDF generation endpoints under /api/v1. Reference
data is held as a read-only snapshot for the lifetime of the process;
restart to pick up new spreadsheets.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// init registers the serve command and its flags.
func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "Bind address (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides config)")
}

// runServe loads everything and blocks serving HTTP.
func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.ServerHost = serveHost
	}
	if servePort != 0 {
		cfg.ServerPort = servePort
	}

	sources, err := proforma.LoadSources(cfg)
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}

	srv := server.New(cfg, proforma.New(cfg, sources))
	return srv.Run()
}
