// =============================================================================
// Proforma Generator - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration. Everything lives in a single YAML file (config.yaml by
// default):
//
//   1. Data sources : paths to the catalog / warehouses / destinations tables
//   2. Images       : header logo and footer artwork for the PDF
//   3. Output       : output and archive directories, file naming format
//   4. Resolution   : policy flags for the line resolver
//   5. Server       : HTTP server settings for 'proforma serve'
//   6. Logging      : level, format and optional log file
//
// ARCHITECTURE:
//   The configuration system is designed to be:
//   - Self-healing: missing values fall back to documented defaults
//   - Validated:    directories are created and settings checked on load
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from config.yaml.
type MainConfig struct {
	// =========================================================================
	// DATA SOURCE SETTINGS
	// =========================================================================

	// CatalogPath is the catalog table (Referencia, Descripcion, PrecioUD).
	// XLSX or CSV. The catalog is optional: when it cannot be loaded, every
	// order line needs a manual unit price.
	// Default: "./data/catalogo.xlsx"
	CatalogPath string `yaml:"catalog_path"`

	// WarehousesPath is the warehouses table (Almacen, Descripcion).
	// Required only to validate warehouse-kind requesters.
	// Default: "./data/almacenes.xlsx"
	WarehousesPath string `yaml:"warehouses_path"`

	// DestinationsPath is the destinations table
	// (Nombre, Direccion, CP, Ciudad, Pais, CIF). Always required.
	// Default: "./data/destinos.xlsx"
	DestinationsPath string `yaml:"destinations_path"`

	// ColumnAliases maps a canonical column name to additional header
	// spellings accepted in the source files. Headers are already matched
	// ignoring case and accents; aliases cover genuinely different names
	// (e.g. "Desc" for "Descripcion").
	ColumnAliases map[string][]string `yaml:"column_aliases"`

	// =========================================================================
	// IMAGE SETTINGS
	// =========================================================================

	// LogoPath is the header logo image. Optional; the PDF is generated
	// without it when missing.
	// Default: "./images/logo.png"
	LogoPath string `yaml:"logo_path"`

	// FooterPath is the footer image. Optional.
	// Default: "./images/footer.png"
	FooterPath string `yaml:"footer_path"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is the directory where generated PDF files are placed.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// OutputArchiveDir is the directory where generated PDFs are archived.
	// Leave empty to disable archiving.
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// OutputNameFormat defines the output file name. Placeholders:
	//   {operation} - The uppercased operation id (OA.../SGR...)
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - A random UUID
	// Default: "FacturaProforma_{operation}.pdf"
	OutputNameFormat string `yaml:"output_name_format"`

	// =========================================================================
	// RESOLUTION POLICY SETTINGS
	// =========================================================================

	// StrictCatalogMembership rejects lines whose reference is absent from
	// a loaded catalog even when a manual unit price is supplied.
	// Default: false (a manual price is enough to accept such a line).
	StrictCatalogMembership bool `yaml:"strict_catalog_membership"`

	// WarehouseCaseSensitive compares warehouse codes byte-for-byte after
	// trimming instead of case-insensitively.
	// Default: false
	WarehouseCaseSensitive bool `yaml:"warehouse_case_sensitive"`

	// =========================================================================
	// SERVER SETTINGS
	// =========================================================================

	// ServerHost is the bind address for 'proforma serve'.
	// Default: "127.0.0.1"
	ServerHost string `yaml:"server_host"`

	// ServerPort is the listen port for 'proforma serve'.
	// Default: 8080
	ServerPort int `yaml:"server_port"`

	// CORSOrigins lists allowed origins for the HTTP API.
	// Default: ["*"]
	CORSOrigins []string `yaml:"cors_origins"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path to the application log file. Leave empty to log
	// to stdout only.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log output format: "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// A missing file is not an error: the defaults describe a runnable layout
// (data/ and images/ next to the binary), which mirrors how the tool is
// deployed.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Fall through with an empty config; defaults apply.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.CatalogPath == "" {
		config.CatalogPath = filepath.Join(".", "data", "catalogo.xlsx")
	}
	if config.WarehousesPath == "" {
		config.WarehousesPath = filepath.Join(".", "data", "almacenes.xlsx")
	}
	if config.DestinationsPath == "" {
		config.DestinationsPath = filepath.Join(".", "data", "destinos.xlsx")
	}
	if config.LogoPath == "" {
		config.LogoPath = filepath.Join(".", "images", "logo.png")
	}
	if config.FooterPath == "" {
		config.FooterPath = filepath.Join(".", "images", "footer.png")
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "FacturaProforma_{operation}.pdf"
	}
	if config.ServerHost == "" {
		config.ServerHost = "127.0.0.1"
	}
	if config.ServerPort == 0 {
		config.ServerPort = 8080
	}
	if len(config.CORSOrigins) == 0 {
		config.CORSOrigins = []string{"*"}
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch config.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q (want \"text\" or \"json\")", config.LogFormat)
	}

	if config.ServerPort < 1 || config.ServerPort > 65535 {
		return fmt.Errorf("server_port %d out of range", config.ServerPort)
	}

	// The output directory (and archive, when configured) must exist before
	// the first document is written.
	dirs := []string{config.OutputDir}
	if config.OutputArchiveDir != "" {
		dirs = append(dirs, config.OutputArchiveDir)
	}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}
