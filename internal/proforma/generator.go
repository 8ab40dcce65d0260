// =============================================================================
// Proforma Generator - Generation Pipeline
// =============================================================================
//
// This module orchestrates one document generation pass:
//
//   1. Load the reference data snapshots (catalog, warehouses, destinations)
//   2. Submit the order through a resolver session
//   3. Render the PDF and write it to the output directory
//   4. Archive the document when an archive directory is configured
//
// The destinations source is mandatory: without it loading fails and no
// order can proceed. The catalog and warehouses sources degrade: a missing
// catalog forces manual prices, a missing warehouses table only blocks
// warehouse-kind requesters. Degradations are logged once, at load time.
//
// =============================================================================

package proforma

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/postventa-tools/proforma/internal/config"
	"github.com/postventa-tools/proforma/internal/dataset"
	"github.com/postventa-tools/proforma/internal/render"
	"github.com/postventa-tools/proforma/internal/resolver"
	"github.com/postventa-tools/proforma/internal/types"
	"github.com/postventa-tools/proforma/pkg/utils"
)

// =============================================================================
// REFERENCE DATA SNAPSHOTS
// =============================================================================

// Sources bundles the loaded reference data for one run. Catalog and
// Warehouses may be nil (degraded); Destinations never is.
type Sources struct {
	Catalog      *dataset.Catalog
	Warehouses   *dataset.Warehouses
	Destinations *dataset.Destinations

	// Warnings describes the degradations accepted at load time, for
	// surfacing to the user.
	Warnings []string
}

// LoadSources loads all reference data described by the configuration.
//
// A destinations failure is fatal. Catalog and warehouses failures are
// recorded as warnings and leave the corresponding snapshot nil.
func LoadSources(cfg *config.MainConfig) (*Sources, error) {
	log := config.GetLogger()
	s := &Sources{}

	destinations, err := dataset.LoadDestinations(cfg.DestinationsPath, cfg.ColumnAliases)
	if err != nil {
		return nil, fmt.Errorf("destinations source: %w", err)
	}
	s.Destinations = destinations

	catalog, err := dataset.LoadCatalog(cfg.CatalogPath, cfg.ColumnAliases)
	if err != nil {
		warning := fmt.Sprintf("catálogo no disponible (%v): las líneas requieren precio manual", err)
		s.Warnings = append(s.Warnings, warning)
		log.WithField("path", cfg.CatalogPath).Warn("catalog unavailable, falling back to manual prices")
	} else {
		s.Catalog = catalog
		log.WithField("entries", catalog.Len()).Debug("catalog loaded")
	}

	warehouses, err := dataset.LoadWarehouses(cfg.WarehousesPath, cfg.ColumnAliases, cfg.WarehouseCaseSensitive)
	if err != nil {
		warning := fmt.Sprintf("listado de almacenes no disponible (%v)", err)
		s.Warnings = append(s.Warnings, warning)
		log.WithField("path", cfg.WarehousesPath).Warn("warehouses unavailable, warehouse requesters will be rejected")
	} else {
		s.Warehouses = warehouses
		log.WithField("entries", warehouses.Len()).Debug("warehouses loaded")
	}

	log.WithField("entries", destinations.Len()).Debug("destinations loaded")
	return s, nil
}

// CatalogLookup adapts the catalog snapshot to the resolver contract,
// keeping the interface nil when the source is unavailable.
func (s *Sources) CatalogLookup() resolver.CatalogLookup {
	if s.Catalog == nil {
		return nil
	}
	return s.Catalog
}

// WarehouseLookup adapts the warehouses snapshot to the resolver contract.
func (s *Sources) WarehouseLookup() resolver.WarehouseLookup {
	if s.Warehouses == nil {
		return nil
	}
	return s.Warehouses
}

// DestinationLookup adapts the destinations snapshot to the resolver
// contract.
func (s *Sources) DestinationLookup() resolver.DestinationLookup {
	return s.Destinations
}

// Policy builds the resolver policy from the configuration.
func Policy(cfg *config.MainConfig) resolver.Policy {
	return resolver.Policy{StrictCatalogMembership: cfg.StrictCatalogMembership}
}

// =============================================================================
// GENERATOR
// =============================================================================

// Result is the outcome of one generation run.
type Result struct {
	// Success is true when the document was validated, rendered and
	// written.
	Success bool

	// OutputFile is the path of the written document, on success.
	OutputFile string

	// Validation carries the full validation result, including the
	// collected errors on rejection.
	Validation *resolver.Result

	// Err is set for non-validation failures (rendering, file system).
	Err error
}

// Generator runs the full pipeline for one order against one set of
// reference data snapshots.
type Generator struct {
	cfg      *config.MainConfig
	sources  *Sources
	renderer *render.Renderer
}

// New creates a Generator.
func New(cfg *config.MainConfig, sources *Sources) *Generator {
	return &Generator{
		cfg:     cfg,
		sources: sources,
		renderer: render.NewRenderer(render.Options{
			LogoPath:   cfg.LogoPath,
			FooterPath: cfg.FooterPath,
		}),
	}
}

// Sources exposes the loaded reference data (used by the HTTP server for
// the lookup endpoints).
func (g *Generator) Sources() *Sources {
	return g.sources
}

// Validate runs a validation pass without rendering.
func (g *Generator) Validate(order types.Order) *resolver.Result {
	return resolver.ValidateOrder(order,
		g.sources.CatalogLookup(),
		g.sources.WarehouseLookup(),
		g.sources.DestinationLookup(),
		Policy(g.cfg))
}

// RenderPDF validates the order and renders the document into memory.
// On rejection the returned bytes are nil and the validation result carries
// the errors.
func (g *Generator) RenderPDF(order types.Order) ([]byte, *resolver.Result, error) {
	session := resolver.NewSession(
		g.sources.CatalogLookup(),
		g.sources.WarehouseLookup(),
		g.sources.DestinationLookup(),
		Policy(g.cfg))

	validation := session.Submit(order)
	if !validation.Submittable {
		return nil, validation, nil
	}

	// The submittable result is consumed exactly once.
	taken, err := session.Take()
	if err != nil {
		return nil, validation, err
	}

	var buf bytes.Buffer
	doc := &render.Document{
		Envelope: taken.Envelope,
		Lines:    taken.Lines,
		Total:    taken.Total,
	}
	if err := g.renderer.Render(doc, &buf); err != nil {
		return nil, validation, fmt.Errorf("failed to render document: %w", err)
	}

	return buf.Bytes(), validation, nil
}

// Run executes the full pipeline: validate, render, write, archive.
func (g *Generator) Run(order types.Order) Result {
	log := config.GetLogger()

	data, validation, err := g.RenderPDF(order)
	if err != nil {
		config.LogError(log, "proforma", "Run", "render", err)
		return Result{Validation: validation, Err: err}
	}
	if !validation.Submittable {
		log.WithField("errors", len(validation.Errors)).Info("order rejected")
		return Result{Validation: validation}
	}

	name := utils.BuildOutputFileName(g.cfg.OutputNameFormat, validation.Envelope.OperationID)
	outPath := filepath.Join(g.cfg.OutputDir, name)
	if err := utils.WriteFileAtomic(outPath, data); err != nil {
		config.LogError(log, "proforma", "Run", "write output", err)
		return Result{Validation: validation, Err: err}
	}

	if g.cfg.OutputArchiveDir != "" {
		if archived, err := utils.ArchiveFile(outPath, g.cfg.OutputArchiveDir); err != nil {
			// Archiving is best-effort; the document itself was written.
			config.LogError(log, "proforma", "Run", "archive output", err)
		} else {
			log.WithField("archive", archived).Debug("document archived")
		}
	}

	log.WithFields(logrus.Fields{
		"operation": validation.Envelope.OperationID,
		"lines":     len(validation.Lines),
		"total":     validation.Total.StringFixed(2),
		"output":    outPath,
	}).Info("document generated")

	return Result{Success: true, OutputFile: outPath, Validation: validation}
}
