// =============================================================================
// Proforma Generator - HTTP Handlers
// =============================================================================

package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postventa-tools/proforma/internal/render"
)

const (
	msgInvalidRequest     = "invalid request body"
	msgCatalogUnavailable = "catalog source unavailable"
	msgNotFound           = "not found"
)

// handleHealth reports liveness and the state of the optional sources.
// GET /api/v1/health
func (s *Server) handleHealth(c *gin.Context) {
	sources := s.gen.Sources()
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"catalog":      sources.Catalog != nil,
		"warehouses":   sources.Warehouses != nil,
		"destinations": sources.Destinations.Len(),
		"warnings":     sources.Warnings,
	})
}

// handleDestinations lists the selectable destinations in file order.
// GET /api/v1/destinations
func (s *Server) handleDestinations(c *gin.Context) {
	c.JSON(http.StatusOK, DestinationsResponse{
		Destinations: s.gen.Sources().Destinations.All(),
	})
}

// handleWarehouseLookup resolves a warehouse code.
// GET /api/v1/warehouses/:code
func (s *Server) handleWarehouseLookup(c *gin.Context) {
	warehouses := s.gen.Sources().Warehouses
	if warehouses == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "warehouses source unavailable"})
		return
	}

	entry, ok := warehouses.Lookup(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msgNotFound})
		return
	}
	c.JSON(http.StatusOK, WarehouseResponse{Code: entry.Code, Description: entry.Description})
}

// handleCatalogLookup resolves a catalog reference. The unavailable-catalog
// case is distinguished from a plain miss so the form can prompt for a
// manual price instead of flagging a typo.
// GET /api/v1/catalog/:reference
func (s *Server) handleCatalogLookup(c *gin.Context) {
	catalog := s.gen.Sources().Catalog
	if catalog == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: msgCatalogUnavailable})
		return
	}

	description, price, found := catalog.Lookup(c.Param("reference"))
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msgNotFound})
		return
	}

	resp := CatalogEntryResponse{
		Reference:   c.Param("reference"),
		Description: description,
	}
	if price != nil {
		resp.UnitPrice = price.StringFixed(2)
	}
	c.JSON(http.StatusOK, resp)
}

// handleValidate runs a full validation pass and returns every collected
// error together with the lines that did resolve.
// POST /api/v1/proforma/validate
func (s *Server) handleValidate(c *gin.Context) {
	req, ok := s.bindOrder(c)
	if !ok {
		return
	}

	result := s.gen.Validate(req.toOrder())
	c.JSON(http.StatusOK, newValidateResponse(result))
}

// handlePDF validates the order and, when submittable, streams the
// rendered document. A rejected order answers 422 with the error list.
// POST /api/v1/proforma/pdf
func (s *Server) handlePDF(c *gin.Context) {
	req, ok := s.bindOrder(c)
	if !ok {
		return
	}

	data, validation, err := s.gen.RenderPDF(req.toOrder())
	if err != nil {
		s.log.WithError(err).Error("document rendering failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "document rendering failed"})
		return
	}
	if !validation.Submittable {
		c.JSON(http.StatusUnprocessableEntity, newValidateResponse(validation))
		return
	}

	filename := render.FileName(validation.Envelope.OperationID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// bindOrder decodes and shape-checks an order request. Business rules stay
// out of here: only malformed JSON or transport limits answer 400.
func (s *Server) bindOrder(c *gin.Context) (*OrderRequest, bool) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidRequest})
		return nil, false
	}
	if err := s.validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return nil, false
	}
	return &req, true
}
