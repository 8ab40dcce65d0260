package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postventa-tools/proforma/internal/config"
	"github.com/postventa-tools/proforma/internal/proforma"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newTestServer builds a server over a full fixture data layout. withCatalog
// and withWarehouses control the degraded-source scenarios.
func newTestServer(t *testing.T, withCatalog, withWarehouses bool) *Server {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.MainConfig{
		CatalogPath:      filepath.Join(dir, "catalogo.csv"),
		WarehousesPath:   filepath.Join(dir, "almacenes.csv"),
		DestinationsPath: filepath.Join(dir, "destinos.csv"),
		OutputDir:        dir,
		OutputNameFormat: "FacturaProforma_{operation}.pdf",
		ServerHost:       "127.0.0.1",
		ServerPort:       8080,
		CORSOrigins:      []string{"*"},
		LogLevel:         "info",
		LogFormat:        "text",
	}

	writeFixture(t, dir, "destinos.csv",
		"Nombre,Direccion,CP,Ciudad,Pais,CIF\n"+
			"Central Madrid,C/ Titán 15,28045,Madrid,España,A28078202\n"+
			"Planta Vigo,Avda. Citroën 3,36210,Vigo,España,B36000001\n")
	if withCatalog {
		writeFixture(t, dir, "catalogo.csv",
			"Referencia,Descripcion,PrecioUD\n"+
				"REF-1,Filtro de aceite,12.50\n"+
				"REF-2,Correa,\n")
	}
	if withWarehouses {
		writeFixture(t, dir, "almacenes.csv",
			"Almacen,Descripcion\n0042,Taller Valencia\n")
	}

	sources, err := proforma.LoadSources(cfg)
	require.NoError(t, err)

	return New(cfg, proforma.New(cfg, sources))
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func validOrderJSON() string {
	return `{
		"operation": "oa123456",
		"requester": "central",
		"destination": "Central Madrid",
		"lines": [{"reference": "REF-1", "quantity": 2}]
	}`
}

// =============================================================================
// LOOKUP ENDPOINTS
// =============================================================================

func TestHealthEndpoint(t *testing.T) {
	w := doJSON(t, newTestServer(t, true, true), http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["catalog"])
	assert.Equal(t, true, body["warehouses"])
	assert.Equal(t, float64(2), body["destinations"])
}

func TestHealthReportsDegradedSources(t *testing.T) {
	w := doJSON(t, newTestServer(t, false, false), http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["catalog"])
	assert.Equal(t, false, body["warehouses"])
	warnings, ok := body["warnings"].([]interface{})
	require.True(t, ok)
	assert.Len(t, warnings, 2)
}

func TestDestinationsEndpoint(t *testing.T) {
	w := doJSON(t, newTestServer(t, true, true), http.MethodGet, "/api/v1/destinations", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body DestinationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Destinations, 2)
	// File order is the selection order.
	assert.Equal(t, "Central Madrid", body.Destinations[0].Name)
	assert.Equal(t, "Planta Vigo", body.Destinations[1].Name)
}

func TestWarehouseLookup(t *testing.T) {
	s := newTestServer(t, true, true)

	w := doJSON(t, s, http.MethodGet, "/api/v1/warehouses/0042", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body WarehouseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Taller Valencia", body.Description)

	w = doJSON(t, s, http.MethodGet, "/api/v1/warehouses/9999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWarehouseLookupSourceUnavailable(t *testing.T) {
	w := doJSON(t, newTestServer(t, true, false), http.MethodGet, "/api/v1/warehouses/0042", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCatalogLookup(t *testing.T) {
	s := newTestServer(t, true, true)

	w := doJSON(t, s, http.MethodGet, "/api/v1/catalog/ref-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body CatalogEntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Filtro de aceite", body.Description)
	assert.Equal(t, "12.50", body.UnitPrice)

	// Row without a usable price: hit, but no unit_price field.
	w = doJSON(t, s, http.MethodGet, "/api/v1/catalog/REF-2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "unit_price")

	w = doJSON(t, s, http.MethodGet, "/api/v1/catalog/NOPE", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogLookupSourceUnavailable(t *testing.T) {
	w := doJSON(t, newTestServer(t, false, true), http.MethodGet, "/api/v1/catalog/REF-1", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// =============================================================================
// VALIDATION ENDPOINT
// =============================================================================

func TestValidateAcceptsOrder(t *testing.T) {
	w := doJSON(t, newTestServer(t, true, true), http.MethodPost, "/api/v1/proforma/validate", validOrderJSON())
	require.Equal(t, http.StatusOK, w.Code)

	var body ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Submittable)
	assert.Empty(t, body.Errors)
	require.Len(t, body.Lines, 1)
	assert.Equal(t, "12.50", body.Lines[0].UnitPrice)
	assert.Equal(t, "25.00", body.Lines[0].Amount)
	assert.Equal(t, "25.00", body.Total)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	// Broken operation, requester and line together: the response carries
	// every error, not just the first.
	order := `{
		"operation": "XX-1",
		"requester": "warehouse",
		"warehouse_code": "9999",
		"destination": "Central Madrid",
		"lines": [{"reference": "REF-1", "quantity": 0}]
	}`
	w := doJSON(t, newTestServer(t, true, true), http.MethodPost, "/api/v1/proforma/validate", order)
	require.Equal(t, http.StatusOK, w.Code)

	var body ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Submittable)
	require.Len(t, body.Errors, 3)

	var withLine int
	for _, e := range body.Errors {
		if e.Line != nil {
			withLine++
			assert.Equal(t, 1, *e.Line)
		}
	}
	assert.Equal(t, 1, withLine)
}

func TestValidateAlwaysSendsErrorArray(t *testing.T) {
	w := doJSON(t, newTestServer(t, true, true), http.MethodPost, "/api/v1/proforma/validate", validOrderJSON())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"errors":[]`)
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	w := doJSON(t, newTestServer(t, true, true), http.MethodPost, "/api/v1/proforma/validate", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateRejectsOversizedOrder(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"operation":"OA1","requester":"central","destination":"Central Madrid","lines":[`)
	for i := 0; i < 501; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"reference":"REF-1","quantity":1}`)
	}
	sb.WriteString("]}")

	w := doJSON(t, newTestServer(t, true, true), http.MethodPost, "/api/v1/proforma/validate", sb.String())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// PDF ENDPOINT
// =============================================================================

func TestPDFDownload(t *testing.T) {
	w := doJSON(t, newTestServer(t, true, true), http.MethodPost, "/api/v1/proforma/pdf", validOrderJSON())
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	// The operation id was normalized to uppercase before naming the file.
	assert.Equal(t, `attachment; filename="FacturaProforma_OA123456.pdf"`,
		w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

func TestPDFRejectionCarriesErrors(t *testing.T) {
	order := `{
		"operation": "OA123456",
		"requester": "central",
		"destination": "Sucursal Lisboa",
		"lines": [{"reference": "REF-1", "quantity": 1}]
	}`
	w := doJSON(t, newTestServer(t, true, true), http.MethodPost, "/api/v1/proforma/pdf", order)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Submittable)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "destination", body.Errors[0].Field)
}

func TestPDFWithManualPriceOnly(t *testing.T) {
	// No catalog loaded: a manually priced line is still renderable.
	order := `{
		"operation": "SGR42",
		"requester": "supplier",
		"supplier_name": "Recambios Sur",
		"destination": "Planta Vigo",
		"lines": [{"reference": "X-1", "quantity": 3, "description": "Pieza especial", "unit_price": "9.99"}]
	}`
	w := doJSON(t, newTestServer(t, false, true), http.MethodPost, "/api/v1/proforma/pdf", order)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="FacturaProforma_SGR42.pdf"`,
		w.Header().Get("Content-Disposition"))
}
