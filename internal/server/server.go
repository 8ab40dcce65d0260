// =============================================================================
// Proforma Generator - HTTP Server
// =============================================================================
//
// 'proforma serve' exposes the generation flow over HTTP so the form client
// can drive it interactively:
//
//   GET  /api/v1/health
//   GET  /api/v1/destinations          selectable destinations, file order
//   GET  /api/v1/warehouses/:code      warehouse lookup
//   GET  /api/v1/catalog/:reference    catalog lookup
//   POST /api/v1/proforma/validate     full validation pass, errors collected
//   POST /api/v1/proforma/pdf          render and download the document
//
// The reference data snapshots are loaded once at startup and shared
// read-only across requests; a data refresh is a process restart.
//
// =============================================================================

package server

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/postventa-tools/proforma/internal/config"
	"github.com/postventa-tools/proforma/internal/proforma"
)

// Server wires the HTTP API around a Generator.
type Server struct {
	cfg      *config.MainConfig
	gen      *proforma.Generator
	engine   *gin.Engine
	validate *validator.Validate
	log      *logrus.Logger
}

// New builds the server and registers all routes.
func New(cfg *config.MainConfig, gen *proforma.Generator) *Server {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:      cfg,
		gen:      gen,
		engine:   gin.New(),
		validate: validator.New(),
		log:      config.GetLogger(),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLogger())
	s.engine.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}))

	api := s.engine.Group("/api/v1")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/destinations", s.handleDestinations)
		api.GET("/warehouses/:code", s.handleWarehouseLookup)
		api.GET("/catalog/:reference", s.handleCatalogLookup)
		api.POST("/proforma/validate", s.handleValidate)
		api.POST("/proforma/pdf", s.handlePDF)
	}

	return s
}

// Engine exposes the router (used by tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.ServerHost, s.cfg.ServerPort)
	s.log.WithField("addr", addr).Info("http server listening")
	return s.engine.Run(addr)
}

// requestLogger tags every request with a short id and logs its outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()[:8]
		c.Set("request_id", requestID)

		c.Next()

		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
		}).Debug("request handled")
	}
}
