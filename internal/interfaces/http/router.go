// Package http wires the REST API: router assembly, middleware chain and
// the server lifecycle.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/prometheus"
	"github.com/rxlens/rxlens/internal/interfaces/http/handlers"
	"github.com/rxlens/rxlens/internal/interfaces/http/middleware"
)

// RouterConfig aggregates everything the router needs. Handler fields may be
// nil; their routes are simply not registered.
type RouterConfig struct {
	MedicalOCRHandler *handlers.MedicalOCRHandler
	FDAHandler        *handlers.FDAHandler
	DrugHandler       *handlers.DrugHandler
	AnalysisHandler   *handlers.AnalysisHandler
	HealthHandler     *handlers.HealthHandler

	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler

	Logger  logging.Logger
	Metrics *prometheus.AppMetrics

	// Mode is the gin mode: "debug", "release" or "test".
	Mode string

	// CORS overrides the default policy when set.
	CORS *middleware.CORSConfig

	// Logging overrides the default request-logging config when set.
	Logging *middleware.LoggingConfig
}

// NewRouter assembles the full route tree with the standard middleware
// chain.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()

	corsCfg := middleware.DefaultCORSConfig()
	if cfg.CORS != nil {
		corsCfg = *cfg.CORS
	}
	logCfg := middleware.DefaultLoggingConfig()
	if cfg.Logging != nil {
		logCfg = *cfg.Logging
	}

	r.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.RequestLogging(cfg.Logger, logCfg),
		middleware.Metrics(cfg.Metrics),
		middleware.CORS(corsCfg),
	)

	// Public probes, outside the versioned API.
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := r.Group("/api/v1")
	registerMedicalOCRRoutes(api, cfg.MedicalOCRHandler)
	registerFDARoutes(api, cfg.FDAHandler)
	registerDrugRoutes(api, cfg.DrugHandler)
	registerAnalysisRoutes(api, cfg.AnalysisHandler)

	return r
}

func registerMedicalOCRRoutes(api *gin.RouterGroup, h *handlers.MedicalOCRHandler) {
	if h == nil {
		return
	}
	g := api.Group("/medical-ocr")
	g.POST("/extract", h.ExtractImage)
	g.POST("/extract-text", h.ExtractText)
	g.GET("/test", h.SelfTest)
	g.GET("/health", h.Health)
}

func registerFDARoutes(api *gin.RouterGroup, h *handlers.FDAHandler) {
	if h == nil {
		return
	}
	api.GET("/fda/medication/:name", h.GetMedication)
}

func registerDrugRoutes(api *gin.RouterGroup, h *handlers.DrugHandler) {
	if h == nil {
		return
	}
	api.POST("/drugs/validate", h.Validate)
}

func registerAnalysisRoutes(api *gin.RouterGroup, h *handlers.AnalysisHandler) {
	if h == nil {
		return
	}
	g := api.Group("/analyses")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
}
