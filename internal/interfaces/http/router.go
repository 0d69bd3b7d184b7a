// Package http assembles the gin router and HTTP server for the API.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/ESG-Sentinel/internal/application/assessment"
	"github.com/turtacn/ESG-Sentinel/internal/config"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ESG-Sentinel/internal/interfaces/http/handlers"
	"github.com/turtacn/ESG-Sentinel/internal/interfaces/http/middleware"
)

// RouterDeps carries everything the router needs. Metrics and the health
// checkers are optional.
type RouterDeps struct {
	Service *assessment.Service
	Logger  logging.Logger
	Metrics *prometheus.Metrics
	Health  *handlers.HealthHandler
	Mode    string
}

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(deps RouterDeps) *gin.Engine {
	switch deps.Mode {
	case config.ModeRelease:
		gin.SetMode(gin.ReleaseMode)
	case config.ModeTest:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.RequestLogging(deps.Logger, deps.Metrics))

	health := deps.Health
	if health == nil {
		health = handlers.NewHealthHandler("dev")
	}
	router.GET("/healthz", health.Live)
	router.GET("/readyz", health.Ready)

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	assess := handlers.NewAssessmentHandler(deps.Service, deps.Logger)
	v1 := router.Group("/api/v1")
	{
		v1.POST("/assessments/risk", assess.AssessRisk)
		v1.POST("/assessments/materiality", assess.AnalyzeMateriality)
		v1.POST("/assessments/supplier", assess.EvaluateSupplier)
		v1.GET("/templates/:industry/csv", assess.TemplateCSV)
	}

	return router
}
