package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"rekindle/internal/auth"
	"rekindle/internal/server/app"
)

// Version is stamped at build time.
var Version = "0.3.0"

// RouterConfig carries the router's environment knobs.
type RouterConfig struct {
	Environment    string
	AllowedOrigins []string
	MetricsEnabled bool
}

// NewRouter builds the full route table over the coordinator.
func NewRouter(coordinator *app.Coordinator, verifier auth.Verifier, cfg RouterConfig) *gin.Engine {
	if !strings.EqualFold(cfg.Environment, "development") {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestIDMiddleware())
	engine.Use(LoggingMiddleware())
	if cfg.MetricsEnabled {
		engine.Use(MetricsMiddleware())
	}

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 || strings.EqualFold(cfg.Environment, "development") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"}
	corsConfig.AllowWebSockets = true
	engine.Use(cors.New(corsConfig))

	intakeHandler := NewIntakeHandler(coordinator)
	dashboardHandler := NewDashboardHandler(coordinator)
	streamHandler := NewStreamHandler(coordinator)

	startTime := time.Now()
	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, APIResponse{
			Success: true,
			Data: HealthResponse{
				Status:    "ok",
				Version:   Version,
				Timestamp: time.Now(),
				Uptime:    time.Since(startTime).String(),
			},
		})
	})
	if cfg.MetricsEnabled {
		engine.GET("/metrics", MetricsHandler())
	}

	api := engine.Group("/api")
	api.Use(JSONMiddleware())

	// The catalog is static and needed by login screens before a token
	// exists.
	api.GET("/intake/catalog", intakeHandler.Catalog)

	authed := api.Group("", AuthMiddleware(verifier))

	intake := authed.Group("/intake")
	{
		intake.POST("/sessions", intakeHandler.CreateSession)
		intake.GET("/sessions", intakeHandler.ListSessions)
		intake.GET("/sessions/:id", intakeHandler.GetSession)
		intake.DELETE("/sessions/:id", intakeHandler.DeleteSession)
		intake.POST("/sessions/:id/answer", intakeHandler.RecordAnswer)
		intake.POST("/sessions/:id/advance", intakeHandler.Advance)
		intake.POST("/sessions/:id/retreat", intakeHandler.Retreat)
		intake.POST("/sessions/:id/submission/retry", intakeHandler.RetrySubmission)
		intake.GET("/sessions/:id/stream", streamHandler.Stream)
		intake.GET("/profile", intakeHandler.GetProfile)
	}

	dashboard := authed.Group("/dashboard")
	{
		dashboard.GET("", dashboardHandler.Overview)
		dashboard.GET("/housing", dashboardHandler.Housing)
		dashboard.GET("/schools", dashboardHandler.Schools)
		dashboard.GET("/employment", dashboardHandler.Employment)
		dashboard.GET("/insurance", dashboardHandler.Insurance)
		dashboard.GET("/resources", dashboardHandler.Resources)
		dashboard.GET("/community", dashboardHandler.Community)
	}

	return engine
}
