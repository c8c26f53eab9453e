package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/prasetyadi/graphmail-pipeline/internal/api/handlers"
	"github.com/prasetyadi/graphmail-pipeline/internal/api/middleware"
	"github.com/prasetyadi/graphmail-pipeline/internal/processor"
	"gorm.io/gorm"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB        *gorm.DB
	Processor *processor.Service
	Logger    *slog.Logger
	APIKey    string // API key guarding /api; empty disables the check
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	healthHandler := handlers.NewHealthHandler(cfg.DB)
	processHandler := handlers.NewProcessHandler(cfg.Processor, cfg.Logger)

	// Health routes (no auth required)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// API routes
	api := e.Group("/api")
	api.Use(middleware.APIKeyAuth(cfg.APIKey, cfg.Logger))

	api.POST("/process", processHandler.Process)

	return e
}
