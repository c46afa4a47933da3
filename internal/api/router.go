package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aayushbajaj/study-telemetry/internal/api/handlers"
	"github.com/aayushbajaj/study-telemetry/internal/api/middleware"
	"github.com/aayushbajaj/study-telemetry/internal/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler   *handlers.HealthHandler
	HeatmapHandler  *handlers.HeatmapHandler
	ActivityHandler *handlers.ActivityHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.HeatmapHandler != nil {
			api.GET("/heatmap", cfg.HeatmapHandler.GetHeatmap)
			api.GET("/stats", cfg.HeatmapHandler.GetStats)
			api.GET("/streak", cfg.HeatmapHandler.GetStreak)
		}

		if cfg.ActivityHandler != nil {
			api.POST("/reviews", cfg.ActivityHandler.RecordReview)
			api.POST("/sessions", cfg.ActivityHandler.RecordSession)
		}
	}

	return r
}
