package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"hoursbot/internal/logger"
)

// SetupRoutes configures the HTTP routes.
func SetupRoutes(handlers *Handlers, log *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), logger.Middleware(log))

	api := router.Group("/api/v1")
	{
		api.POST("/run", handlers.TriggerRunHandler)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}
