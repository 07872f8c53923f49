package api

import (
	"webpbatch/config"
	"webpbatch/run"

	"github.com/gin-gonic/gin"
)

func SetupRouter(m *run.Manager, cfg *config.Config) *gin.Engine {
	r := gin.Default()
	h := NewHandler(m, cfg)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(AuthMiddleware(cfg))
	{
		v1.POST("/runs", h.handleCreateRun)
		v1.GET("/runs", h.handleListRuns)
		v1.GET("/runs/:runId", h.handleGetRunStatus)
		v1.PATCH("/runs/:runId/cancel", h.handleCancelRun)
	}
	return r
}
