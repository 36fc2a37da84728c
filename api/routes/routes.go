package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docforge/ingest/api/handlers"
	"github.com/docforge/ingest/api/middleware"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	docs := v1.Group("/documents")
	{
		docs.POST("/import", h.Import.ImportDocument)
		docs.POST("/batch", h.Import.ImportBatch)
	}
}
