package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewEngine builds the gin engine with middleware and every route registered.
func NewEngine(h *Handler, log zerolog.Logger, corsOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log), CORS(corsOrigin))

	r.GET("/healthz", h.Health)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/users", h.ListUsers)
		apiGroup.GET("/users/:id", h.GetUser)
		apiGroup.PUT("/users/:id", h.UpsertUser)
		apiGroup.POST("/users/:id/archive", h.ArchiveUser)
		apiGroup.GET("/archived-users", h.ListArchivedUsers)
		apiGroup.POST("/archived-users/:id/restore", h.RestoreUser)
		apiGroup.GET("/reports", h.ListReports)
		apiGroup.GET("/reports/export", h.ExportReports)
		apiGroup.POST("/reports", h.CreateReport)
		apiGroup.GET("/alerts", h.Alerts)
		apiGroup.GET("/dashboard", h.Dashboard)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "API route not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}
