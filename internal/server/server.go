// Package server exposes the daemon's small ops HTTP surface: a liveness
// probe and a read-only status view of the scheduler loop.
package server

import (
	"net/http"

	"reminderd/internal/scheduler"

	"github.com/gin-gonic/gin"
)

// New builds the gin router for the ops endpoints.
func New(status *scheduler.Status) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, status.Snapshot())
	})

	return router
}
