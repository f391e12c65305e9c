package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers room routes.
func RegisterRoutes(g *gin.RouterGroup, h *RoomHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/rooms")
	{
		group.GET("", h.List)
		group.GET("/:number", h.Get)
	}

	admin := g.Group("/rooms")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Create)
		admin.PUT("/:number", h.Update)
		admin.PATCH("/:number/status", h.UpdateStatus)
		admin.DELETE("/:number", h.Delete)
	}

	// Separate path: a static /rooms/stats sibling would collide with the
	// :number wildcard in the router tree.
	g.GET("/stats/rooms", authMiddleware, adminMiddleware, h.Stats)
}
