package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers room type routes.
func RegisterRoutes(g *gin.RouterGroup, h *RoomTypeHandler, optionalAuthMiddleware, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/room-types")
	{
		group.GET("", optionalAuthMiddleware, h.List)
		group.GET("/:id", h.Get)
	}

	admin := g.Group("/room-types")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.POST("/:id/disable", h.Disable)
		admin.POST("/:id/enable", h.Enable)
		admin.DELETE("/:id", h.Delete)
	}
}
