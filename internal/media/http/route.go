package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers room-type photo routes. Serving is public so
// listing pages can embed the URLs directly.
func RegisterRoutes(g *gin.RouterGroup, h *MediaHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	images := g.Group("/room-types/:id/image")
	{
		images.GET("", h.Serve)
		images.GET("/thumbnail", h.ServeThumbnail)
		images.POST("", authMiddleware, adminMiddleware, h.Upload)
		images.DELETE("", authMiddleware, adminMiddleware, h.Delete)
	}
}
