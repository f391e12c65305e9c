package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the admin notification inbox. Mark-all-read
// uses POST so the static segment never shares a method tree with the
// :id wildcard.
func RegisterRoutes(g *gin.RouterGroup, h *NotificationHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	n := g.Group("/notifications")
	n.Use(authMiddleware, adminMiddleware)
	{
		n.GET("", h.List)
		n.GET("/unread-count", h.UnreadCount)
		n.GET("/settings", h.GetSettings)
		n.PUT("/settings", h.UpdateSettings)
		n.POST("/mark-all-read", h.MarkAllRead)
		n.PATCH("/:id", h.Update)
		n.DELETE("/:id", h.Delete)
	}
}
