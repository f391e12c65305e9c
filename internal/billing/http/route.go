package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers billing routes. Settings live under a
// separate path so the static segment does not collide with the booking
// ID wildcard in the router tree.
func RegisterRoutes(g *gin.RouterGroup, h *BillingHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	bills := g.Group("/billing")
	bills.Use(authMiddleware)
	{
		bills.POST("", h.Create)
		bills.GET("/:id", h.Get)
	}

	settings := g.Group("/billing-settings")
	settings.Use(authMiddleware, adminMiddleware)
	{
		settings.GET("", h.GetSettings)
		settings.PUT("", h.UpdateSettings)
	}
}
