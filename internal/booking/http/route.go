package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers booking and availability routes.
func RegisterRoutes(g *gin.RouterGroup, h *BookingHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	bookings := g.Group("/bookings")
	bookings.Use(authMiddleware)
	{
		bookings.POST("", h.CreateCustomer)
		bookings.GET("/:id", h.Get)
		bookings.POST("/:id/cancel", h.Cancel)
		bookings.DELETE("/:id/rollback", h.Rollback)
	}

	admin := g.Group("/admin/bookings")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("", h.CreateAdmin)
		admin.GET("", h.List)
		admin.PATCH("/:id", h.Update)
		admin.POST("/:id/check-in", h.CheckIn)
		admin.POST("/:id/check-out", h.CheckOut)
	}

	g.GET("/me/bookings", authMiddleware, h.MyBookings)

	// Own path: a static segment cannot share the POST tree with the
	// /admin/bookings/:id wildcard.
	g.POST("/admin/bookings-cleanup", authMiddleware, adminMiddleware, h.Sweep)

	// Availability is public: guests browse before registering.
	availability := g.Group("/availability")
	{
		availability.GET("/rooms", h.AvailableRooms)
		availability.GET("/rooms/:number", h.RoomAvailability)
	}
}
