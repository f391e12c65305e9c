package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crestview/hotel-pms-backend/internal/billing"
	"github.com/crestview/hotel-pms-backend/internal/booking"
	"github.com/crestview/hotel-pms-backend/internal/pkg/request"
	"github.com/crestview/hotel-pms-backend/internal/pkg/response"
)

type BillingHandler struct {
	service billing.Service
}

func NewHandler(service billing.Service) *BillingHandler {
	return &BillingHandler{service: service}
}

// Create records a payment and confirms the booking.
func (h *BillingHandler) Create(c *gin.Context) {
	var req CreateBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	record, err := h.service.Create(c.Request.Context(), billing.CreateRequest{
		BookingID:     req.BookingID,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, billing.ErrAlreadyBilled):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, billing.ErrNotBillable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, NewBillingResponse(record))
}

// Get returns the billing record for a booking.
func (h *BillingHandler) Get(c *gin.Context) {
	var req request.ByBookingIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	record, err := h.service.GetByBooking(c.Request.Context(), req.BookingID)
	if err != nil {
		if errors.Is(err, billing.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "billing record not found"})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBillingResponse(record))
}

// GetSettings returns the current VAT and discount percentages.
// Access Control: Admin only.
func (h *BillingHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.Settings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBillingSettingsResponse(settings))
}

// UpdateSettings changes the hotel-wide VAT and discount percentages.
// Access Control: Admin only.
func (h *BillingHandler) UpdateSettings(c *gin.Context) {
	var req UpdateBillingSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), *req.VAT, *req.Discount)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrInvalidDiscount), errors.Is(err, billing.ErrInvalidVAT):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, NewBillingSettingsResponse(settings))
}
