package http

import (
	"time"

	"github.com/crestview/hotel-pms-backend/internal/billing"
)

// CreateBillingRequest records a payment against a pending booking.
type CreateBillingRequest struct {
	BookingID     string `json:"booking_id" binding:"required,max=20"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=Cash Card Online"`
	PaymentStatus string `json:"payment_status" binding:"required,oneof=Paid Pending"`
}

// UpdateBillingSettingsRequest sets the hotel-wide VAT and discount.
type UpdateBillingSettingsRequest struct {
	VAT      *float64 `json:"vat" binding:"required,min=0,max=30"`
	Discount *float64 `json:"discount" binding:"required,min=0,max=100"`
}

// BillingResponse is the API shape of a billing record.
type BillingResponse struct {
	ID            int64     `json:"id"`
	BookingID     string    `json:"booking_id"`
	RoomPrice     float64   `json:"room_price"`
	Discount      float64   `json:"discount"`
	VAT           float64   `json:"vat"`
	TotalAmount   float64   `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	IsCancelled   bool      `json:"is_cancelled"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewBillingResponse converts a billing record to the API representation.
func NewBillingResponse(b *billing.Billing) BillingResponse {
	return BillingResponse{
		ID:            b.ID,
		BookingID:     b.BookingID,
		RoomPrice:     b.RoomPrice,
		Discount:      b.Discount,
		VAT:           b.VAT,
		TotalAmount:   b.TotalAmount,
		PaymentMethod: b.PaymentMethod,
		PaymentStatus: b.PaymentStatus,
		IsCancelled:   b.IsCancelled,
		CreatedAt:     b.CreatedAt,
	}
}

// BillingSettingsResponse is the API shape of the billing settings.
type BillingSettingsResponse struct {
	ID        int64     `json:"id"`
	VAT       float64   `json:"vat"`
	Discount  float64   `json:"discount"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBillingSettingsResponse converts settings to the API representation.
func NewBillingSettingsResponse(s *billing.Settings) BillingSettingsResponse {
	return BillingSettingsResponse{
		ID:        s.ID,
		VAT:       s.VAT,
		Discount:  s.Discount,
		UpdatedAt: s.UpdatedAt,
	}
}
