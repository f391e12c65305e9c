package billing

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("billing record not found")
	ErrAlreadyBilled   = errors.New("billing already exists for this booking")
	ErrNotBillable     = errors.New("booking is not in a billable state")
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100")
	ErrInvalidVAT      = errors.New("VAT must be between 0 and 30")
)

const (
	PaymentMethodCash   = "Cash"
	PaymentMethodCard   = "Card"
	PaymentMethodOnline = "Online"

	PaymentStatusPaid    = "Paid"
	PaymentStatusPending = "Pending"
)

// Defaults written when no settings row exists yet.
const (
	DefaultVAT      = 13.0
	DefaultDiscount = 0.0
)

// Billing is the payment record for a booking. One per booking at most;
// the unique constraint on booking_id enforces it.
type Billing struct {
	ID            int64
	BookingID     string
	RoomPrice     float64
	Discount      float64
	VAT           float64
	TotalAmount   float64
	PaymentMethod string
	PaymentStatus string
	IsCancelled   bool
	CreatedAt     time.Time
}

// Settings holds the hotel-wide discount and VAT percentages applied to
// every new billing record.
type Settings struct {
	ID        int64
	VAT       float64
	Discount  float64
	UpdatedAt time.Time
}
