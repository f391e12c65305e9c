package notification

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

// Event types emitted by the booking engine and room management.
const (
	TypeNewBooking       = "new_booking"
	TypeBookingUpdated   = "booking_updated"
	TypeBookingCancelled = "booking_cancelled"
	TypeBookingConfirmed = "booking_confirmed"
	TypeBookingExpired   = "booking_expired"
	TypeRoomStatus       = "room_status_changed"
)

// Notification is a persisted admin-facing event.
type Notification struct {
	ID                int64
	Type              string
	Title             string
	Message           string
	RelatedBookingID  *string
	RelatedRoomNumber *string
	IsRead            bool
	CreatedAt         time.Time
}

// Settings is the single on/off switch for notification persistence.
type Settings struct {
	ID        int64
	Enabled   bool
	UpdatedAt time.Time
}

// List windows. "new" covers the last 7 days, "older" the last 30.
const (
	WindowNew   = "new"
	WindowOlder = "older"
)

// Filter defines parameters for listing notifications.
type Filter struct {
	IsRead   *bool
	Window   string
	Page     int
	PageSize int
}
