package booking

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrRoomUnavailable   = errors.New("room is not available for the requested dates")
	ErrInvalidDateRange  = errors.New("check-out must be after check-in")
	ErrCapacityExceeded  = errors.New("guest count exceeds room capacity")
	ErrTypeNotOffered    = errors.New("room type is not offered for new bookings")
	ErrInvalidTransition = errors.New("booking status transition not allowed")
	ErrNotRollbackable   = errors.New("only unconfirmed bookings can be rolled back")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
)

// Booking statuses. Terminal: cancelled, completed, checked_out.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusCancelled  = "cancelled"
	StatusCompleted  = "completed"
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
)

// Booking sources.
const (
	SourceDirect = "Direct"
	SourceAdmin  = "Admin"
)

// IDPrefix is the human-readable booking reference prefix ("BK001", ...).
const IDPrefix = "BK"

// Booking represents a reservation. CheckIn and CheckOut are calendar
// dates at UTC midnight; the times of day are carried separately.
type Booking struct {
	ID           string
	UserID       *int64
	GuestName    string
	GuestEmail   string
	GuestPhone   *string
	RoomNumber   string
	CheckIn      time.Time
	CheckOut     time.Time
	CheckInTime  string
	CheckOutTime string
	Guests       int
	Status       string
	IsCancelled  bool
	CancelledAt  *time.Time
	Source       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active reports whether the booking blocks the room: not cancelled and
// in a state that holds the reservation.
func (b *Booking) Active() bool {
	if b.IsCancelled {
		return false
	}
	switch b.Status {
	case StatusPending, StatusConfirmed, StatusCheckedIn:
		return true
	}
	return false
}

// Interval is a booking's reserved date range, half-open.
type Interval struct {
	BookingID  string
	RoomNumber string
	Start      time.Time
	End        time.Time
	Status     string
}

// Filter defines parameters for listing/searching bookings.
type Filter struct {
	Status     string
	RoomNumber string
	UserID     int64
	// Query matches guest name, email, or booking ID.
	Query string
	// FromDate/ToDate bound the check-in date.
	FromDate time.Time
	ToDate   time.Time

	Page     int
	PageSize int
	// SortOrder applies to creation time; default DESC.
	SortOrder string
}

// Summary aggregates a guest's booking history.
type Summary struct {
	Total      int
	Upcoming   int
	Completed  int
	Cancelled  int
	TotalSpent float64
}
