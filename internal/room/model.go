package room

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("room not found")
	ErrNumberAlreadyUsed = errors.New("room number already used")
	ErrInUse             = errors.New("room has bookings on record")
	ErrInvalidStatus     = errors.New("invalid room status")
	// ErrMaintenanceBlocked rejects placing a room with an active confirmed
	// stay into Maintenance.
	ErrMaintenanceBlocked = errors.New("room with an active stay cannot enter maintenance")
	// ErrActiveToday rejects manually freeing a room that a booking
	// occupies today.
	ErrActiveToday = errors.New("room has an active booking today")
)

// Stored room statuses. All but Maintenance are a cache of derived booking
// state; Maintenance is operator-set and authoritative.
const (
	StatusAvailable   = "Available"
	StatusBooked      = "Booked"
	StatusOccupied    = "Occupied"
	StatusMaintenance = "Maintenance"
)

// ValidStatus reports whether s is a recognized stored status.
func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusBooked, StatusOccupied, StatusMaintenance:
		return true
	}
	return false
}

// Room represents a physical room. Type fields are denormalized from the
// joined room type for list and detail views.
type Room struct {
	Number     string
	RoomTypeID int64
	Floor      int
	Status     string
	Notes      *string
	CreatedAt  time.Time

	TypeName   string
	BasePrice  float64
	Capacity   int
	Amenities  []string
	TypeActive bool
}

// Filter defines parameters for listing rooms.
type Filter struct {
	Status     string
	RoomTypeID int64
	Floor      int

	Page     int
	PageSize int
}

// Stats is the per-status room census shown on the admin dashboard.
type Stats struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Booked      int `json:"booked"`
	Occupied    int `json:"occupied"`
	Maintenance int `json:"maintenance"`
}
