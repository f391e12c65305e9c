package roomtype

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("room type not found")
	ErrNameAlreadyUsed = errors.New("room type name already used")
	ErrInUse           = errors.New("room type has rooms assigned")
)

// RoomType represents a category of rooms (e.g., Deluxe Double).
type RoomType struct {
	ID          int64
	Name        string
	Description string
	BasePrice   float64
	MaxAdults   int
	MaxChildren int
	Amenities   []string
	ImageURL    *string
	IsActive    bool
	CreatedAt   time.Time
}

// Capacity is the total guest count the type can host per room.
func (rt *RoomType) Capacity() int {
	return rt.MaxAdults + rt.MaxChildren
}

// Filter defines parameters for listing room types.
type Filter struct {
	// ActiveOnly hides disabled types from guest-facing listings.
	ActiveOnly bool
	Page       int
	PageSize   int
}
