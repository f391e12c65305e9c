package http

import (
	"time"

	"github.com/crestview/hotel-pms-backend/internal/pkg/request"
	"github.com/crestview/hotel-pms-backend/internal/roomtype"
)

// CreateRoomTypeRequest defines the payload for creating a room type.
type CreateRoomTypeRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=100"`
	Description string   `json:"description" binding:"max=1000"`
	BasePrice   float64  `json:"base_price" binding:"required,gt=0"`
	MaxAdults   int      `json:"max_adults" binding:"required,min=1,max=20"`
	MaxChildren int      `json:"max_children" binding:"min=0,max=20"`
	Amenities   []string `json:"amenities"`
}

// UpdateRoomTypeRequest defines fields allowed to be updated.
// Pointers distinguish "field not sent" from a zero value.
type UpdateRoomTypeRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	BasePrice   *float64 `json:"base_price"`
	MaxAdults   *int     `json:"max_adults"`
	MaxChildren *int     `json:"max_children"`
	Amenities   []string `json:"amenities"`
}

// ListRoomTypesRequest defines query parameters for listing room types.
type ListRoomTypesRequest struct {
	request.ListParams
	IncludeInactive bool `form:"include_inactive"`
}

// RoomTypeResponse is the API shape of a room type.
type RoomTypeResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BasePrice   float64   `json:"base_price"`
	MaxAdults   int       `json:"max_adults"`
	MaxChildren int       `json:"max_children"`
	Capacity    int       `json:"capacity"`
	Amenities   []string  `json:"amenities"`
	ImageURL    *string   `json:"image_url"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRoomTypeResponse converts a domain room type to the API representation.
func NewRoomTypeResponse(rt *roomtype.RoomType) RoomTypeResponse {
	amenities := rt.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	return RoomTypeResponse{
		ID:          rt.ID,
		Name:        rt.Name,
		Description: rt.Description,
		BasePrice:   rt.BasePrice,
		MaxAdults:   rt.MaxAdults,
		MaxChildren: rt.MaxChildren,
		Capacity:    rt.Capacity(),
		Amenities:   amenities,
		ImageURL:    rt.ImageURL,
		IsActive:    rt.IsActive,
		CreatedAt:   rt.CreatedAt,
	}
}
