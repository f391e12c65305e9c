package http

import (
	"time"

	"github.com/crestview/hotel-pms-backend/internal/pkg/request"
	"github.com/crestview/hotel-pms-backend/internal/room"
)

// CreateRoomRequest defines the payload for adding a room.
type CreateRoomRequest struct {
	Number     string `json:"number" binding:"required,alphanum,max=10"`
	RoomTypeID int64  `json:"room_type_id" binding:"required,min=1"`
	Floor      int    `json:"floor" binding:"required,min=0,max=200"`
	Notes      string `json:"notes" binding:"max=500"`
}

// UpdateRoomRequest defines the payload for editing a room. The room
// number is immutable; bookings reference it.
type UpdateRoomRequest struct {
	RoomTypeID *int64  `json:"room_type_id" binding:"omitempty,min=1"`
	Floor      *int    `json:"floor" binding:"omitempty,min=0,max=200"`
	Notes      *string `json:"notes" binding:"omitempty,max=500"`
}

// UpdateRoomStatusRequest defines the payload for a manual status change.
type UpdateRoomStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Available Booked Occupied Maintenance"`
}

// ListRoomsRequest defines query parameters for listing rooms.
type ListRoomsRequest struct {
	request.ListParams
	Status     string `form:"status" binding:"omitempty,oneof=Available Booked Occupied Maintenance"`
	RoomTypeID int64  `form:"room_type_id" binding:"omitempty,min=1"`
	Floor      int    `form:"floor" binding:"omitempty,min=0"`
}

// RoomResponse is the API shape of a room with its type details.
type RoomResponse struct {
	Number     string    `json:"number"`
	RoomTypeID int64     `json:"room_type_id"`
	TypeName   string    `json:"type_name"`
	Floor      int       `json:"floor"`
	Status     string    `json:"status"`
	Notes      *string   `json:"notes"`
	BasePrice  float64   `json:"base_price"`
	Capacity   int       `json:"capacity"`
	Amenities  []string  `json:"amenities"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewRoomResponse converts a domain room to the API representation.
func NewRoomResponse(r *room.Room) RoomResponse {
	amenities := r.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	return RoomResponse{
		Number:     r.Number,
		RoomTypeID: r.RoomTypeID,
		TypeName:   r.TypeName,
		Floor:      r.Floor,
		Status:     r.Status,
		Notes:      r.Notes,
		BasePrice:  r.BasePrice,
		Capacity:   r.Capacity,
		Amenities:  amenities,
		CreatedAt:  r.CreatedAt,
	}
}
