package http

import (
	"time"

	"github.com/crestview/hotel-pms-backend/internal/booking"
	"github.com/crestview/hotel-pms-backend/internal/pkg/request"
	roomHttp "github.com/crestview/hotel-pms-backend/internal/room/http"
)

const dateLayout = "2006-01-02"

// CreateBookingRequest is the payload for both booking-creation flows.
// Either room_number or room_type_id must be set; with only a type, the
// first available room is assigned.
type CreateBookingRequest struct {
	GuestName    string `json:"guest_name" binding:"required,min=1,max=100"`
	GuestEmail   string `json:"guest_email" binding:"required,email"`
	GuestPhone   string `json:"guest_phone" binding:"omitempty,max=20"`
	RoomNumber   string `json:"room_number" binding:"omitempty,alphanum,max=10"`
	RoomTypeID   int64  `json:"room_type_id" binding:"omitempty,min=1"`
	CheckIn      string `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut     string `json:"check_out" binding:"required,datetime=2006-01-02"`
	CheckInTime  string `json:"check_in_time" binding:"omitempty,datetime=15:04"`
	CheckOutTime string `json:"check_out_time" binding:"omitempty,datetime=15:04"`
	Guests       int    `json:"guests" binding:"required,min=1"`
}

// UpdateBookingRequest is a partial booking edit.
type UpdateBookingRequest struct {
	GuestName    *string `json:"guest_name" binding:"omitempty,min=1,max=100"`
	GuestEmail   *string `json:"guest_email" binding:"omitempty,email"`
	GuestPhone   *string `json:"guest_phone" binding:"omitempty,max=20"`
	RoomNumber   *string `json:"room_number" binding:"omitempty,alphanum,max=10"`
	CheckIn      *string `json:"check_in" binding:"omitempty,datetime=2006-01-02"`
	CheckOut     *string `json:"check_out" binding:"omitempty,datetime=2006-01-02"`
	CheckInTime  *string `json:"check_in_time" binding:"omitempty,datetime=15:04"`
	CheckOutTime *string `json:"check_out_time" binding:"omitempty,datetime=15:04"`
	Guests       *int    `json:"guests" binding:"omitempty,min=1"`
}

// ListBookingsRequest defines query parameters for the admin search.
type ListBookingsRequest struct {
	request.ListParams
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed checked_in checked_out"`
	RoomNumber string `form:"room_number" binding:"omitempty,alphanum,max=10"`
	Query      string `form:"q"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// AvailabilityRequest defines the date range of an availability query.
type AvailabilityRequest struct {
	CheckIn  string `form:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut string `form:"check_out" binding:"required,datetime=2006-01-02"`
}

// AvailableRoomsRequest adds the room type to an availability query.
type AvailableRoomsRequest struct {
	AvailabilityRequest
	RoomTypeID int64 `form:"room_type_id" binding:"required,min=1"`
}

// BookingResponse is the API shape of a booking.
type BookingResponse struct {
	ID           string     `json:"id"`
	UserID       *int64     `json:"user_id"`
	GuestName    string     `json:"guest_name"`
	GuestEmail   string     `json:"guest_email"`
	GuestPhone   *string    `json:"guest_phone"`
	RoomNumber   string     `json:"room_number"`
	CheckIn      string     `json:"check_in"`
	CheckOut     string     `json:"check_out"`
	CheckInTime  string     `json:"check_in_time"`
	CheckOutTime string     `json:"check_out_time"`
	Guests       int        `json:"guests"`
	Status       string     `json:"status"`
	IsCancelled  bool       `json:"is_cancelled"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	Source       string     `json:"source"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewBookingResponse converts a domain booking to the API representation.
func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		UserID:       b.UserID,
		GuestName:    b.GuestName,
		GuestEmail:   b.GuestEmail,
		GuestPhone:   b.GuestPhone,
		RoomNumber:   b.RoomNumber,
		CheckIn:      b.CheckIn.Format(dateLayout),
		CheckOut:     b.CheckOut.Format(dateLayout),
		CheckInTime:  b.CheckInTime,
		CheckOutTime: b.CheckOutTime,
		Guests:       b.Guests,
		Status:       b.Status,
		IsCancelled:  b.IsCancelled,
		CancelledAt:  b.CancelledAt,
		Source:       b.Source,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// AvailabilityResponse lists the free rooms of a type for a date range.
type AvailabilityResponse struct {
	RoomTypeID int64                   `json:"room_type_id"`
	CheckIn    string                  `json:"check_in"`
	CheckOut   string                  `json:"check_out"`
	Available  int                     `json:"available"`
	Rooms      []roomHttp.RoomResponse `json:"rooms"`
}

// mustParseDate converts a binding-validated date string. The datetime
// binding tag guarantees the layout, so the error path is unreachable.
func mustParseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}
