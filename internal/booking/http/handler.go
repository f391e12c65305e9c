package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/crestview/hotel-pms-backend/internal/auth"
	"github.com/crestview/hotel-pms-backend/internal/booking"
	"github.com/crestview/hotel-pms-backend/internal/pkg/request"
	"github.com/crestview/hotel-pms-backend/internal/pkg/response"
	"github.com/crestview/hotel-pms-backend/internal/room"
	roomHttp "github.com/crestview/hotel-pms-backend/internal/room/http"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service    booking.Service
	resolver   *booking.Resolver
	pendingTTL time.Duration
}

func NewHandler(service booking.Service, resolver *booking.Resolver, pendingTTL time.Duration) *BookingHandler {
	return &BookingHandler{
		service:    service,
		resolver:   resolver,
		pendingTTL: pendingTTL,
	}
}

// CreateCustomer creates a pending booking for the authenticated guest.
// The booking stays pending until billing confirms payment; the sweeper
// cancels it if payment never arrives.
func (h *BookingHandler) CreateCustomer(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)

	b, err := h.service.CreateCustomer(c.Request.Context(), booking.CreateRequest{
		UserID:       &userID,
		GuestName:    req.GuestName,
		GuestEmail:   req.GuestEmail,
		GuestPhone:   req.GuestPhone,
		RoomNumber:   req.RoomNumber,
		RoomTypeID:   req.RoomTypeID,
		CheckIn:      mustParseDate(req.CheckIn),
		CheckOut:     mustParseDate(req.CheckOut),
		CheckInTime:  req.CheckInTime,
		CheckOutTime: req.CheckOutTime,
		Guests:       req.Guests,
	})
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// CreateAdmin creates a confirmed booking with billing attached.
// Access Control: Admin only.
func (h *BookingHandler) CreateAdmin(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.CreateAdmin(c.Request.Context(), booking.CreateRequest{
		GuestName:    req.GuestName,
		GuestEmail:   req.GuestEmail,
		GuestPhone:   req.GuestPhone,
		RoomNumber:   req.RoomNumber,
		RoomTypeID:   req.RoomTypeID,
		CheckIn:      mustParseDate(req.CheckIn),
		CheckOut:     mustParseDate(req.CheckOut),
		CheckInTime:  req.CheckInTime,
		CheckOutTime: req.CheckOutTime,
		Guests:       req.Guests,
	})
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *BookingHandler) writeCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrRoomUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidDateRange),
		errors.Is(err, booking.ErrCapacityExceeded),
		errors.Is(err, booking.ErrTypeNotOffered):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, room.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	default:
		response.Error(c, err)
	}
}

// List searches bookings. Access Control: Admin only.
func (h *BookingHandler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := booking.Filter{
		Status:     req.Status,
		RoomNumber: req.RoomNumber,
		Query:      req.Query,
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortOrder:  req.SortOrder,
	}
	if req.From != "" {
		filter.FromDate = mustParseDate(req.From)
	}
	if req.To != "" {
		filter.ToDate = mustParseDate(req.To)
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// MyBookings lists the authenticated guest's own bookings.
func (h *BookingHandler) MyBookings(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := booking.Filter{
		UserID:    auth.GetUserID(c),
		Status:    req.Status,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortOrder: req.SortOrder,
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// Get returns a booking. Guests may only read their own bookings.
func (h *BookingHandler) Get(c *gin.Context) {
	b, ok := h.fetchAuthorized(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Update modifies a booking, re-validating availability when dates or
// the room change. Access Control: Admin only.
func (h *BookingHandler) Update(c *gin.Context) {
	var uri request.ByBookingIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	req := booking.UpdateRequest{
		GuestName:    body.GuestName,
		GuestEmail:   body.GuestEmail,
		GuestPhone:   body.GuestPhone,
		RoomNumber:   body.RoomNumber,
		CheckInTime:  body.CheckInTime,
		CheckOutTime: body.CheckOutTime,
		Guests:       body.Guests,
	}
	if body.CheckIn != nil {
		t := mustParseDate(*body.CheckIn)
		req.CheckIn = &t
	}
	if body.CheckOut != nil {
		t := mustParseDate(*body.CheckOut)
		req.CheckOut = &t
	}

	b, err := h.service.Update(c.Request.Context(), uri.BookingID, req)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, booking.ErrRoomUnavailable), errors.Is(err, booking.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, booking.ErrInvalidDateRange), errors.Is(err, booking.ErrCapacityExceeded):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, room.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Cancel soft-deletes a booking and recomputes the room status.
// Guests may only cancel their own bookings.
func (h *BookingHandler) Cancel(c *gin.Context) {
	b, ok := h.fetchAuthorized(c)
	if !ok {
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), b.ID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrAlreadyCancelled), errors.Is(err, booking.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(cancelled))
}

// Rollback hard-deletes a still-pending booking. Used by the front end
// when a later step of the booking flow fails client-side.
func (h *BookingHandler) Rollback(c *gin.Context) {
	b, ok := h.fetchAuthorized(c)
	if !ok {
		return
	}

	if err := h.service.Rollback(c.Request.Context(), b.ID); err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, booking.ErrNotRollbackable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			response.Error(c, err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// CheckIn marks a confirmed booking as checked in.
// Access Control: Admin only.
func (h *BookingHandler) CheckIn(c *gin.Context) {
	h.transition(c, h.service.CheckIn)
}

// CheckOut marks a checked-in booking as checked out.
// Access Control: Admin only.
func (h *BookingHandler) CheckOut(c *gin.Context) {
	h.transition(c, h.service.CheckOut)
}

func (h *BookingHandler) transition(c *gin.Context, op func(ctx context.Context, id string) (*booking.Booking, error)) {
	var req request.ByBookingIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := op(c.Request.Context(), req.BookingID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, booking.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Sweep triggers an immediate expiry pass over stale pending bookings,
// the same one the background sweeper runs. Access Control: Admin only.
func (h *BookingHandler) Sweep(c *gin.Context) {
	expired, err := h.service.ExpireStalePending(c.Request.Context(), h.pendingTTL)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expired": expired})
}

// fetchAuthorized binds the booking ID, loads the booking, and enforces
// owner-or-admin access. Writes the error response itself on failure.
func (h *BookingHandler) fetchAuthorized(c *gin.Context) (*booking.Booking, bool) {
	var req request.ByBookingIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return nil, false
	}

	b, err := h.service.GetByID(c.Request.Context(), req.BookingID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return nil, false
		}
		response.Error(c, err)
		return nil, false
	}

	if !auth.IsAdmin(c) {
		userID := auth.GetUserID(c)
		if b.UserID == nil || *b.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return nil, false
		}
	}

	return b, true
}

// AvailableRooms lists the free rooms of a type for a date range.
func (h *BookingHandler) AvailableRooms(c *gin.Context) {
	var req AvailableRoomsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	checkIn := mustParseDate(req.CheckIn)
	checkOut := mustParseDate(req.CheckOut)
	if !checkOut.After(checkIn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": booking.ErrInvalidDateRange.Error()})
		return
	}

	free := h.resolver.ListAvailableRooms(c.Request.Context(), req.RoomTypeID, checkIn, checkOut)

	rooms := make([]roomHttp.RoomResponse, len(free))
	for i, rm := range free {
		rooms[i] = roomHttp.NewRoomResponse(rm)
	}

	c.JSON(http.StatusOK, AvailabilityResponse{
		RoomTypeID: req.RoomTypeID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Available:  len(rooms),
		Rooms:      rooms,
	})
}

// RoomAvailability reports whether one specific room is free for a
// date range.
func (h *BookingHandler) RoomAvailability(c *gin.Context) {
	var uri request.ByRoomNumberRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var req AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	checkIn := mustParseDate(req.CheckIn)
	checkOut := mustParseDate(req.CheckOut)
	if !checkOut.After(checkIn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": booking.ErrInvalidDateRange.Error()})
		return
	}

	free := h.resolver.IsRoomFree(c.Request.Context(), uri.RoomNumber, checkIn, checkOut, "")

	c.JSON(http.StatusOK, gin.H{
		"room_number": uri.RoomNumber,
		"check_in":    req.CheckIn,
		"check_out":   req.CheckOut,
		"available":   free,
	})
}
