package http

import (
	"errors"
	"net/http"

	"github.com/crestview/hotel-pms-backend/internal/pkg/request"
	"github.com/crestview/hotel-pms-backend/internal/pkg/response"
	"github.com/crestview/hotel-pms-backend/internal/room"
	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	service room.Service
}

func NewHandler(service room.Service) *RoomHandler {
	return &RoomHandler{service: service}
}

// List returns rooms with optional status/type/floor filters.
func (h *RoomHandler) List(c *gin.Context) {
	var req ListRoomsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := room.Filter{
		Status:     req.Status,
		RoomTypeID: req.RoomTypeID,
		Floor:      req.Floor,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	rooms, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RoomResponse, len(rooms))
	for i, r := range rooms {
		items[i] = NewRoomResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// Get returns a single room by number.
func (h *RoomHandler) Get(c *gin.Context) {
	var req request.ByRoomNumberRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	r, err := h.service.GetByNumber(c.Request.Context(), req.RoomNumber)
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRoomResponse(r))
}

// Stats returns the per-status room census. Access Control: Admin only.
func (h *RoomHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Create adds a new room. Access Control: Admin only.
func (h *RoomHandler) Create(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	r, err := h.service.Create(c.Request.Context(), room.CreateRequest{
		Number:     req.Number,
		RoomTypeID: req.RoomTypeID,
		Floor:      req.Floor,
		Notes:      req.Notes,
	})
	if err != nil {
		if errors.Is(err, room.ErrNumberAlreadyUsed) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewRoomResponse(r))
}

// Update edits a room's type, floor, or notes. Access Control: Admin only.
func (h *RoomHandler) Update(c *gin.Context) {
	var uri request.ByRoomNumberRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	r, err := h.service.Update(c.Request.Context(), uri.RoomNumber, room.UpdateRequest{
		RoomTypeID: body.RoomTypeID,
		Floor:      body.Floor,
		Notes:      body.Notes,
	})
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRoomResponse(r))
}

// UpdateStatus applies a manual status change. Access Control: Admin only.
func (h *RoomHandler) UpdateStatus(c *gin.Context) {
	var uri request.ByRoomNumberRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateRoomStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	r, err := h.service.SetStatus(c.Request.Context(), uri.RoomNumber, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, room.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		case errors.Is(err, room.ErrMaintenanceBlocked), errors.Is(err, room.ErrActiveToday):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, room.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, NewRoomResponse(r))
}

// Delete removes a room that has no bookings on record.
// Access Control: Admin only.
func (h *RoomHandler) Delete(c *gin.Context) {
	var req request.ByRoomNumberRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.RoomNumber); err != nil {
		switch {
		case errors.Is(err, room.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		case errors.Is(err, room.ErrInUse):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			response.Error(c, err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
