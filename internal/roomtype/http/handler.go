package http

import (
	"errors"
	"net/http"

	"github.com/crestview/hotel-pms-backend/internal/auth"
	"github.com/crestview/hotel-pms-backend/internal/pkg/request"
	"github.com/crestview/hotel-pms-backend/internal/pkg/response"
	"github.com/crestview/hotel-pms-backend/internal/roomtype"
	"github.com/gin-gonic/gin"
)

type RoomTypeHandler struct {
	service roomtype.Service
}

func NewHandler(service roomtype.Service) *RoomTypeHandler {
	return &RoomTypeHandler{service: service}
}

// List returns room types. Guests only see active types; staff may pass
// include_inactive=true.
func (h *RoomTypeHandler) List(c *gin.Context) {
	var req ListRoomTypesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := roomtype.Filter{
		ActiveOnly: !(req.IncludeInactive && auth.IsAdmin(c)),
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	types, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RoomTypeResponse, len(types))
	for i, rt := range types {
		items[i] = NewRoomTypeResponse(rt)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// Get returns a single room type by ID.
func (h *RoomTypeHandler) Get(c *gin.Context) {
	var req request.ByNumericIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	rt, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, roomtype.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room type not found"})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRoomTypeResponse(rt))
}

// Create adds a new room type. Access Control: Admin only.
func (h *RoomTypeHandler) Create(c *gin.Context) {
	var req CreateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	rt, err := h.service.Create(c.Request.Context(), roomtype.CreateRequest{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		MaxAdults:   req.MaxAdults,
		MaxChildren: req.MaxChildren,
		Amenities:   req.Amenities,
	})
	if err != nil {
		switch {
		case errors.Is(err, roomtype.ErrNameAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, roomtype.ErrNameRequired),
			errors.Is(err, roomtype.ErrInvalidPrice),
			errors.Is(err, roomtype.ErrInvalidCapacity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, NewRoomTypeResponse(rt))
}

// Update modifies a room type. Access Control: Admin only.
func (h *RoomTypeHandler) Update(c *gin.Context) {
	var uri request.ByNumericIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateRoomTypeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	rt, err := h.service.Update(c.Request.Context(), uri.ID, roomtype.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		BasePrice:   body.BasePrice,
		MaxAdults:   body.MaxAdults,
		MaxChildren: body.MaxChildren,
		Amenities:   body.Amenities,
	})
	if err != nil {
		switch {
		case errors.Is(err, roomtype.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, roomtype.ErrNameAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, roomtype.ErrNameRequired),
			errors.Is(err, roomtype.ErrInvalidPrice),
			errors.Is(err, roomtype.ErrInvalidCapacity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, NewRoomTypeResponse(rt))
}

// Disable hides a room type from guest-facing listings without deleting
// it. A type with rooms assigned cannot be disabled.
// Access Control: Admin only.
func (h *RoomTypeHandler) Disable(c *gin.Context) {
	h.setActive(c, false)
}

// Enable re-activates a disabled room type. Access Control: Admin only.
func (h *RoomTypeHandler) Enable(c *gin.Context) {
	h.setActive(c, true)
}

func (h *RoomTypeHandler) setActive(c *gin.Context, active bool) {
	var req request.ByNumericIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.SetActive(c.Request.Context(), req.ID, active); err != nil {
		switch {
		case errors.Is(err, roomtype.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "room type not found"})
		case errors.Is(err, roomtype.ErrInUse):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			response.Error(c, err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete removes a room type that has no rooms assigned.
// Access Control: Admin only.
func (h *RoomTypeHandler) Delete(c *gin.Context) {
	var req request.ByNumericIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		switch {
		case errors.Is(err, roomtype.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "room type not found"})
		case errors.Is(err, roomtype.ErrInUse):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			response.Error(c, err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
