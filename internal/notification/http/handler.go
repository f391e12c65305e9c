package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crestview/hotel-pms-backend/internal/notification"
	"github.com/crestview/hotel-pms-backend/internal/pkg/request"
	"github.com/crestview/hotel-pms-backend/internal/pkg/response"
)

type NotificationHandler struct {
	service notification.Service
}

func NewHandler(service notification.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List returns the admin notification inbox, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	var req ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := notification.Filter{
		IsRead:   req.IsRead,
		Window:   req.Window,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]NotificationResponse, len(items))
	for i, n := range items {
		out[i] = NewNotificationResponse(n)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(out, req.Page, req.PageSize, total))
}

// UnreadCount returns the number of unread notifications.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Update toggles the read flag of one notification.
func (h *NotificationHandler) Update(c *gin.Context) {
	var uri request.ByNumericIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var req UpdateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	n, err := h.service.SetRead(c.Request.Context(), uri.ID, *req.IsRead)
	if err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewNotificationResponse(n))
}

// MarkAllRead marks every unread notification as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked as read"})
}

// Delete removes a notification.
func (h *NotificationHandler) Delete(c *gin.Context) {
	var uri request.ByNumericIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSettings returns the notification on/off switch.
func (h *NotificationHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.Settings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewNotificationSettingsResponse(settings))
}

// UpdateSettings toggles notification persistence.
func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	var req UpdateNotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), *req.Enabled)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewNotificationSettingsResponse(settings))
}
