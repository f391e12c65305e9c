package http

import (
	"time"

	"github.com/crestview/hotel-pms-backend/internal/notification"
	"github.com/crestview/hotel-pms-backend/internal/pkg/request"
)

// ListNotificationsRequest defines query parameters for the inbox.
type ListNotificationsRequest struct {
	request.ListParams
	IsRead *bool  `form:"is_read"`
	Window string `form:"window" binding:"omitempty,oneof=new older"`
}

// UpdateNotificationRequest toggles the read flag.
type UpdateNotificationRequest struct {
	IsRead *bool `json:"is_read" binding:"required"`
}

// UpdateNotificationSettingsRequest toggles notification persistence.
type UpdateNotificationSettingsRequest struct {
	Enabled *bool `json:"notifications_enabled" binding:"required"`
}

// NotificationResponse is the API shape of a notification.
type NotificationResponse struct {
	ID                int64     `json:"id"`
	Type              string    `json:"type"`
	Title             string    `json:"title"`
	Message           string    `json:"message"`
	RelatedBookingID  *string   `json:"related_booking_id"`
	RelatedRoomNumber *string   `json:"related_room_number"`
	IsRead            bool      `json:"is_read"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewNotificationResponse converts a notification to the API shape.
func NewNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:                n.ID,
		Type:              n.Type,
		Title:             n.Title,
		Message:           n.Message,
		RelatedBookingID:  n.RelatedBookingID,
		RelatedRoomNumber: n.RelatedRoomNumber,
		IsRead:            n.IsRead,
		CreatedAt:         n.CreatedAt,
	}
}

// NotificationSettingsResponse is the API shape of the settings row.
type NotificationSettingsResponse struct {
	ID        int64     `json:"id"`
	Enabled   bool      `json:"notifications_enabled"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNotificationSettingsResponse converts settings to the API shape.
func NewNotificationSettingsResponse(s *notification.Settings) NotificationSettingsResponse {
	return NotificationSettingsResponse{
		ID:        s.ID,
		Enabled:   s.Enabled,
		UpdatedAt: s.UpdatedAt,
	}
}
