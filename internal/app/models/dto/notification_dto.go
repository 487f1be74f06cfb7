package dto

import (
	"time"

	"github.com/kerem/doctrack/internal/app/models"
)

// NotificationResponse is one entry in a user's notification feed.
type NotificationResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type" example:"STATUS_UPDATE"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	RequestID *int64    `json:"request_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// UnreadCountResponse reports the caller's unread notification count.
type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

// MapNotificationToResponse converts a notification model into its API
// representation.
func MapNotificationToResponse(n *models.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		RequestID: n.RequestID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
