package models

import "time"

// Notification is a per-recipient record created as a side effect of a
// core mutation. It is mutated only by the owning recipient marking it
// read, and deleted only by the bulk data-clear operation.
type Notification struct {
	ID        int64            `json:"id" db:"id"`
	UserID    int64            `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	RequestID *int64           `json:"request_id,omitempty" db:"request_id"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
