package models

import "strings"

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleStaff   RoleType = "STAFF"
	RoleAdmin   RoleType = "ADMIN"
)

// ParseRoleType normalizes a role string to a RoleType.
func ParseRoleType(s string) (RoleType, bool) {
	switch RoleType(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleStaff:
		return RoleStaff, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Actor identifies the authenticated caller of an operation.
// Every service operation takes an explicit Actor instead of reading
// ambient session state.
type Actor struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Role RoleType `json:"role"`
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// IsStaff reports whether the actor holds the staff role.
func (a Actor) IsStaff() bool { return a.Role == RoleStaff }

// IsStudent reports whether the actor holds the student role.
func (a Actor) IsStudent() bool { return a.Role == RoleStudent }

// RequestType discriminates the two request variants sharing the
// trackable-request core.
type RequestType string

const (
	RequestTypeTranscript     RequestType = "TRANSCRIPT"
	RequestTypeRecommendation RequestType = "RECOMMENDATION"
)

// ParseRequestType normalizes a request type string.
func ParseRequestType(s string) (RequestType, bool) {
	switch RequestType(strings.ToUpper(strings.TrimSpace(s))) {
	case RequestTypeTranscript:
		return RequestTypeTranscript, true
	case RequestTypeRecommendation:
		return RequestTypeRecommendation, true
	}
	return "", false
}

// Label returns the human-readable form used on the wire.
func (t RequestType) Label() string {
	switch t {
	case RequestTypeTranscript:
		return "Transcript"
	case RequestTypeRecommendation:
		return "Recommendation"
	}
	return string(t)
}

// CollectionMethod defines how the finished document is handed over.
type CollectionMethod string

const (
	CollectionPickup   CollectionMethod = "PICKUP"
	CollectionDelivery CollectionMethod = "DELIVERY"
	CollectionEmailed  CollectionMethod = "EMAILED"
)

// ParseCollectionMethod normalizes a collection method string.
func ParseCollectionMethod(s string) (CollectionMethod, bool) {
	switch CollectionMethod(strings.ToUpper(strings.TrimSpace(s))) {
	case CollectionPickup:
		return CollectionPickup, true
	case CollectionDelivery:
		return CollectionDelivery, true
	case CollectionEmailed:
		return CollectionEmailed, true
	}
	return "", false
}

// Label returns the human-readable form used on the wire.
func (m CollectionMethod) Label() string {
	switch m {
	case CollectionPickup:
		return "Pickup"
	case CollectionDelivery:
		return "Delivery"
	case CollectionEmailed:
		return "Emailed"
	}
	return string(m)
}

// NotificationType classifies notification records.
type NotificationType string

const (
	NotificationStatusUpdate NotificationType = "STATUS_UPDATE"
	NotificationDocument     NotificationType = "DOCUMENT"
	NotificationAssignment   NotificationType = "ASSIGNMENT"
	NotificationNewRequest   NotificationType = "NEW_REQUEST"
)
