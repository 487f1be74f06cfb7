package models

import "strings"

// RequestStatus is the lifecycle state of a request.
type RequestStatus string

const (
	StatusPending    RequestStatus = "PENDING"
	StatusInProgress RequestStatus = "IN_PROGRESS"
	StatusProcessing RequestStatus = "PROCESSING"
	StatusReady      RequestStatus = "READY"
	StatusCompleted  RequestStatus = "COMPLETED"
	StatusRejected   RequestStatus = "REJECTED"
)

// statusOrder is the required forward sequence. Rejected sits outside the
// sequence and is reachable from any non-terminal state.
var statusOrder = []RequestStatus{
	StatusPending,
	StatusInProgress,
	StatusProcessing,
	StatusReady,
	StatusCompleted,
}

// AllStatuses lists every valid status value.
func AllStatuses() []RequestStatus {
	return []RequestStatus{
		StatusPending, StatusInProgress, StatusProcessing,
		StatusReady, StatusCompleted, StatusRejected,
	}
}

// ParseRequestStatus accepts both the canonical form ("IN_PROGRESS") and
// the human label ("In Progress"), case-insensitively.
func ParseRequestStatus(s string) (RequestStatus, bool) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
	switch RequestStatus(normalized) {
	case StatusPending, StatusInProgress, StatusProcessing,
		StatusReady, StatusCompleted, StatusRejected:
		return RequestStatus(normalized), true
	}
	return "", false
}

// Valid reports whether s is a member of the fixed status set.
func (s RequestStatus) Valid() bool {
	_, ok := ParseRequestStatus(string(s))
	return ok
}

// IsTerminal reports whether no further transitions are permitted.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// Successor returns the immediate next status in the ordered sequence.
// The second return is false for terminal states.
func (s RequestStatus) Successor() (RequestStatus, bool) {
	for i, st := range statusOrder {
		if st == s && i+1 < len(statusOrder) {
			return statusOrder[i+1], true
		}
	}
	return "", false
}

// CanAdvanceTo reports whether a transition from s to next is legal:
// next must be the immediate successor, or Rejected from any
// non-terminal state. No skipping, no backward movement.
func (s RequestStatus) CanAdvanceTo(next RequestStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusRejected {
		return true
	}
	succ, ok := s.Successor()
	return ok && succ == next
}

// Label returns the human-readable form used in notification text.
func (s RequestStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusProcessing:
		return "Processing"
	case StatusReady:
		return "Ready"
	case StatusCompleted:
		return "Completed"
	case StatusRejected:
		return "Rejected"
	}
	return string(s)
}
