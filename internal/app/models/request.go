package models

import "time"

// Request is the shared trackable-request shape behind both variants
// (transcript and recommendation), discriminated by RequestType.
// Variant-specific fields are nullable columns on the same row.
type Request struct {
	ID          int64       `json:"id" db:"id"`
	RequestType RequestType `json:"request_type" db:"request_type"`
	StudentID   int64       `json:"student_id" db:"student_id"`

	// Requester-entered fields.
	FirstName        string           `json:"first_name" db:"first_name"`
	LastName         string           `json:"last_name" db:"last_name"`
	Email            string           `json:"email" db:"email"`
	Phone            string           `json:"phone" db:"phone"`
	EnrollmentStatus string           `json:"enrollment_status,omitempty" db:"enrollment_status"`
	InstitutionName  string           `json:"institution_name" db:"institution_name"`
	InstitutionEmail string           `json:"institution_email,omitempty" db:"institution_email"`
	Program          string           `json:"program,omitempty" db:"program"`
	Reason           string           `json:"reason,omitempty" db:"reason"`
	CollectionMethod CollectionMethod `json:"collection_method" db:"collection_method"`
	DeliveryAddress  string           `json:"delivery_address,omitempty" db:"delivery_address"`
	NeededByDate     time.Time        `json:"needed_by_date" db:"needed_by_date"`

	Status          RequestStatus `json:"status" db:"status"`
	AssignedStaffID *int64        `json:"assigned_staff_id,omitempty" db:"assigned_staff_id"`
	RejectionReason *string       `json:"rejection_reason,omitempty" db:"rejection_reason"`

	// Version backs the optimistic concurrency check: every mutating
	// write increments it and fails with a conflict on a stale read.
	Version   int64     `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Timeline  []*TimelineEntry `json:"timeline,omitempty"`
	Documents []*DocumentRef   `json:"documents,omitempty"`
}

// IsAssignedTo reports whether staffID is the current assignee.
func (r *Request) IsAssignedTo(staffID int64) bool {
	return r.AssignedStaffID != nil && *r.AssignedStaffID == staffID
}

// Overdue reports whether the request's needed-by date has passed while
// the request is still in a non-terminal state.
func (r *Request) Overdue(today time.Time) bool {
	if r.Status.IsTerminal() {
		return false
	}
	y, m, d := today.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return r.NeededByDate.Before(midnight)
}

// TimelineEntry is one append-only audit record of a status change.
// Entries are never mutated or removed once written; the first entry is
// created together with the request at status Pending.
type TimelineEntry struct {
	ID        int64         `json:"id" db:"id"`
	RequestID int64         `json:"request_id" db:"request_id"`
	Status    RequestStatus `json:"status" db:"status"`
	Note      string        `json:"note" db:"note"`
	ActorID   int64         `json:"actor_id" db:"actor_id"`
	ActorName string        `json:"actor_name" db:"actor_name"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

// DocumentRef is document metadata attached to a request. The bytes live
// in an external blob store addressed by the opaque StorageKey.
type DocumentRef struct {
	ID          int64     `json:"id" db:"id"`
	RequestID   int64     `json:"request_id" db:"request_id"`
	FileName    string    `json:"file_name" db:"file_name"`
	ContentType string    `json:"content_type" db:"content_type"`
	UploaderID  int64     `json:"uploader_id" db:"uploader_id"`
	StorageKey  string    `json:"storage_key" db:"storage_key"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`
}
