package dto

import (
	"time"

	"github.com/kerem/doctrack/internal/app/models"
)

// CreateRequestRequest is the payload for submitting a new document request.
// Variant-specific fields are validated in the service layer depending on
// request_type and collection_method.
type CreateRequestRequest struct {
	RequestType      string `json:"request_type" binding:"required" example:"Transcript"`
	FirstName        string `json:"first_name" binding:"required" example:"Ayse"`
	LastName         string `json:"last_name" binding:"required" example:"Demir"`
	Email            string `json:"email" binding:"required" example:"ayse.demir@example.edu"`
	Phone            string `json:"phone" example:"+90 532 000 0000"`
	EnrollmentStatus string `json:"enrollment_status,omitempty" example:"Current Student"`
	InstitutionName  string `json:"institution_name" binding:"required" example:"ETH Zurich"`
	InstitutionEmail string `json:"institution_email,omitempty" example:"admissions@ethz.ch"`
	Program          string `json:"program,omitempty" example:"MSc Computer Science"`
	Reason           string `json:"reason,omitempty" example:"Graduate school application"`
	CollectionMethod string `json:"collection_method" binding:"required" example:"Delivery"`
	DeliveryAddress  string `json:"delivery_address,omitempty" example:"12 Campus Way, Ankara"`
	NeededByDate     string `json:"needed_by_date" binding:"required" example:"2026-09-15"`
}

// EditRequestRequest is the payload students use to amend a pending request.
// Only the fields present are changed.
type EditRequestRequest struct {
	FirstName        *string `json:"first_name,omitempty"`
	LastName         *string `json:"last_name,omitempty"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	EnrollmentStatus *string `json:"enrollment_status,omitempty"`
	InstitutionName  *string `json:"institution_name,omitempty"`
	InstitutionEmail *string `json:"institution_email,omitempty"`
	Program          *string `json:"program,omitempty"`
	Reason           *string `json:"reason,omitempty"`
	CollectionMethod *string `json:"collection_method,omitempty"`
	DeliveryAddress  *string `json:"delivery_address,omitempty"`
	NeededByDate     *string `json:"needed_by_date,omitempty"`
	Version          *int64  `json:"version,omitempty"`
}

// UpdateRequestRequest is the payload for PATCH on a request. Exactly one
// concern is acted on per call: assignment, rejection, or a status advance.
type UpdateRequestRequest struct {
	Status          *string `json:"status,omitempty" example:"In Progress"`
	Note            *string `json:"note,omitempty" example:"Registrar verification started"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	AssignedStaffID *int64  `json:"assigned_staff_id,omitempty"`
	Version         *int64  `json:"version,omitempty" example:"3"`
}

// RequestFilter holds query parameters accepted by the request list endpoints.
type RequestFilter struct {
	Status      *models.RequestStatus
	RequestType *models.RequestType
	Page        int
	PageSize    int
}

// TimelineEntryResponse is one audit entry in a request's history.
type TimelineEntryResponse struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status" example:"In Progress"`
	Note      string    `json:"note"`
	ActorID   int64     `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentResponse describes an uploaded document attached to a request.
type DocumentResponse struct {
	ID          int64     `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	UploaderID  int64     `json:"uploader_id"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// RegisterDocumentRequest registers an uploaded file against a request.
type RegisterDocumentRequest struct {
	FileName    string `json:"file_name" binding:"required" example:"transcript_final.pdf"`
	ContentType string `json:"content_type" binding:"required" example:"application/pdf"`
}

// RequestResponse is the full representation of a document request.
type RequestResponse struct {
	ID               int64                   `json:"id"`
	RequestType      string                  `json:"request_type" example:"Transcript"`
	StudentID        int64                   `json:"student_id"`
	FirstName        string                  `json:"first_name"`
	LastName         string                  `json:"last_name"`
	Email            string                  `json:"email"`
	Phone            string                  `json:"phone,omitempty"`
	EnrollmentStatus string                  `json:"enrollment_status,omitempty"`
	InstitutionName  string                  `json:"institution_name"`
	InstitutionEmail string                  `json:"institution_email,omitempty"`
	Program          string                  `json:"program,omitempty"`
	Reason           string                  `json:"reason,omitempty"`
	CollectionMethod string                  `json:"collection_method" example:"Delivery"`
	DeliveryAddress  string                  `json:"delivery_address,omitempty"`
	NeededByDate     string                  `json:"needed_by_date" example:"2026-09-15"`
	Status           string                  `json:"status" example:"Pending"`
	AssignedStaffID  *int64                  `json:"assigned_staff_id,omitempty"`
	RejectionReason  *string                 `json:"rejection_reason,omitempty"`
	Version          int64                   `json:"version"`
	Overdue          bool                    `json:"overdue"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
	Timeline         []TimelineEntryResponse `json:"timeline,omitempty"`
	Documents        []DocumentResponse      `json:"documents,omitempty"`
}

// MapRequestToResponse converts a request model into its API representation.
func MapRequestToResponse(r *models.Request, now time.Time) *RequestResponse {
	resp := &RequestResponse{
		ID:               r.ID,
		RequestType:      r.RequestType.Label(),
		StudentID:        r.StudentID,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Phone:            r.Phone,
		EnrollmentStatus: r.EnrollmentStatus,
		InstitutionName:  r.InstitutionName,
		InstitutionEmail: r.InstitutionEmail,
		Program:          r.Program,
		Reason:           r.Reason,
		CollectionMethod: r.CollectionMethod.Label(),
		DeliveryAddress:  r.DeliveryAddress,
		NeededByDate:     r.NeededByDate.Format("2006-01-02"),
		Status:           r.Status.Label(),
		AssignedStaffID:  r.AssignedStaffID,
		RejectionReason:  r.RejectionReason,
		Version:          r.Version,
		Overdue:          r.Overdue(now),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	for _, entry := range r.Timeline {
		resp.Timeline = append(resp.Timeline, TimelineEntryResponse{
			ID:        entry.ID,
			Status:    entry.Status.Label(),
			Note:      entry.Note,
			ActorID:   entry.ActorID,
			ActorName: entry.ActorName,
			CreatedAt: entry.CreatedAt,
		})
	}
	for _, doc := range r.Documents {
		resp.Documents = append(resp.Documents, DocumentResponse{
			ID:          doc.ID,
			FileName:    doc.FileName,
			ContentType: doc.ContentType,
			UploaderID:  doc.UploaderID,
			UploadedAt:  doc.UploadedAt,
		})
	}
	return resp
}
