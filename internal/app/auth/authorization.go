package auth

import (
	"fmt"

	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
)

// AuthorizationService centralizes the role and ownership checks the
// request lifecycle depends on. It works on already-loaded models so the
// transition path pays for exactly one request read.
type AuthorizationService struct{}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// ValidateTransitionActor checks whether the actor may change the
// request's status. Admins always may; staff only when assigned to this
// request; students never.
func (s *AuthorizationService) ValidateTransitionActor(actor models.Actor, request *models.Request) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsStaff() {
		if request.IsAssignedTo(actor.ID) {
			return nil
		}
		return apperrors.NewForbiddenError("request is not assigned to you")
	}
	return apperrors.NewForbiddenError("students cannot change request status")
}

// CanViewRequest reports whether the actor may read the request: the
// owning student, the assigned staff member, or any admin.
func (s *AuthorizationService) CanViewRequest(actor models.Actor, request *models.Request) bool {
	switch {
	case actor.IsAdmin():
		return true
	case actor.IsStaff():
		return request.IsAssignedTo(actor.ID)
	default:
		return request.StudentID == actor.ID
	}
}

// ValidateViewRequest returns a forbidden error when CanViewRequest denies.
func (s *AuthorizationService) ValidateViewRequest(actor models.Actor, request *models.Request) error {
	if s.CanViewRequest(actor, request) {
		return nil
	}
	return apperrors.NewForbiddenError("you do not have access to this request")
}

// ValidateAdmin requires the admin role.
func (s *AuthorizationService) ValidateAdmin(actor models.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	return apperrors.NewForbiddenError("admin role required")
}

// ValidateOwner requires the actor to be the owning student.
func (s *AuthorizationService) ValidateOwner(actor models.Actor, request *models.Request) error {
	if request.StudentID == actor.ID {
		return nil
	}
	return apperrors.NewForbiddenError(fmt.Sprintf("request %d does not belong to you", request.ID))
}
