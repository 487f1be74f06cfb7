package auth

import (
	"testing"

	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
)

var (
	student = models.Actor{ID: 1, Role: models.RoleStudent}
	staff   = models.Actor{ID: 7, Role: models.RoleStaff}
	admin   = models.Actor{ID: 2, Role: models.RoleAdmin}
)

func requestOwnedBy(studentID int64, assignee *int64) *models.Request {
	return &models.Request{ID: 100, StudentID: studentID, AssignedStaffID: assignee}
}

func TestValidateTransitionActor(t *testing.T) {
	svc := NewAuthorizationService()
	staffID := int64(7)

	assert.NoError(t, svc.ValidateTransitionActor(admin, requestOwnedBy(1, nil)))
	assert.NoError(t, svc.ValidateTransitionActor(staff, requestOwnedBy(1, &staffID)))

	err := svc.ValidateTransitionActor(staff, requestOwnedBy(1, nil))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	otherStaff := int64(99)
	err = svc.ValidateTransitionActor(staff, requestOwnedBy(1, &otherStaff))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Students never change status, not even on their own requests.
	err = svc.ValidateTransitionActor(student, requestOwnedBy(student.ID, nil))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCanViewRequest(t *testing.T) {
	svc := NewAuthorizationService()
	staffID := int64(7)

	assert.True(t, svc.CanViewRequest(admin, requestOwnedBy(1, nil)))
	assert.True(t, svc.CanViewRequest(student, requestOwnedBy(student.ID, nil)))
	assert.False(t, svc.CanViewRequest(student, requestOwnedBy(99, nil)))
	assert.True(t, svc.CanViewRequest(staff, requestOwnedBy(1, &staffID)))
	assert.False(t, svc.CanViewRequest(staff, requestOwnedBy(1, nil)))
}

func TestValidateAdmin(t *testing.T) {
	svc := NewAuthorizationService()

	assert.NoError(t, svc.ValidateAdmin(admin))
	assert.ErrorIs(t, svc.ValidateAdmin(staff), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, svc.ValidateAdmin(student), apperrors.ErrPermissionDenied)
}

func TestValidateOwner(t *testing.T) {
	svc := NewAuthorizationService()

	assert.NoError(t, svc.ValidateOwner(student, requestOwnedBy(student.ID, nil)))
	assert.ErrorIs(t, svc.ValidateOwner(student, requestOwnedBy(99, nil)), apperrors.ErrPermissionDenied)
}
