package dto

import (
	"time"

	"github.com/kerem/doctrack/internal/app/models"
)

// UserResponse is the public representation of a user account.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role" example:"STUDENT"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserRequest is the admin payload for provisioning staff and admin
// accounts.
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Role      string `json:"role" binding:"required" example:"STAFF"`
}

// MapUserToResponse converts a user model into its API representation.
func MapUserToResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.RoleType),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
