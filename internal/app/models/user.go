package models

import "time"

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	RoleType  RoleType  `json:"role" db:"role_type"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FullName joins the name parts for display and audit entries.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// AsActor converts the user row into the actor identity passed to
// service operations.
func (u *User) AsActor() Actor {
	return Actor{ID: u.ID, Name: u.FullName(), Role: u.RoleType}
}
