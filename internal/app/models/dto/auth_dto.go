package dto

// RegisterRequest is the payload for student self-registration.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"ayse.demir@example.edu"`
	Password  string `json:"password" binding:"required,min=8" example:"Password1!"`
	FirstName string `json:"first_name" binding:"required" example:"Ayse"`
	LastName  string `json:"last_name" binding:"required" example:"Demir"`
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ayse.demir@example.edu"`
	Password string `json:"password" binding:"required" example:"Password1!"`
}

// RefreshTokenRequest exchanges a refresh token for a new token pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse carries a freshly issued token pair.
type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user,omitempty"`
}
