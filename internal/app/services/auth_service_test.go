package services

import (
	"context"
	"testing"
	"time"

	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	pkgauth "github.com/kerem/doctrack/internal/pkg/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAuthFixture() (*MockUserRepository, *MockTokenRepository, AuthService) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockTokenRepository)
	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "doctrack.test",
	})
	svc := NewAuthService(userRepo, tokenRepo, jwtService, zerolog.Nop())
	return userRepo, tokenRepo, svc
}

func activeStudent(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := pkgauth.HashPassword(password)
	assert.NoError(t, err)
	return &models.User{
		ID:        1,
		Email:     "ayse.demir@example.edu",
		Password:  hash,
		FirstName: "Ayse",
		LastName:  "Demir",
		RoleType:  models.RoleStudent,
		IsActive:  true,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesStudentAndIssuesTokens", func(t *testing.T) {
		userRepo, tokenRepo, svc := newAuthFixture()
		userRepo.On("EmailExists", ctx, "ayse.demir@example.edu").Return(false, nil)
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.RoleType == models.RoleStudent && u.IsActive
		})).Return(int64(1), nil)
		tokenRepo.On("CreateToken", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("int64"), mock.AnythingOfType("time.Time")).Return(nil)

		resp, err := svc.Register(ctx, &dto.RegisterRequest{
			Email:     "ayse.demir@example.edu",
			Password:  "Password1!",
			FirstName: "Ayse",
			LastName:  "Demir",
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "STUDENT", resp.User.Role)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("EmailExists", ctx, "taken@example.edu").Return(true, nil)

		_, err := svc.Register(ctx, &dto.RegisterRequest{
			Email: "taken@example.edu", Password: "Password1!", FirstName: "Ayse", LastName: "Demir",
		})
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})

	t.Run("InvalidInputs", func(t *testing.T) {
		_, _, svc := newAuthFixture()

		_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "not-an-email", Password: "Password1!", FirstName: "Ayse", LastName: "Demir"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidEmail)

		_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "a@b.edu", Password: "short", FirstName: "Ayse", LastName: "Demir"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidCredentials", func(t *testing.T) {
		userRepo, tokenRepo, svc := newAuthFixture()
		user := activeStudent(t, "Password1!")
		userRepo.On("GetByEmail", ctx, "ayse.demir@example.edu").Return(user, nil)
		tokenRepo.On("CreateToken", ctx, mock.Anything, user.ID, mock.Anything).Return(nil)

		resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "Ayse.Demir@example.edu", Password: "Password1!"})
		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "ayse.demir@example.edu").Return(activeStudent(t, "Password1!"), nil)

		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "ayse.demir@example.edu", Password: "wrong"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("UnknownEmailIndistinguishable", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "nobody@example.edu").Return(nil, apperrors.ErrUserNotFound)

		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.edu", Password: "Password1!"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("DisabledAccount", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		user := activeStudent(t, "Password1!")
		user.IsActive = false
		userRepo.On("GetByEmail", ctx, "ayse.demir@example.edu").Return(user, nil)

		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "ayse.demir@example.edu", Password: "Password1!"})
		assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("RotatesToken", func(t *testing.T) {
		userRepo, tokenRepo, svc := newAuthFixture()
		user := activeStudent(t, "Password1!")

		tokenRepo.On("GetTokenByValue", ctx, "old-token").Return(user.ID, nil)
		userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
		tokenRepo.On("RevokeToken", ctx, "old-token").Return(nil)
		tokenRepo.On("CreateToken", ctx, mock.Anything, user.ID, mock.Anything).Return(nil)

		resp, err := svc.Refresh(ctx, "old-token")
		assert.NoError(t, err)
		assert.NotEqual(t, "old-token", resp.RefreshToken)
		tokenRepo.AssertExpectations(t)
	})

	t.Run("RevokedToken", func(t *testing.T) {
		_, tokenRepo, svc := newAuthFixture()
		tokenRepo.On("GetTokenByValue", ctx, "revoked").Return(int64(0), apperrors.ErrTokenRevoked)

		_, err := svc.Refresh(ctx, "revoked")
		assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		_, tokenRepo, svc := newAuthFixture()
		tokenRepo.On("GetTokenByValue", ctx, "expired").Return(int64(0), apperrors.ErrTokenExpired)

		_, err := svc.Refresh(ctx, "expired")
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})
}
