package services

import (
	"context"
	"strings"

	"github.com/kerem/doctrack/internal/app/auth"
	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/app/repositories"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	pkgauth "github.com/kerem/doctrack/internal/pkg/auth"
	"github.com/kerem/doctrack/internal/pkg/helpers"
	"github.com/kerem/doctrack/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// ClearConfirmationPhrase must be supplied verbatim before the
// destructive data clear runs. Authorization alone is not enough here.
const ClearConfirmationPhrase = "ERASE ALL DATA"

// AdminService covers user administration and the destructive data
// operations. Every method requires the admin role.
type AdminService interface {
	DataSummary(ctx context.Context, actor models.Actor) (*dto.DataSummaryResponse, error)
	ClearAllData(ctx context.Context, actor models.Actor, confirmation string) (*dto.ClearDataResponse, error)

	ListUsers(ctx context.Context, actor models.Actor, page, size int) (*dto.PagedResponse, error)
	CreateUser(ctx context.Context, actor models.Actor, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, actor models.Actor, userID int64) error
}

type adminServiceImpl struct {
	adminRepo    repositories.IAdminRepository
	userRepo     repositories.IUserRepository
	tokenRepo    repositories.ITokenRepository
	authzService *auth.AuthorizationService
	logger       zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	adminRepo repositories.IAdminRepository,
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	authzService *auth.AuthorizationService,
	logger zerolog.Logger,
) AdminService {
	return &adminServiceImpl{
		adminRepo:    adminRepo,
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		authzService: authzService,
		logger:       logger,
	}
}

// DataSummary reports the row counts a clear would affect.
func (s *adminServiceImpl) DataSummary(ctx context.Context, actor models.Actor) (*dto.DataSummaryResponse, error) {
	if err := s.authzService.ValidateAdmin(actor); err != nil {
		return nil, err
	}
	return s.adminRepo.DataSummary(ctx)
}

// ClearAllData wipes requests, notifications and non-admin accounts in
// one transaction. The confirmation phrase has to match exactly; a
// well-formed but wrong phrase is a validation failure, not a
// permission problem.
func (s *adminServiceImpl) ClearAllData(ctx context.Context, actor models.Actor, confirmation string) (*dto.ClearDataResponse, error) {
	if err := s.authzService.ValidateAdmin(actor); err != nil {
		return nil, err
	}
	if confirmation != ClearConfirmationPhrase {
		return nil, apperrors.NewValidationError("confirmation phrase does not match")
	}

	s.logger.Warn().Int64("adminID", actor.ID).Msg("Data clear requested")
	return s.adminRepo.ClearAllData(ctx)
}

// ListUsers returns a page of all user accounts.
func (s *adminServiceImpl) ListUsers(ctx context.Context, actor models.Actor, page, size int) (*dto.PagedResponse, error) {
	if err := s.authzService.ValidateAdmin(actor); err != nil {
		return nil, err
	}

	users, total, err := s.userRepo.ListAll(ctx, page, size)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, dto.MapUserToResponse(u))
	}
	return &dto.PagedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// CreateUser provisions a staff or admin account.
func (s *adminServiceImpl) CreateUser(ctx context.Context, actor models.Actor, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := s.authzService.ValidateAdmin(actor); err != nil {
		return nil, err
	}

	role, ok := models.ParseRoleType(req.Role)
	if !ok {
		return nil, apperrors.NewValidationError("role must be STUDENT, STAFF or ADMIN")
	}
	if !validation.IsValidEmail(req.Email) {
		return nil, apperrors.ErrInvalidEmail
	}
	if !validation.IsValidPassword(req.Password) {
		return nil, apperrors.ErrInvalidPassword
	}
	if !validation.IsValidName(req.FirstName) || !validation.IsValidName(req.LastName) {
		return nil, apperrors.NewValidationError("first and last name are required")
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hash,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		RoleType:  role,
		IsActive:  true,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("userID", user.ID).
		Str("role", string(role)).
		Int64("adminID", actor.ID).
		Msg("User account created")
	return dto.MapUserToResponse(user), nil
}

// DeleteUser removes an account. Admins cannot delete themselves, and
// the last admin account is protected.
func (s *adminServiceImpl) DeleteUser(ctx context.Context, actor models.Actor, userID int64) error {
	if err := s.authzService.ValidateAdmin(actor); err != nil {
		return err
	}
	if userID == actor.ID {
		return apperrors.ErrSelfDeletion
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.RoleType == models.RoleAdmin {
		admins, err := s.userRepo.CountByRole(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return apperrors.ErrLastAdmin
		}
	}

	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", userID).Int64("adminID", actor.ID).Msg("User account deleted")
	return nil
}
