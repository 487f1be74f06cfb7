package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	appModels "github.com/kerem/doctrack/internal/app/models"
	appRepos "github.com/kerem/doctrack/internal/app/repositories"
	"github.com/kerem/doctrack/internal/config"
	pkgAuth "github.com/kerem/doctrack/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// CreateDefaultData ensures at least one admin account exists so the
// system is administrable on first boot. Existing accounts are left
// untouched.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	adminCount, err := userRepo.CountByRole(ctx, appModels.RoleAdmin)
	if err != nil {
		return err
	}
	if adminCount > 0 {
		lgr.Debug().Int64("admins", adminCount).Msg("Admin account present, skipping seed")
		return nil
	}

	email := cfg.Seed.AdminEmail
	password := cfg.Seed.AdminPassword
	if email == "" || password == "" {
		return errors.New("no admin account exists and seed credentials are not configured")
	}

	hash, err := pkgAuth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &appModels.User{
		Email:     email,
		Password:  hash,
		FirstName: "System",
		LastName:  "Administrator",
		RoleType:  appModels.RoleAdmin,
		IsActive:  true,
	}
	if _, err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	lgr.Info().Str("email", email).Msg("Default admin account created")
	return nil
}
