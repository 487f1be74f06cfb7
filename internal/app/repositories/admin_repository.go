package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/db"
	"github.com/kerem/doctrack/internal/pkg/logger"
)

// AdminRepository handles admin-wide data operations
type AdminRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// DataSummary returns row counts across the main tables
func (r *AdminRepository) DataSummary(ctx context.Context) (*dto.DataSummaryResponse, error) {
	var summary dto.DataSummaryResponse

	counts := []struct {
		query squirrel.SelectBuilder
		dest  *int64
	}{
		{r.sb.Select("COUNT(*)").From("requests"), &summary.RequestCount},
		{r.sb.Select("COUNT(*)").From("notifications"), &summary.NotificationCount},
		{r.sb.Select("COUNT(*)").From("users"), &summary.UserCount},
		{r.sb.Select("COUNT(*)").From("users").Where(squirrel.Eq{"role_type": models.RoleAdmin}), &summary.AdminCount},
	}

	for _, c := range counts {
		sql, args, err := c.query.ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build summary query: %w", err)
		}
		if err := r.db.QueryRow(ctx, sql, args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("error computing data summary: %w", err)
		}
	}
	return &summary, nil
}

// ClearAllData deletes all requests (timeline entries and documents
// cascade), all notifications, and every non-admin user together with
// their refresh tokens, in one transaction. Admin accounts survive.
func (r *AdminRepository) ClearAllData(ctx context.Context) (*dto.ClearDataResponse, error) {
	var result dto.ClearDataResponse

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		deleteRequests, args, err := r.sb.Delete("requests").ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete requests query: %w", err)
		}
		cmdTag, err := tx.Exec(ctx, deleteRequests, args...)
		if err != nil {
			return fmt.Errorf("error deleting requests: %w", err)
		}
		result.RequestsDeleted = cmdTag.RowsAffected()

		deleteNotifications, args, err := r.sb.Delete("notifications").ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete notifications query: %w", err)
		}
		cmdTag, err = tx.Exec(ctx, deleteNotifications, args...)
		if err != nil {
			return fmt.Errorf("error deleting notifications: %w", err)
		}
		result.NotificationsDeleted = cmdTag.RowsAffected()

		revokeTokens, args, err := r.sb.Delete("refresh_tokens").
			Where(squirrel.Expr("user_id IN (SELECT id FROM users WHERE role_type <> ?)", models.RoleAdmin)).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete tokens query: %w", err)
		}
		if _, err := tx.Exec(ctx, revokeTokens, args...); err != nil {
			return fmt.Errorf("error deleting refresh tokens: %w", err)
		}

		deleteUsers, args, err := r.sb.Delete("users").
			Where(squirrel.NotEq{"role_type": models.RoleAdmin}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete users query: %w", err)
		}
		cmdTag, err = tx.Exec(ctx, deleteUsers, args...)
		if err != nil {
			return fmt.Errorf("error deleting users: %w", err)
		}
		result.UsersDeleted = cmdTag.RowsAffected()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Warn().
		Int64("requests", result.RequestsDeleted).
		Int64("notifications", result.NotificationsDeleted).
		Int64("users", result.UsersDeleted).
		Msg("All application data cleared")
	return &result, nil
}
