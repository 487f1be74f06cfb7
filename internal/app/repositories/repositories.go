package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/app/models/dto"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListByRole(ctx context.Context, role models.RoleType) ([]*models.User, error)
	ListAll(ctx context.Context, page, size int) ([]*models.User, int64, error)
	Delete(ctx context.Context, id int64) error
	CountByRole(ctx context.Context, role models.RoleType) (int64, error)
}

// IRequestRepository defines the interface for request persistence. Every
// mutating method that takes an expectedVersion enforces the optimistic
// concurrency check and returns apperrors.ErrConflict on a stale write.
type IRequestRepository interface {
	Create(ctx context.Context, request *models.Request, firstEntry *models.TimelineEntry) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Request, error)
	ListByStudent(ctx context.Context, studentID int64, filter dto.RequestFilter) ([]*models.Request, int64, error)
	ListByAssignee(ctx context.Context, staffID int64, filter dto.RequestFilter) ([]*models.Request, int64, error)
	ListAll(ctx context.Context, filter dto.RequestFilter) ([]*models.Request, int64, error)
	ApplyTransition(ctx context.Context, requestID int64, expectedVersion int64, newStatus models.RequestStatus, rejectionReason *string, entry *models.TimelineEntry) error
	UpdateContent(ctx context.Context, request *models.Request, expectedVersion int64, entry *models.TimelineEntry) error
	SetAssignee(ctx context.Context, requestID int64, expectedVersion int64, staffID int64) error
	Snapshot(ctx context.Context) ([]*models.Request, error)
	ListOverdue(ctx context.Context, today time.Time) ([]*models.Request, error)
}

// INotificationRepository defines the interface for notification storage.
type INotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) (int64, error)
	CreateBatch(ctx context.Context, ns []*models.Notification) error
	ListByUser(ctx context.Context, userID int64, page, size int) ([]*models.Notification, int64, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

// IDocumentRepository defines the interface for document metadata storage.
type IDocumentRepository interface {
	Create(ctx context.Context, doc *models.DocumentRef) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.DocumentRef, error)
	ListByRequest(ctx context.Context, requestID int64) ([]*models.DocumentRef, error)
}

// ITokenRepository defines the interface for refresh token storage.
type ITokenRepository interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

// IAdminRepository defines the interface for admin-wide data operations.
type IAdminRepository interface {
	DataSummary(ctx context.Context) (*dto.DataSummaryResponse, error)
	ClearAllData(ctx context.Context) (*dto.ClearDataResponse, error)
}

// Repositories bundles every repository behind one constructor so the
// bootstrap wiring stays in one place.
type Repositories struct {
	User         *UserRepository
	Request      *RequestRepository
	Notification *NotificationRepository
	Document     *DocumentRepository
	Token        *TokenRepository
	Admin        *AdminRepository
}

// NewRepositories creates all repositories over one shared pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:         NewUserRepository(pool),
		Request:      NewRequestRepository(pool),
		Notification: NewNotificationRepository(pool),
		Document:     NewDocumentRepository(pool),
		Token:        NewTokenRepository(pool),
		Admin:        NewAdminRepository(pool),
	}
}
