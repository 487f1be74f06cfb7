package services

import (
	"context"
	"time"

	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/pkg/events"
	"github.com/stretchr/testify/mock"
)

// MockRequestRepository
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, request *models.Request, firstEntry *models.TimelineEntry) (int64, error) {
	args := m.Called(ctx, request, firstEntry)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockRequestRepository) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}
func (m *MockRequestRepository) ListByStudent(ctx context.Context, studentID int64, filter dto.RequestFilter) ([]*models.Request, int64, error) {
	args := m.Called(ctx, studentID, filter)
	return args.Get(0).([]*models.Request), args.Get(1).(int64), args.Error(2)
}
func (m *MockRequestRepository) ListByAssignee(ctx context.Context, staffID int64, filter dto.RequestFilter) ([]*models.Request, int64, error) {
	args := m.Called(ctx, staffID, filter)
	return args.Get(0).([]*models.Request), args.Get(1).(int64), args.Error(2)
}
func (m *MockRequestRepository) ListAll(ctx context.Context, filter dto.RequestFilter) ([]*models.Request, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Request), args.Get(1).(int64), args.Error(2)
}
func (m *MockRequestRepository) ApplyTransition(ctx context.Context, requestID int64, expectedVersion int64, newStatus models.RequestStatus, rejectionReason *string, entry *models.TimelineEntry) error {
	args := m.Called(ctx, requestID, expectedVersion, newStatus, rejectionReason, entry)
	return args.Error(0)
}
func (m *MockRequestRepository) UpdateContent(ctx context.Context, request *models.Request, expectedVersion int64, entry *models.TimelineEntry) error {
	args := m.Called(ctx, request, expectedVersion, entry)
	return args.Error(0)
}
func (m *MockRequestRepository) SetAssignee(ctx context.Context, requestID int64, expectedVersion int64, staffID int64) error {
	args := m.Called(ctx, requestID, expectedVersion, staffID)
	return args.Error(0)
}
func (m *MockRequestRepository) Snapshot(ctx context.Context) ([]*models.Request, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Request), args.Error(1)
}
func (m *MockRequestRepository) ListOverdue(ctx context.Context, today time.Time) ([]*models.Request, error) {
	args := m.Called(ctx, today)
	return args.Get(0).([]*models.Request), args.Error(1)
}

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepository) ListByRole(ctx context.Context, role models.RoleType) ([]*models.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]*models.User), args.Error(1)
}
func (m *MockUserRepository) ListAll(ctx context.Context, page, size int) ([]*models.User, int64, error) {
	args := m.Called(ctx, page, size)
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}
func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepository) CountByRole(ctx context.Context, role models.RoleType) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *models.Notification) (int64, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationRepository) CreateBatch(ctx context.Context, ns []*models.Notification) error {
	args := m.Called(ctx, ns)
	return args.Error(0)
}
func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID int64, page, size int) ([]*models.Notification, int64, error) {
	args := m.Called(ctx, userID, page, size)
	return args.Get(0).([]*models.Notification), args.Get(1).(int64), args.Error(2)
}
func (m *MockNotificationRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockDocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *models.DocumentRef) (int64, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockDocumentRepository) GetByID(ctx context.Context, id int64) (*models.DocumentRef, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DocumentRef), args.Error(1)
}
func (m *MockDocumentRepository) ListByRequest(ctx context.Context, requestID int64) ([]*models.DocumentRef, error) {
	args := m.Called(ctx, requestID)
	return args.Get(0).([]*models.DocumentRef), args.Error(1)
}

// MockTokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	args := m.Called(ctx, token, userID, expiryDate)
	return args.Error(0)
}
func (m *MockTokenRepository) GetTokenByValue(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockTokenRepository) RevokeToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
func (m *MockTokenRepository) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockAdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) DataSummary(ctx context.Context) (*dto.DataSummaryResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DataSummaryResponse), args.Error(1)
}
func (m *MockAdminRepository) ClearAllData(ctx context.Context) (*dto.ClearDataResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ClearDataResponse), args.Error(1)
}

// MockNotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) NotifyRequestCreated(ctx context.Context, request *models.Request) {
	m.Called(ctx, request)
}
func (m *MockNotificationService) NotifyTransition(ctx context.Context, request *models.Request, newStatus models.RequestStatus, actor models.Actor) {
	m.Called(ctx, request, newStatus, actor)
}
func (m *MockNotificationService) NotifyAssignment(ctx context.Context, request *models.Request, staffID int64, actor models.Actor) {
	m.Called(ctx, request, staffID, actor)
}
func (m *MockNotificationService) NotifyDocumentUploaded(ctx context.Context, request *models.Request, doc *models.DocumentRef, actor models.Actor) {
	m.Called(ctx, request, doc, actor)
}
func (m *MockNotificationService) List(ctx context.Context, userID int64, page, size int) (*dto.PagedResponse, error) {
	args := m.Called(ctx, userID, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PagedResponse), args.Error(1)
}
func (m *MockNotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
