package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	domainRepo "github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/gateway/epoint"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/infrastructure/oauth"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) RecordFailedLogin(ctx context.Context, username string, now time.Time) (*model.User, error) {
	args := m.Called(ctx, username, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) RecordSuccessfulLogin(ctx context.Context, username string, now time.Time) error {
	args := m.Called(ctx, username, now)
	return args.Error(0)
}

func (m *MockUserRepository) Unlock(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	args := m.Called(ctx, username, passwordHash)
	return args.Error(0)
}

// MockRefreshTokenRepository is a mock implementation of RefreshTokenRepository
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, t *model.RefreshToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) GetByToken(ctx context.Context, tok string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tok)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, tok string) error {
	args := m.Called(ctx, tok)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

// MockPasswordResetRepository is a mock implementation of PasswordResetRepository
type MockPasswordResetRepository struct {
	mock.Mock
}

func (m *MockPasswordResetRepository) Create(ctx context.Context, t *model.PasswordResetToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) GetValid(ctx context.Context, tok string, now time.Time) (*model.PasswordResetToken, error) {
	args := m.Called(ctx, tok, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PasswordResetToken), args.Error(1)
}

func (m *MockPasswordResetRepository) MarkUsed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSecurityLogRepository is a mock implementation of SecurityLogRepository
type MockSecurityLogRepository struct {
	mock.Mock
}

func (m *MockSecurityLogRepository) Insert(ctx context.Context, log *model.SecurityLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockSecurityLogRepository) CountByIPAndTypeSince(ctx context.Context, ip, eventType string, since time.Time) (int64, error) {
	args := m.Called(ctx, ip, eventType, since)
	return args.Get(0).(int64), args.Error(1)
}

// MockErrorLogRepository is a mock implementation of ErrorLogRepository
type MockErrorLogRepository struct {
	mock.Mock
}

func (m *MockErrorLogRepository) Insert(ctx context.Context, log *model.ErrorLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

// MockApiLogRepository is a mock implementation of ApiLogRepository
type MockApiLogRepository struct {
	mock.Mock
}

func (m *MockApiLogRepository) Insert(ctx context.Context, log *model.ApiLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockApiLogRepository) CountByIPSince(ctx context.Context, ip string, since time.Time) (int64, error) {
	args := m.Called(ctx, ip, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApiLogRepository) CountByIdentifierSince(ctx context.Context, identifier string, endpoints []string, since time.Time) (int64, error) {
	args := m.Called(ctx, identifier, endpoints, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApiLogRepository) CountProjectCreations(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApiLogRepository) CountApiRequests(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

// MockPlanRepository is a mock implementation of PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) ListActive(ctx context.Context) ([]model.PaymentPlan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.PaymentPlan), args.Error(1)
}

func (m *MockPlanRepository) GetByPlanID(ctx context.Context, planID string) (*model.PaymentPlan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentPlan), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.PaymentOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*model.PaymentOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentOrder), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.PaymentOrder, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.PaymentOrder), args.Error(1)
}

func (m *MockOrderRepository) Finalize(ctx context.Context, orderID string, success bool, transactionID string, payload datatypes.JSON, expiration time.Time) (*domainRepo.FinalizeResult, error) {
	args := m.Called(ctx, orderID, success, transactionID, payload, expiration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainRepo.FinalizeResult), args.Error(1)
}

// MockSubscriptionRepository is a mock implementation of SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) GetActive(ctx context.Context, userID uuid.UUID, apiID *string, now time.Time) (*model.UserSubscription, error) {
	args := m.Called(ctx, userID, apiID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSubscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserSubscription, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.UserSubscription), args.Error(1)
}

func (m *MockSubscriptionRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockGateway is a mock implementation of PaymentGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreatePayment(ctx context.Context, req *epoint.PaymentRequest) (*epoint.PaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*epoint.PaymentResponse), args.Error(1)
}

func (m *MockGateway) CheckStatus(ctx context.Context, transactionID string) (*epoint.StatusResponse, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*epoint.StatusResponse), args.Error(1)
}

func (m *MockGateway) DecodeCallback(env *epoint.Envelope) (*epoint.Callback, error) {
	args := m.Called(env)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*epoint.Callback), args.Error(1)
}

// MockMailSender is a mock implementation of MailSender
type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

// MockGoogleVerifier is a mock implementation of GoogleVerifier
type MockGoogleVerifier struct {
	mock.Mock
}

func (m *MockGoogleVerifier) FetchUserInfo(ctx context.Context, accessToken string) (*oauth.GoogleUserInfo, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.GoogleUserInfo), args.Error(1)
}
