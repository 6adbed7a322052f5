package middleware_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
)

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

// MockBlacklistRepository is a mock implementation of BlacklistRepository
type MockBlacklistRepository struct {
	mock.Mock
}

func (m *MockBlacklistRepository) FindEffective(ctx context.Context, ip string, now time.Time) (*model.IpBlacklistEntry, error) {
	args := m.Called(ctx, ip, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IpBlacklistEntry), args.Error(1)
}

func (m *MockBlacklistRepository) Insert(ctx context.Context, entry *model.IpBlacklistEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockBlacklistRepository) List(ctx context.Context) ([]model.IpBlacklistEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.IpBlacklistEntry), args.Error(1)
}

func (m *MockBlacklistRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBlacklistRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
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
