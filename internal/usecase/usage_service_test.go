package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
)

func newUsageFixture(now time.Time) (*UsageService, *MockApiLogRepository, *MockUserRepository) {
	apiLogRepo := new(MockApiLogRepository)
	userRepo := new(MockUserRepository)
	svc := NewUsageService(apiLogRepo, userRepo, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc, apiLogRepo, userRepo
}

func TestMonthWindow(t *testing.T) {
	from, to := MonthWindow(time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), to)

	// December rolls into the next year.
	from, to = MonthWindow(time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestUsageInfo_Allowed(t *testing.T) {
	assert.True(t, UsageInfo{Current: 999, Limit: 1000}.Allowed())
	assert.False(t, UsageInfo{Current: 1000, Limit: 1000}.Allowed())
	assert.False(t, UsageInfo{Current: 1001, Limit: 1000}.Allowed())
	// Zero limit means unlimited.
	assert.True(t, UsageInfo{Current: 123456, Limit: 0}.Allowed())
}

func TestUsageService_Check(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	from, to := MonthWindow(now)
	userID := uuid.New()

	t.Run("basic plan request ceiling", func(t *testing.T) {
		svc, apiLogRepo, _ := newUsageFixture(now)
		apiLogRepo.On("CountApiRequests", mock.Anything, userID.String(), from, to).
			Return(int64(1000), nil)

		info, err := svc.Check(context.Background(), userID.String(), model.PlanBasic, UsageRequests)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), info.Current)
		assert.Equal(t, 1000, info.Limit)
		assert.False(t, info.Allowed())
	})

	t.Run("pro plan project ceiling", func(t *testing.T) {
		svc, apiLogRepo, _ := newUsageFixture(now)
		apiLogRepo.On("CountProjectCreations", mock.Anything, userID.String(), from, to).
			Return(int64(3), nil)

		info, err := svc.Check(context.Background(), userID.String(), model.PlanPro, UsageProjects)
		require.NoError(t, err)
		assert.Equal(t, int64(3), info.Current)
		assert.Equal(t, 10, info.Limit)
		assert.True(t, info.Allowed())
	})

	t.Run("enterprise skips the store entirely", func(t *testing.T) {
		svc, apiLogRepo, _ := newUsageFixture(now)

		info, err := svc.Check(context.Background(), userID.String(), model.PlanEnterprise, UsageRequests)
		require.NoError(t, err)
		assert.True(t, info.Allowed())
		apiLogRepo.AssertNotCalled(t, "CountApiRequests", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("username resolves through the users table", func(t *testing.T) {
		svc, apiLogRepo, userRepo := newUsageFixture(now)
		user := &model.User{ID: userID, Username: "bob"}
		userRepo.On("GetByUsername", mock.Anything, "bob").Return(user, nil)
		apiLogRepo.On("CountApiRequests", mock.Anything, userID.String(), from, to).
			Return(int64(12), nil)

		info, err := svc.Check(context.Background(), "bob", model.PlanBasic, UsageRequests)
		require.NoError(t, err)
		assert.Equal(t, int64(12), info.Current)
	})

	t.Run("unknown principal is allowed", func(t *testing.T) {
		svc, apiLogRepo, userRepo := newUsageFixture(now)
		userRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)

		info, err := svc.Check(context.Background(), "ghost", model.PlanBasic, UsageRequests)
		require.NoError(t, err)
		assert.Equal(t, int64(0), info.Current)
		assert.True(t, info.Allowed())
		apiLogRepo.AssertNotCalled(t, "CountApiRequests", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUsageService_ResolvePrincipalID(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _, userRepo := newUsageFixture(now)

	id := uuid.New()
	got, err := svc.ResolvePrincipalID(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, id.String(), got)
	userRepo.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)

	got, err = svc.ResolvePrincipalID(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
