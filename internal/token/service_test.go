package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/config"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/token"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

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

func newService(repo *MockRefreshTokenRepository, accessTTL time.Duration) *token.Service {
	return token.NewService(config.JWTConfig{
		Secret:     "unit-test-secret",
		AccessTTL:  accessTTL,
		RefreshTTL: 7 * 24 * time.Hour,
	}, repo, nil, zap.NewNop())
}

func TestService_AccessTokenRoundTrip(t *testing.T) {
	svc := newService(new(MockRefreshTokenRepository), time.Hour)

	signed, err := svc.GenerateAccessToken("alice")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, token.TypeAccess, claims.TokenType)
}

func TestService_ExpiredAccessToken(t *testing.T) {
	svc := newService(new(MockRefreshTokenRepository), -time.Minute)

	signed, err := svc.GenerateAccessToken("alice")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(context.Background(), signed)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err))
}

func TestService_RefreshTokenNotValidAsAccess(t *testing.T) {
	repo := new(MockRefreshTokenRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := newService(repo, time.Hour)

	refresh, err := svc.GenerateRefreshToken(context.Background(), "alice")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(context.Background(), refresh)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err))
}

func TestService_TamperedToken(t *testing.T) {
	svc := newService(new(MockRefreshTokenRepository), time.Hour)

	signed, err := svc.GenerateAccessToken("alice")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(context.Background(), signed+"x")
	assert.Error(t, err)
}

func TestService_Refresh(t *testing.T) {
	repo := new(MockRefreshTokenRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := newService(repo, time.Hour)

	refresh, err := svc.GenerateRefreshToken(context.Background(), "alice")
	require.NoError(t, err)

	t.Run("valid refresh token yields new access token", func(t *testing.T) {
		repo.On("GetByToken", mock.Anything, refresh).Return(&model.RefreshToken{
			Username:  "alice",
			Token:     refresh,
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil).Once()

		access, err := svc.Refresh(context.Background(), refresh)
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(context.Background(), access)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
	})

	t.Run("revoked refresh token is rejected", func(t *testing.T) {
		repo.On("GetByToken", mock.Anything, refresh).Return(&model.RefreshToken{
			Username:  "alice",
			Token:     refresh,
			Revoked:   true,
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil).Once()

		_, err := svc.Refresh(context.Background(), refresh)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err))
	})

	t.Run("unknown refresh token is rejected", func(t *testing.T) {
		repo.On("GetByToken", mock.Anything, refresh).Return(nil, nil).Once()

		_, err := svc.Refresh(context.Background(), refresh)
		assert.Error(t, err)
	})
}
