package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/middleware"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/usecase"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

func runBlacklist(t *testing.T, repo *MockBlacklistRepository) (error, bool) {
	t.Helper()
	security := new(MockSecurityLogRepository)
	security.On("Insert", mock.Anything, mock.Anything).Return(nil).Maybe()

	cfg := middleware.BlacklistConfig{
		Blacklist: repo,
		Audit:     usecase.NewAuditService(security, new(MockErrorLogRepository), zap.NewNop()),
		Logger:    zap.NewNop(),
	}

	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	return middleware.IPBlacklist(cfg)(next)(c), called
}

func TestIPBlacklist_AllowsUnlistedIP(t *testing.T) {
	repo := new(MockBlacklistRepository)
	repo.On("FindEffective", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	err, called := runBlacklist(t, repo)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestIPBlacklist_BlocksListedIP(t *testing.T) {
	repo := new(MockBlacklistRepository)
	expires := time.Now().Add(time.Hour)
	repo.On("FindEffective", mock.Anything, mock.Anything, mock.Anything).
		Return(&model.IpBlacklistEntry{IP: "192.0.2.1", Reason: "abuse", ExpiresAt: &expires}, nil)

	err, called := runBlacklist(t, repo)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrBlacklistedIPBlocked, apperrors.CodeOf(err))
	assert.False(t, called)
}

func TestIPBlacklist_FailsOpenOnStoreError(t *testing.T) {
	repo := new(MockBlacklistRepository)
	repo.On("FindEffective", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.New("store down"))

	err, called := runBlacklist(t, repo)
	require.NoError(t, err)
	assert.True(t, called)
}
