package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/middleware"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/usecase"
)

func TestIsMeteredAPIRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/api/abc123/users", true},
		{"/api/abc123", true},
		{"/api/payment/plans", false},
		{"/api/epoint/callback", false},
		{"/api/email/send", false},
		{"/api/admin/blacklist", false},
		{"/api/usage", false},
		{"/auth/login", false},
		{"/health", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, middleware.IsMeteredAPIRequest(tt.path))
		})
	}
}

func runUsageGuard(t *testing.T, method, target, identifier string, apiLogs *MockApiLogRepository, users *MockUserRepository) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()
	cfg := middleware.UsageConfig{
		Usage:  usecase.NewUsageService(apiLogs, users, zap.NewNop()),
		Logger: zap.NewNop(),
	}

	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}

	req := httptest.NewRequest(method, target, nil)
	if identifier != "" {
		req.Header.Set("x-user-id", identifier)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	err := middleware.UsageGuard(cfg)(next)(c)
	return rec, called, err
}

func TestUsageGuard_RejectsOverRequestLimit(t *testing.T) {
	userID := "0b0e8f7e-8a62-4c3b-9a30-0f6dba2cbb77"
	apiLogs := new(MockApiLogRepository)
	apiLogs.On("CountApiRequests", mock.Anything, userID, mock.Anything, mock.Anything).
		Return(int64(1000), nil)

	rec, called, err := runUsageGuard(t, http.MethodGet, "/api/abc123/users", userID, apiLogs, new(MockUserRepository))
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1000), body["current"])
	assert.Equal(t, float64(1000), body["limit"])
	assert.Equal(t, "basic", body["plan"])
}

func TestUsageGuard_AllowsUnderLimit(t *testing.T) {
	userID := "0b0e8f7e-8a62-4c3b-9a30-0f6dba2cbb77"
	apiLogs := new(MockApiLogRepository)
	apiLogs.On("CountApiRequests", mock.Anything, userID, mock.Anything, mock.Anything).
		Return(int64(10), nil)

	_, called, err := runUsageGuard(t, http.MethodGet, "/api/abc123/users", userID, apiLogs, new(MockUserRepository))
	require.NoError(t, err)
	assert.True(t, called)
}

func TestUsageGuard_SkipsUnmeteredRoutes(t *testing.T) {
	_, called, err := runUsageGuard(t, http.MethodGet, "/api/payment/plans", "alice",
		new(MockApiLogRepository), new(MockUserRepository))
	require.NoError(t, err)
	assert.True(t, called)
}

func TestUsageGuard_AllowsAnonymousCaller(t *testing.T) {
	_, called, err := runUsageGuard(t, http.MethodGet, "/api/abc123/users", "",
		new(MockApiLogRepository), new(MockUserRepository))
	require.NoError(t, err)
	assert.True(t, called)
}

func TestUsageGuard_ChecksProjectCreation(t *testing.T) {
	userID := "0b0e8f7e-8a62-4c3b-9a30-0f6dba2cbb77"
	apiLogs := new(MockApiLogRepository)
	apiLogs.On("CountProjectCreations", mock.Anything, userID, mock.Anything, mock.Anything).
		Return(int64(2), nil)

	rec, called, err := runUsageGuard(t, http.MethodPost, "/create-api-from-schema", userID,
		apiLogs, new(MockUserRepository))
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
