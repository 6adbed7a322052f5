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
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

func runErrorHandler(t *testing.T, err error, production bool) *httptest.ResponseRecorder {
	t.Helper()
	security := new(MockSecurityLogRepository)
	security.On("Insert", mock.Anything, mock.Anything).Return(nil).Maybe()
	errorLogs := new(MockErrorLogRepository)
	errorLogs.On("Insert", mock.Anything, mock.Anything).Return(nil).Maybe()

	handler := middleware.NewHTTPErrorHandler(middleware.ErrorHandlerConfig{
		Audit:        usecase.NewAuditService(security, errorLogs, zap.NewNop()),
		Logger:       zap.NewNop(),
		IsProduction: production,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-123")

	handler(err, c)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHTTPErrorHandler_AppError(t *testing.T) {
	rec := runErrorHandler(t,
		apperrors.NewAppError(apperrors.ErrRateLimitExceeded, "Too many requests", nil), false)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, apperrors.ErrRateLimitExceeded, body["error"])
	assert.Equal(t, "Too many requests", body["message"])
	assert.Equal(t, "req-123", body["requestId"])
}

func TestHTTPErrorHandler_EchoNotFound(t *testing.T) {
	rec := runErrorHandler(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"), false)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apperrors.ErrNotFound, body["error"])
}

func TestHTTPErrorHandler_UnexpectedError(t *testing.T) {
	t.Run("development exposes the message", func(t *testing.T) {
		rec := runErrorHandler(t, apperrors.New("pq: connection refused"), false)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, apperrors.ErrServerError, body["error"])
	})

	t.Run("production answers with a generic message", func(t *testing.T) {
		rec := runErrorHandler(t, apperrors.New("pq: connection refused"), true)

		body := decodeBody(t, rec)
		assert.Equal(t, "Internal server error", body["message"])
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}
