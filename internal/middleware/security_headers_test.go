package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/middleware"
)

func runSecurityHeaders(t *testing.T, production bool) http.Header {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/payment/plans", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	handler := middleware.SecurityHeaders(production)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec.Header()
}

func TestSecurityHeaders(t *testing.T) {
	h := runSecurityHeaders(t, false)
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "cross-origin", h.Get("Cross-Origin-Resource-Policy"))

	// Cross-origin API clients embed responses freely; no frame restriction
	// and no HSTS outside production.
	assert.Empty(t, h.Get("X-Frame-Options"))
	assert.Empty(t, h.Get("Strict-Transport-Security"))

	h = runSecurityHeaders(t, true)
	assert.Equal(t, "max-age=31536000; includeSubDomains", h.Get("Strict-Transport-Security"))
}
