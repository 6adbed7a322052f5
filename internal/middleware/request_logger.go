package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	domainRepo "github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/usecase"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

// RequestLoggerConfig holds the dependencies of the response logger.
type RequestLoggerConfig struct {
	ApiLogs domainRepo.ApiLogRepository
	Audit   *usecase.AuditService
	Logger  *zap.Logger
}

// apiIDFromPath extracts the user-API identifier from a metered path like
// /api/<apiId>/rest.
func apiIDFromPath(path string) *string {
	if !IsMeteredAPIRequest(path) {
		return nil
	}
	rest := strings.TrimPrefix(path, "/api/")
	if i := strings.IndexByte(rest, '/'); i > 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return nil
	}
	return &rest
}

// RequestLogger appends an api_logs row for every handled request and emits
// a typed audit record for error responses. The row feeds the rate limiter
// and the usage accountant, so it is written even when the handler failed.
func RequestLogger(cfg RequestLoggerConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Run the error handler now so the logged status is final.
				c.Error(err)
			}

			req := c.Request()
			entry := &model.ApiLog{
				Timestamp:      start,
				IP:             c.RealIP(),
				XAuthUserID:    CallerIdentifier(c),
				Method:         req.Method,
				Endpoint:       req.URL.Path,
				StatusCode:     c.Response().Status,
				ResponseTimeMs: time.Since(start).Milliseconds(),
				IsApiRequest:   IsMeteredAPIRequest(req.URL.Path),
				ApiID:          apiIDFromPath(req.URL.Path),
			}

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if insertErr := cfg.ApiLogs.Insert(ctx, entry); insertErr != nil {
					cfg.Logger.Error("Failed to record api log",
						zap.String("endpoint", entry.Endpoint), zap.Error(insertErr))
				}
			}()

			if entry.StatusCode >= 400 {
				identifier := entry.XAuthUserID
				var userID *string
				if identifier != "" {
					userID = &identifier
				}
				cfg.Audit.RecordSecurityEvent(usecase.SecurityEvent{
					IP:      entry.IP,
					UserID:  userID,
					Method:  entry.Method,
					Path:    entry.Endpoint,
					Type:    auditTypeForStatus(entry.StatusCode),
					Details: "Request completed with error status",
				})
			}

			return nil
		}
	}
}

func auditTypeForStatus(status int) string {
	switch status {
	case 400:
		return apperrors.ErrBadRequest
	case 401:
		return apperrors.ErrUnauthorized
	case 403:
		return apperrors.ErrForbidden
	case 404:
		return apperrors.ErrNotFound
	case 429:
		return apperrors.ErrRateLimitExceeded
	default:
		return apperrors.ErrServerError
	}
}
