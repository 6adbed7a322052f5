package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/usecase"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

// ErrorHandlerConfig holds the dependencies of the central error handler.
type ErrorHandlerConfig struct {
	Audit        *usecase.AuditService
	Logger       *zap.Logger
	IsProduction bool
}

// NewHTTPErrorHandler builds the central echo error handler. Every error
// response carries {success, error, message, requestId}; unexpected failures
// are persisted to error_logs and, in production, answered with a generic
// message.
func NewHTTPErrorHandler(cfg ErrorHandlerConfig) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = c.Request().Header.Get(echo.HeaderXRequestID)
		}

		status := http.StatusInternalServerError
		code := apperrors.ErrServerError
		message := "Internal server error"

		var appErr *apperrors.AppError
		var httpErr *echo.HTTPError
		switch {
		case apperrors.As(err, &appErr):
			code = appErr.Code()
			status = apperrors.ToHTTPStatus(code)
			message = appErr.Message()
		case apperrors.As(err, &httpErr):
			status = httpErr.Code
			switch status {
			case http.StatusNotFound:
				code = apperrors.ErrNotFound
			case http.StatusMethodNotAllowed, http.StatusBadRequest,
				http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
				code = apperrors.ErrBadRequest
			case http.StatusUnauthorized:
				code = apperrors.ErrUnauthorized
			case http.StatusForbidden:
				code = apperrors.ErrForbidden
			}
			message = fmt.Sprintf("%v", httpErr.Message)
		}

		if status >= http.StatusInternalServerError {
			apperrors.LogError(cfg.Logger, err, "Unhandled server error",
				zap.String("request_id", requestID),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path))
			cfg.Audit.RecordError(requestID, c.Request().Method, c.Request().URL.Path,
				err.Error(), string(debug.Stack()), nil)
			if cfg.IsProduction {
				message = "Internal server error"
			}
		}

		body := echo.Map{
			"success":   false,
			"error":     code,
			"message":   message,
			"requestId": requestID,
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			cfg.Logger.Error("Failed to write error response", zap.Error(writeErr))
		}
	}
}
