package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/usecase"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

// SchemaCreationPath is the endpoint whose successful POSTs count as project
// creations.
const SchemaCreationPath = "/create-api-from-schema"

// unmeteredAPIPrefixes are /api/ routes that belong to the platform itself
// rather than to user-created APIs.
var unmeteredAPIPrefixes = []string{"/api/payment", "/api/epoint", "/api/email", "/api/user", "/api/admin", "/api/usage"}

// IsMeteredAPIRequest reports whether the path addresses a user-created API
// and therefore counts against the monthly request allowance.
func IsMeteredAPIRequest(path string) bool {
	if !strings.HasPrefix(path, "/api/") {
		return false
	}
	for _, prefix := range unmeteredAPIPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return false
		}
	}
	return true
}

// UsageConfig holds the dependencies of the usage guard.
type UsageConfig struct {
	Usage  *usecase.UsageService
	Logger *zap.Logger
}

// UsageGuard enforces plan ceilings before metered handlers run. The count
// itself advances through the api_logs row the response logger writes, so
// there is no separate increment to lose. Check failures fail open.
func UsageGuard(cfg UsageConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			var kind usecase.UsageKind
			switch {
			case req.Method == http.MethodPost && strings.HasSuffix(path, SchemaCreationPath):
				kind = usecase.UsageProjects
			case IsMeteredAPIRequest(path):
				kind = usecase.UsageRequests
			default:
				return next(c)
			}

			identifier := CallerIdentifier(c)
			if identifier == "" {
				return next(c)
			}

			info, err := cfg.Usage.Check(req.Context(), identifier, PrincipalFrom(c).Plan, kind)
			if err != nil {
				cfg.Logger.Error("Usage check failed",
					zap.String("identifier", identifier), zap.Error(err))
				return next(c)
			}
			if !info.Allowed() {
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false,
					"error":   apperrors.ErrPlanUpgradeRequired,
					"message": "Plan limit reached",
					"current": info.Current,
					"limit":   info.Limit,
					"plan":    info.Plan,
				})
			}

			return next(c)
		}
	}
}
