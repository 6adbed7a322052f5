package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	domainRepo "github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/token"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/usecase"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

// Principal is the resolved caller identity stashed in the request context.
type Principal struct {
	Username  string
	UserID    string
	Plan      model.Plan
	Anonymous bool
}

const (
	principalContextKey   = "auth_principal"
	accessTokenContextKey = "auth_access_token"
)

// PrincipalFrom returns the principal resolved for the request. The zero
// value is an anonymous caller on a route the classifier never saw.
func PrincipalFrom(c echo.Context) Principal {
	if p, ok := c.Get(principalContextKey).(Principal); ok {
		return p
	}
	return Principal{Anonymous: true, Plan: model.PlanBasic}
}

// AccessTokenFrom returns the raw bearer token of the request, if any.
func AccessTokenFrom(c echo.Context) string {
	if t, ok := c.Get(accessTokenContextKey).(string); ok {
		return t
	}
	return ""
}

// CallerIdentifier returns the best caller identifier for metering. For
// authenticated callers that is the user's UUID, the key api_logs rows are
// written and counted under; otherwise the x-user-id or xauthuserid header,
// otherwise the XAuthUserId query parameter.
func CallerIdentifier(c echo.Context) string {
	if p := PrincipalFrom(c); !p.Anonymous {
		if p.UserID != "" {
			return p.UserID
		}
		if p.Username != "" {
			return p.Username
		}
	}
	if v := c.Request().Header.Get("x-user-id"); v != "" {
		return v
	}
	if v := c.Request().Header.Get("xauthuserid"); v != "" {
		return v
	}
	return c.QueryParam("XAuthUserId")
}

// AuthConfig holds the dependencies of the authentication middleware.
type AuthConfig struct {
	Routes *RouteTable
	Tokens *token.Service
	Users  domainRepo.UserRepository
	Audit  *usecase.AuditService
	Logger *zap.Logger
}

// Authentication classifies the route, verifies bearer tokens on protected
// routes and resolves the caller's plan. Public routes pass through with an
// anonymous principal.
func Authentication(cfg AuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			if cfg.Routes.Classify(req.Method, req.URL.Path) == RoutePublic {
				c.Set(principalContextKey, Principal{Anonymous: true, Plan: model.PlanBasic})
				return next(c)
			}

			authHeader := req.Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return apperrors.NewAppError(apperrors.ErrUnauthorized, "Authentication required", nil)
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || tokenString == "" {
				return apperrors.NewAppError(apperrors.ErrUnauthorized, "Authentication required", nil)
			}

			claims, err := cfg.Tokens.ValidateAccessToken(req.Context(), tokenString)
			if err != nil {
				cfg.Logger.Warn("Access token rejected",
					zap.String("path", req.URL.Path),
					zap.Error(err))
				return err
			}

			principal := Principal{Username: claims.Username, Plan: model.PlanBasic}
			user, err := cfg.Users.GetByUsername(req.Context(), claims.Username)
			if err != nil {
				return err
			}
			if user != nil {
				if user.Locked(time.Now()) {
					cfg.Audit.RecordSecurityEvent(usecase.SecurityEvent{
						IP:      c.RealIP(),
						Method:  req.Method,
						Path:    req.URL.Path,
						Type:    apperrors.ErrLockedAccountAccessAttempt,
						Details: "Authenticated request on locked account",
					})
					return apperrors.NewAppError(apperrors.ErrLockedAccountAccessAttempt,
						"Account is temporarily locked", nil)
				}
				principal.UserID = user.ID.String()
				principal.Plan = user.Plan()
			}

			c.Set(principalContextKey, principal)
			c.Set(accessTokenContextKey, tokenString)
			return next(c)
		}
	}
}
