package middleware

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/config"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	domainRepo "github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/usecase"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

// SensitivePaths get the stricter per-identifier bucket.
var SensitivePaths = []string{"/auth/login", "/auth/register", "/password/reset"}

func isSensitivePath(path string) bool {
	for _, p := range SensitivePaths {
		if path == p {
			return true
		}
	}
	return false
}

// RateLimitConfig holds the dependencies of the rate limiter.
type RateLimitConfig struct {
	Security  config.SecurityConfig
	ApiLogs   domainRepo.ApiLogRepository
	Blacklist domainRepo.BlacklistRepository
	Audit     *usecase.AuditService
	Logger    *zap.Logger
}

// RateLimit enforces two sliding windows counted over api_logs: a general
// per-IP bucket and a stricter per-identifier bucket on sensitive paths.
// Sustained abuse of a sensitive path earns a temporary blocklist entry.
// Count failures fail open.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ip := c.RealIP()
			now := time.Now()

			count, err := cfg.ApiLogs.CountByIPSince(req.Context(), ip, now.Add(-cfg.Security.GeneralRateWindow))
			if err != nil {
				cfg.Logger.Error("Rate limit count failed", zap.String("ip", ip), zap.Error(err))
			} else if count >= int64(cfg.Security.GeneralRateLimit) {
				return apperrors.NewAppError(apperrors.ErrRateLimitExceeded,
					"Too many requests, please try again later", nil)
			}

			if !isSensitivePath(req.URL.Path) {
				return next(c)
			}

			identifier := CallerIdentifier(c)
			if identifier == "" {
				identifier = ip
			}
			count, err = cfg.ApiLogs.CountByIdentifierSince(req.Context(), identifier,
				SensitivePaths, now.Add(-cfg.Security.AuthRateWindow))
			if err != nil {
				cfg.Logger.Error("Rate limit count failed", zap.String("identifier", identifier), zap.Error(err))
				return next(c)
			}
			if count < int64(cfg.Security.AuthRateLimit) {
				return next(c)
			}

			if count >= 2*int64(cfg.Security.AuthRateLimit) {
				expires := now.Add(cfg.Security.TempBlacklistTTL)
				entry := &model.IpBlacklistEntry{
					IP:        ip,
					Reason:    "Sustained rate limit abuse on authentication endpoints",
					CreatedBy: "rate-limiter",
					ExpiresAt: &expires,
				}
				if err := cfg.Blacklist.Insert(req.Context(), entry); err != nil {
					cfg.Logger.Error("Failed to insert temporary blacklist entry",
						zap.String("ip", ip), zap.Error(err))
				}
				cfg.Audit.RecordSecurityEvent(usecase.SecurityEvent{
					IP:      ip,
					Method:  req.Method,
					Path:    req.URL.Path,
					Type:    apperrors.ErrRateLimitExceeded,
					Details: fmt.Sprintf("Identifier %q made %d sensitive requests in the window; temporary block applied", identifier, count),
				})
			}

			return apperrors.NewAppError(apperrors.ErrRateLimitExceeded,
				"Too many authentication attempts, please try again later", nil)
		}
	}
}
