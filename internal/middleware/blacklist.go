package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainRepo "github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/usecase"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

// BlacklistConfig holds the dependencies of the IP blocklist middleware.
type BlacklistConfig struct {
	Blacklist domainRepo.BlacklistRepository
	Audit     *usecase.AuditService
	Logger    *zap.Logger
}

// IPBlacklist rejects requests from blocked IPs before anything else runs.
// A store failure lets traffic through; the blocklist is a screen, not a
// dependency the whole API dies with.
func IPBlacklist(cfg BlacklistConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			entry, err := cfg.Blacklist.FindEffective(c.Request().Context(), ip, time.Now())
			if err != nil {
				cfg.Logger.Error("Blacklist lookup failed", zap.String("ip", ip), zap.Error(err))
				return next(c)
			}
			if entry == nil {
				return next(c)
			}

			cfg.Audit.RecordSecurityEvent(usecase.SecurityEvent{
				IP:      ip,
				Method:  c.Request().Method,
				Path:    c.Request().URL.Path,
				Type:    apperrors.ErrBlacklistedIPBlocked,
				Details: entry.Reason,
			})
			return apperrors.NewAppError(apperrors.ErrBlacklistedIPBlocked, entry.Reason, nil)
		}
	}
}
