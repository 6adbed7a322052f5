package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	domainRepo "github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/middleware"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

// AdminHandler manages the IP blocklist.
type AdminHandler struct {
	blacklist domainRepo.BlacklistRepository
	logger    *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(blacklist domainRepo.BlacklistRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{blacklist: blacklist, logger: logger}
}

// ListBlacklist handles GET /api/admin/blacklist.
func (h *AdminHandler) ListBlacklist(c echo.Context) error {
	entries, err := h.blacklist.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "entries": entries})
}

// AddBlacklistEntry handles POST /api/admin/blacklist.
func (h *AdminHandler) AddBlacklistEntry(c echo.Context) error {
	var input struct {
		IP       string `json:"ip"`
		Reason   string `json:"reason"`
		TTLHours int    `json:"ttlHours"`
	}
	if err := c.Bind(&input); err != nil || input.IP == "" {
		return apperrors.NewAppError(apperrors.ErrBadRequest, "ip is required", err)
	}
	if input.Reason == "" {
		input.Reason = "Blocked by administrator"
	}

	entry := &model.IpBlacklistEntry{
		IP:        input.IP,
		Reason:    input.Reason,
		CreatedBy: middleware.PrincipalFrom(c).Username,
	}
	if input.TTLHours > 0 {
		expires := time.Now().Add(time.Duration(input.TTLHours) * time.Hour)
		entry.ExpiresAt = &expires
	}

	if err := h.blacklist.Insert(c.Request().Context(), entry); err != nil {
		return err
	}

	h.logger.Info("Blacklist entry added",
		zap.String("ip", input.IP),
		zap.String("created_by", entry.CreatedBy))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "entry": entry})
}

// RemoveBlacklistEntry handles DELETE /api/admin/blacklist/:id.
func (h *AdminHandler) RemoveBlacklistEntry(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrBadRequest, "Invalid blacklist entry id", err)
	}

	if err := h.blacklist.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	h.logger.Info("Blacklist entry removed", zap.Int64("id", id))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
