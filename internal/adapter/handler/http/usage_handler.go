package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/middleware"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/usecase"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

// UsageHandler reports the caller's consumption against their plan.
type UsageHandler struct {
	usage *usecase.UsageService
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(usage *usecase.UsageService) *UsageHandler {
	return &UsageHandler{usage: usage}
}

// GetUsage handles GET /api/usage.
func (h *UsageHandler) GetUsage(c echo.Context) error {
	p := middleware.PrincipalFrom(c)
	if p.Anonymous || p.Username == "" {
		return apperrors.NewAppError(apperrors.ErrUnauthorized, "Authentication required", nil)
	}

	ctx := c.Request().Context()
	projects, err := h.usage.Check(ctx, p.Username, p.Plan, usecase.UsageProjects)
	if err != nil {
		return err
	}
	requests, err := h.usage.Check(ctx, p.Username, p.Plan, usecase.UsageRequests)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"plan": p.Plan,
		"projects": echo.Map{
			"current": projects.Current,
			"limit":   projects.Limit,
		},
		"requests": echo.Map{
			"current": requests.Current,
			"limit":   requests.Limit,
		},
	})
}
