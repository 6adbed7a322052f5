// Package http contains the echo route handlers.
package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/middleware"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/usecase"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

// AuthHandler exposes registration, login and the password reset flow.
type AuthHandler struct {
	auth   *usecase.AuthUsecase
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *usecase.AuthUsecase, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return apperrors.NewAppError(apperrors.ErrBadRequest, "Invalid request payload", err)
	}

	user, err := h.auth.Register(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":  true,
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return apperrors.NewAppError(apperrors.ErrBadRequest, "Invalid request payload", err)
	}

	pair, err := h.auth.Login(c.Request().Context(), input, c.RealIP())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pair)
}

// GoogleLogin handles POST /auth/google-login.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var input usecase.GoogleLoginInput
	if err := c.Bind(&input); err != nil {
		return apperrors.NewAppError(apperrors.ErrBadRequest, "Invalid request payload", err)
	}

	pair, err := h.auth.GoogleLogin(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pair)
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var input struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&input); err != nil || input.RefreshToken == "" {
		return apperrors.NewAppError(apperrors.ErrBadRequest, "refreshToken is required", err)
	}

	access, err := h.auth.Refresh(c.Request().Context(), input.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"accessToken": access})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	var input struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&input); err != nil {
		return apperrors.NewAppError(apperrors.ErrBadRequest, "Invalid request payload", err)
	}

	if err := h.auth.Logout(c.Request().Context(), middleware.AccessTokenFrom(c), input.RefreshToken); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// RequestPasswordReset handles POST /password/reset.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&input); err != nil || input.Email == "" {
		return apperrors.NewAppError(apperrors.ErrBadRequest, "email is required", err)
	}

	if err := h.auth.RequestPasswordReset(c.Request().Context(), input.Email); err != nil {
		// The caller learns nothing about whether the address exists.
		h.logger.Error("Password reset request failed", zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "If the email is registered, a reset link has been sent",
	})
}

// ConfirmPasswordReset handles POST /password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c echo.Context) error {
	var input struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.Bind(&input); err != nil || input.Token == "" {
		return apperrors.NewAppError(apperrors.ErrBadRequest, "token and password are required", err)
	}

	if err := h.auth.ConfirmPasswordReset(c.Request().Context(), input.Token, input.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
