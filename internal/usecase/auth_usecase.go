package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	domainRepo "github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/infrastructure/oauth"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/token"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

// PasswordResetTTL bounds the lifetime of a mailed reset token.
const PasswordResetTTL = time.Hour

// MailSender delivers transactional email.
type MailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// GoogleVerifier resolves a Google access token to a profile.
type GoogleVerifier interface {
	FetchUserInfo(ctx context.Context, accessToken string) (*oauth.GoogleUserInfo, error)
}

// RegisterInput is the payload for user registration.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=100,alphanum"`
	Email    string `json:"email" validate:"required,email,max=250"`
	Password string `json:"password" validate:"required,min=8,max=250"`
}

// LoginInput is the payload for password login.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginInput is the payload for OAuth login.
type GoogleLoginInput struct {
	Email       string `json:"email" validate:"required,email"`
	AccessToken string `json:"access_token" validate:"required"`
}

// TokenPair is the issued credential set.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
	UserID       string `json:"user_id"`
	Plan         string `json:"plan"`
}

// AuthUsecase implements registration, login with the account lock machine,
// token refresh, OAuth login and the password reset flow.
type AuthUsecase struct {
	userRepo  domainRepo.UserRepository
	resetRepo domainRepo.PasswordResetRepository
	tokens    *token.Service
	google    GoogleVerifier
	mailer    MailSender
	audit     *AuditService
	validate  *validator.Validate
	baseURL   string
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo domainRepo.UserRepository,
	resetRepo domainRepo.PasswordResetRepository,
	tokens *token.Service,
	google GoogleVerifier,
	mailer MailSender,
	audit *AuditService,
	baseURL string,
	logger *zap.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		tokens:    tokens,
		google:    google,
		mailer:    mailer,
		audit:     audit,
		validate:  validator.New(),
		baseURL:   baseURL,
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrBadRequest, validationMessage(err), err)
	}

	existing, err := u.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewAppError(apperrors.ErrBadRequest, "Username is already taken", nil)
	}
	existing, err = u.userRepo.GetByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewAppError(apperrors.ErrBadRequest, "Email is already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:      input.Username,
		Email:         strings.ToLower(input.Email),
		PasswordHash:  string(hash),
		PlanID:        string(model.PlanBasic),
		AccountStatus: model.AccountStatusActive,
		LoginMethod:   model.LoginMethodEmail,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	u.logger.Info("User registered", zap.String("username", user.Username))
	return user, nil
}

// Login verifies credentials and drives the account lock machine. Wrong
// passwords increment the failure counter; the fifth consecutive failure
// locks the account for five minutes. Attempts against a locked account are
// refused with a 403 and audited.
func (u *AuthUsecase) Login(ctx context.Context, input LoginInput, clientIP string) (*TokenPair, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrBadRequest, validationMessage(err), err)
	}

	user, err := u.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "Invalid username or password", nil)
	}

	now := u.now()
	if user.Locked(now) {
		u.audit.RecordSecurityEvent(SecurityEvent{
			IP:      clientIP,
			UserID:  stringPtr(user.ID.String()),
			Method:  "POST",
			Path:    "/auth/login",
			Type:    apperrors.ErrLockedAccountAccessAttempt,
			Details: fmt.Sprintf("Login attempt on locked account %q", user.Username),
		})
		return nil, apperrors.NewAppError(apperrors.ErrLockedAccountAccessAttempt,
			"Account is temporarily locked due to repeated failed logins", nil)
	}
	if user.AccountStatus == model.AccountStatusLocked {
		// Lock window elapsed; reactivate before checking the password.
		if err := u.userRepo.Unlock(ctx, user.Username); err != nil {
			return nil, err
		}
		user.AccountStatus = model.AccountStatusActive
		user.LoginAttempts = 0
		u.logger.Info("Account auto-unlocked",
			zap.String("username", user.Username),
			zap.String("unlocked_by", "system-auto"))
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		updated, recErr := u.userRepo.RecordFailedLogin(ctx, user.Username, now)
		if recErr != nil {
			return nil, recErr
		}
		if updated != nil && updated.AccountStatus == model.AccountStatusLocked {
			u.audit.RecordSecurityEvent(SecurityEvent{
				IP:      clientIP,
				UserID:  stringPtr(user.ID.String()),
				Method:  "POST",
				Path:    "/auth/login",
				Type:    apperrors.ErrLockedAccountAccessAttempt,
				Details: fmt.Sprintf("Account %q locked after %d failed logins", user.Username, model.MaxLoginAttempts),
			})
			return nil, apperrors.NewAppError(apperrors.ErrLockedAccountAccessAttempt,
				"Account is temporarily locked due to repeated failed logins", nil)
		}
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "Invalid username or password", nil)
	}

	if err := u.userRepo.RecordSuccessfulLogin(ctx, user.Username, now); err != nil {
		return nil, err
	}

	return u.issueTokens(ctx, user)
}

// GoogleLogin exchanges a Google access token for a session. The Google
// profile is trusted only when its email matches the email in the request.
// First-time OAuth users are provisioned with a random password.
func (u *AuthUsecase) GoogleLogin(ctx context.Context, input GoogleLoginInput) (*TokenPair, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrBadRequest, validationMessage(err), err)
	}

	info, err := u.google.FetchUserInfo(ctx, input.AccessToken)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(info.Email, input.Email) {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized,
			"Google token does not match the provided email", nil)
	}

	user, err := u.userRepo.GetByGoogleID(ctx, info.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = u.userRepo.GetByEmail(ctx, strings.ToLower(info.Email))
		if err != nil {
			return nil, err
		}
	}

	if user == nil {
		randomSecret, err := randomToken()
		if err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(randomSecret), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user = &model.User{
			Username:      usernameFromEmail(info.Email),
			Email:         strings.ToLower(info.Email),
			PasswordHash:  string(hash),
			PlanID:        string(model.PlanBasic),
			AccountStatus: model.AccountStatusActive,
			GoogleID:      &info.ID,
			EmailVerified: info.VerifiedEmail,
			LoginMethod:   model.LoginMethodGoogle,
		}
		if err := u.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		u.logger.Info("User provisioned via Google", zap.String("username", user.Username))
	} else if user.GoogleID == nil || user.EmailVerified != info.VerifiedEmail {
		user.GoogleID = &info.ID
		if info.VerifiedEmail {
			user.EmailVerified = true
		}
		if err := u.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	if user.Locked(u.now()) {
		return nil, apperrors.NewAppError(apperrors.ErrLockedAccountAccessAttempt,
			"Account is temporarily locked due to repeated failed logins", nil)
	}

	if err := u.userRepo.RecordSuccessfulLogin(ctx, user.Username, u.now()); err != nil {
		return nil, err
	}
	return u.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh token for a new access token.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return u.tokens.Refresh(ctx, refreshToken)
}

// Logout revokes the refresh token and best-effort revokes the access token.
func (u *AuthUsecase) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if refreshToken != "" {
		if err := u.tokens.RevokeRefreshToken(ctx, refreshToken); err != nil {
			return err
		}
	}
	if accessToken != "" {
		if err := u.tokens.RevokeAccessToken(ctx, accessToken); err != nil {
			u.logger.Warn("Failed to revoke access token", zap.Error(err))
		}
	}
	return nil
}

// RequestPasswordReset mails a single-use reset token. The response is the
// same whether or not the email is registered, so the endpoint cannot be
// used to enumerate accounts.
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}
	if user == nil {
		u.logger.Debug("Password reset requested for unknown email")
		return nil
	}

	tok, err := randomToken()
	if err != nil {
		return err
	}
	record := &model.PasswordResetToken{
		Username:  user.Username,
		Token:     tok,
		ExpiresAt: u.now().Add(PasswordResetTTL),
	}
	if err := u.resetRepo.Create(ctx, record); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/password/reset/confirm?token=%s", u.baseURL, tok)
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Use the link below to reset your password. It expires in one hour.</p><p><a href=%q>Reset your password</a></p>",
		user.Username, link)
	return u.mailer.Send(ctx, user.Email, "Reset your password", body)
}

// ConfirmPasswordReset applies a mailed reset token, replaces the password
// and invalidates every outstanding refresh token for the user.
func (u *AuthUsecase) ConfirmPasswordReset(ctx context.Context, tok, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.NewAppError(apperrors.ErrBadRequest, "Password must be at least 8 characters", nil)
	}

	record, err := u.resetRepo.GetValid(ctx, tok, u.now())
	if err != nil {
		return err
	}
	if record == nil {
		return apperrors.NewAppError(apperrors.ErrBadRequest, "Invalid or expired reset token", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := u.userRepo.UpdatePassword(ctx, record.Username, string(hash)); err != nil {
		return err
	}
	if err := u.resetRepo.MarkUsed(ctx, record.ID); err != nil {
		return err
	}
	if err := u.tokens.RevokeAllRefreshTokens(ctx, record.Username); err != nil {
		u.logger.Warn("Failed to revoke refresh tokens after password reset",
			zap.String("username", record.Username), zap.Error(err))
	}

	u.logger.Info("Password reset completed", zap.String("username", record.Username))
	return nil
}

func (u *AuthUsecase) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	access, err := u.tokens.GenerateAccessToken(user.Username)
	if err != nil {
		return nil, err
	}
	refresh, err := u.tokens.GenerateRefreshToken(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		Username:     user.Username,
		UserID:       user.ID.String(),
		Plan:         string(user.Plan()),
	}, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if apperrors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return fmt.Sprintf("Field %q failed validation on %q", f.Field(), f.Tag())
	}
	return "Invalid request payload"
}

func usernameFromEmail(email string) string {
	name := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		name = email[:i]
	}
	name = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, name)
	if name == "" {
		name = "user"
	}
	return name
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func stringPtr(s string) *string { return &s }
