package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
)

type refreshTokenRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB, logger *zap.Logger) repository.RefreshTokenRepository {
	return &refreshTokenRepository{db: db, logger: logger}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		r.logger.Error("Failed to persist refresh token",
			zap.String("username", token.Username),
			zap.Error(err))
		return fmt.Errorf("failed to persist refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var record model.RefreshToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return &record, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	err := r.db.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true).Error
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) RevokeAllForUser(ctx context.Context, username string) error {
	err := r.db.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("username = ? AND revoked = ?", username, false).
		Update("revoked", true).Error
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens for user: %w", err)
	}
	return nil
}

type passwordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository creates a new password reset token repository
func NewPasswordResetRepository(db *gorm.DB) repository.PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to persist reset token: %w", err)
	}
	return nil
}

func (r *passwordResetRepository) GetValid(ctx context.Context, token string, now time.Time) (*model.PasswordResetToken, error) {
	var record model.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("token = ? AND used = ? AND expires_at > ?", token, false, now).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return &record, nil
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Model(&model.PasswordResetToken{}).
		Where("id = ?", id).
		Update("used", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}
	return nil
}
