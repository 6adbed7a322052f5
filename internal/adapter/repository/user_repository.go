package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
)

type userRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB, logger *zap.Logger) repository.UserRepository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by google id: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		r.logger.Error("Failed to create user",
			zap.String("username", user.Username),
			zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		r.logger.Error("Failed to update user",
			zap.String("username", user.Username),
			zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// RecordFailedLogin increments the counter and locks the account when it
// reaches the threshold. The whole transition runs as a single UPDATE so
// concurrent failures cannot push the counter past the limit without locking.
func (r *userRepository) RecordFailedLogin(ctx context.Context, username string, now time.Time) (*model.User, error) {
	err := r.db.WithContext(ctx).Exec(`
		UPDATE users
		SET login_attempts = LEAST(login_attempts + 1, ?),
		    account_status = CASE WHEN login_attempts + 1 >= ? THEN 'locked' ELSE account_status END,
		    locked_at      = CASE WHEN login_attempts + 1 >= ? THEN ? ELSE locked_at END,
		    updated_at     = ?
		WHERE username = ?`,
		model.MaxLoginAttempts, model.MaxLoginAttempts, model.MaxLoginAttempts, now, now, username).Error
	if err != nil {
		return nil, fmt.Errorf("failed to record failed login: %w", err)
	}
	return r.GetByUsername(ctx, username)
}

func (r *userRepository) RecordSuccessfulLogin(ctx context.Context, username string, now time.Time) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).
		Updates(map[string]interface{}{
			"login_attempts": 0,
			"account_status": model.AccountStatusActive,
			"locked_at":      nil,
			"last_login":     now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to record successful login: %w", err)
	}
	return nil
}

func (r *userRepository) Unlock(ctx context.Context, username string) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).
		Updates(map[string]interface{}{
			"login_attempts": 0,
			"account_status": model.AccountStatusActive,
			"locked_at":      nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to unlock user: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, username string, passwordHash string) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).
		Updates(map[string]interface{}{
			"password_hash":  passwordHash,
			"login_attempts": 0,
			"account_status": model.AccountStatusActive,
			"locked_at":      nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
