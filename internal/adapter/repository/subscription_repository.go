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

type subscriptionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB, logger *zap.Logger) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db, logger: logger}
}

func (r *subscriptionRepository) GetActive(ctx context.Context, userID uuid.UUID, apiID *string, now time.Time) (*model.UserSubscription, error) {
	var sub model.UserSubscription

	query := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND expiration_date > ?",
			userID, model.SubscriptionStatusActive, now)
	if apiID != nil {
		query = query.Where("api_id = ?", *apiID)
	} else {
		query = query.Where("api_id IS NULL")
	}

	err := query.Order("expiration_date DESC").First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get active subscription",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}

	return &sub, nil
}

func (r *subscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserSubscription, error) {
	var subs []model.UserSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

func (r *subscriptionRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.UserSubscription{}).
		Where("status = ? AND expiration_date <= ?", model.SubscriptionStatusActive, now).
		Update("status", model.SubscriptionStatusExpired)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark expired subscriptions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
