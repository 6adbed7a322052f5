package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
)

type planRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPlanRepository creates a new payment plan repository
func NewPlanRepository(db *gorm.DB, logger *zap.Logger) repository.PlanRepository {
	return &planRepository{db: db, logger: logger}
}

func (r *planRepository) ListActive(ctx context.Context) ([]model.PaymentPlan, error) {
	var plans []model.PaymentPlan
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&plans).Error
	if err != nil {
		r.logger.Error("Failed to list payment plans", zap.Error(err))
		return nil, fmt.Errorf("failed to list payment plans: %w", err)
	}
	return plans, nil
}

func (r *planRepository) GetByPlanID(ctx context.Context, planID string) (*model.PaymentPlan, error) {
	var plan model.PaymentPlan
	err := r.db.WithContext(ctx).
		Where("plan_id = ? AND is_active = ?", planID, true).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment plan: %w", err)
	}
	return &plan, nil
}
