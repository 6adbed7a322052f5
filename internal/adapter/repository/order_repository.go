package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
)

type orderRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new payment order repository
func NewOrderRepository(db *gorm.DB, logger *zap.Logger) repository.OrderRepository {
	return &orderRepository{db: db, logger: logger}
}

func (r *orderRepository) Create(ctx context.Context, order *model.PaymentOrder) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		r.logger.Error("Failed to create payment order",
			zap.String("order_id", order.OrderID),
			zap.Error(err))
		return fmt.Errorf("failed to create payment order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetByOrderID(ctx context.Context, orderID string) (*model.PaymentOrder, error) {
	var order model.PaymentOrder
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.PaymentOrder, error) {
	var orders []model.PaymentOrder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment orders: %w", err)
	}
	return orders, nil
}

// Finalize applies the callback outcome. The order update and the
// subscription upsert run inside one transaction; the conditional WHERE on
// status='pending' makes replays and concurrent callbacks no-ops.
func (r *orderRepository) Finalize(ctx context.Context, orderID string, success bool, transactionID string, payload datatypes.JSON, expiration time.Time) (*repository.FinalizeResult, error) {
	result := &repository.FinalizeResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		newStatus := model.OrderStatusFailed
		if success {
			newStatus = model.OrderStatusPaid
		}

		updates := map[string]interface{}{
			"status":          newStatus,
			"payment_details": payload,
			"updated_at":      time.Now(),
		}
		if transactionID != "" {
			updates["transaction_id"] = transactionID
		}

		res := tx.Model(&model.PaymentOrder{}).
			Where("order_id = ? AND status = ?", orderID, model.OrderStatusPending).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update order: %w", res.Error)
		}

		var order model.PaymentOrder
		if err := tx.Where("order_id = ?", orderID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Unknown order: the caller reports it, the gateway must
				// not retry.
				return nil
			}
			return fmt.Errorf("failed to reload order: %w", err)
		}
		result.Order = &order
		result.Applied = res.RowsAffected > 0

		if !result.Applied || !success {
			return nil
		}

		// One subscription row per (user_id, api_id). The uniqueness index
		// is on (user_id, COALESCE(api_id, '')), which Postgres cannot use
		// as an ON CONFLICT arbiter, so the grant is a locked
		// select-then-update; the index backstops concurrent inserts.
		now := time.Now()
		scope := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", order.UserID)
		if order.ApiID == nil {
			scope = scope.Where("api_id IS NULL")
		} else {
			scope = scope.Where("api_id = ?", *order.ApiID)
		}

		var sub model.UserSubscription
		err := scope.First(&sub).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sub = model.UserSubscription{
				UserID:         order.UserID,
				PlanID:         order.PlanID,
				Status:         model.SubscriptionStatusActive,
				StartDate:      now,
				ExpirationDate: expiration,
				PaymentOrderID: &order.ID,
				ApiID:          order.ApiID,
			}
			if err := tx.Create(&sub).Error; err != nil {
				return fmt.Errorf("failed to create subscription: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to load subscription: %w", err)
		default:
			err := tx.Model(&sub).Updates(map[string]interface{}{
				"plan_id":          order.PlanID,
				"status":           model.SubscriptionStatusActive,
				"start_date":       now,
				"expiration_date":  expiration,
				"payment_order_id": &order.ID,
				"updated_at":       now,
			}).Error
			if err != nil {
				return fmt.Errorf("failed to renew subscription: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		r.logger.Error("Failed to finalize payment order",
			zap.String("order_id", orderID),
			zap.Bool("success", success),
			zap.Error(err))
		return nil, err
	}

	return result, nil
}
