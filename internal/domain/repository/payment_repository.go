package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
)

// PlanRepository provides access to payment plan reference data.
type PlanRepository interface {
	ListActive(ctx context.Context) ([]model.PaymentPlan, error)
	GetByPlanID(ctx context.Context, planID string) (*model.PaymentPlan, error)
}

// FinalizeResult describes the outcome of an order finalization attempt.
type FinalizeResult struct {
	Order *model.PaymentOrder
	// Applied is false when the order was not pending anymore and the call
	// was a no-op (callback replay).
	Applied bool
}

// OrderRepository provides access to payment orders and owns the
// finalize transaction.
type OrderRepository interface {
	Create(ctx context.Context, order *model.PaymentOrder) error
	GetByOrderID(ctx context.Context, orderID string) (*model.PaymentOrder, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.PaymentOrder, error)

	// Finalize moves a pending order to paid or failed and, on success,
	// grants the user's active subscription in the same transaction. The
	// update is guarded by status='pending' so replays collapse to no-ops.
	// An unknown orderID returns a result with a nil Order and no error.
	Finalize(ctx context.Context, orderID string, success bool, transactionID string, payload datatypes.JSON, expiration time.Time) (*FinalizeResult, error)
}

// SubscriptionRepository provides access to user subscriptions.
type SubscriptionRepository interface {
	// GetActive returns the active, unexpired subscription for the user and
	// api scope, or nil when none exists.
	GetActive(ctx context.Context, userID uuid.UUID, apiID *string, now time.Time) (*model.UserSubscription, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserSubscription, error)

	// MarkExpired flips active rows whose window has passed to expired and
	// returns the number of rows changed.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}
