package model

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus is the lifecycle state of a user subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// UserSubscription grants a plan to a user for a time window. At most one
// active row exists per (user_id, api_id); the upsert in the order finalizer
// maintains that invariant.
type UserSubscription struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID          `gorm:"type:uuid;not null;index:idx_user_subscriptions_user_api" json:"user_id"`
	PlanID         string             `gorm:"size:20;not null" json:"plan_id"`
	Status         SubscriptionStatus `gorm:"size:20;not null;default:'active';index" json:"status"`
	StartDate      time.Time          `gorm:"not null" json:"start_date"`
	ExpirationDate time.Time          `gorm:"not null" json:"expiration_date"`
	PaymentOrderID *uuid.UUID         `gorm:"type:uuid;index" json:"payment_order_id,omitempty"`
	ApiID          *string            `gorm:"size:100;index:idx_user_subscriptions_user_api" json:"api_id,omitempty"`
	CreatedAt      time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

// Expired reports whether the subscription window has passed, regardless of
// the stored status. Reads treat an expired-but-active row as expired; the
// daily sweep catches the status up later.
func (s *UserSubscription) Expired(now time.Time) bool {
	return !now.Before(s.ExpirationDate)
}

// TableName specifies the table name for GORM
func (UserSubscription) TableName() string {
	return "user_subscriptions"
}
