package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatus is the lifecycle state of a payment order.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// PaymentOrder records an intended purchase. Orders move
// pending -> paid | failed exactly once; the transition is guarded by a
// conditional update on status='pending'.
type PaymentOrder struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OrderID        string          `gorm:"size:100;not null;uniqueIndex" json:"order_id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanID         string          `gorm:"size:20;not null" json:"plan_id"`
	ApiID          *string         `gorm:"size:100" json:"api_id,omitempty"`
	Amount         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency       string          `gorm:"size:3;not null;default:'AZN'" json:"currency"`
	Status         OrderStatus     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentMethod  string          `gorm:"size:50;not null;default:'card'" json:"payment_method"`
	TransactionID  *string         `gorm:"size:100" json:"transaction_id,omitempty"`
	PaymentDetails datatypes.JSON  `gorm:"type:jsonb" json:"payment_details,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PaymentOrder) TableName() string {
	return "payment_orders"
}
