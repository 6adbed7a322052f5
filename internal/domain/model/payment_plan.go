package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentPlan is reference data describing a purchasable plan.
type PaymentPlan struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	PlanID    string          `gorm:"size:20;not null;uniqueIndex" json:"plan_id"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Currency  string          `gorm:"size:3;not null;default:'AZN'" json:"currency"`
	Features  datatypes.JSON  `gorm:"type:jsonb;default:'[]'" json:"features"`
	IsActive  bool            `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PaymentPlan) TableName() string {
	return "payment_plans"
}
