package model

import (
	"time"
)

// Email delivery status values.
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog records an outbound SMTP send attempt.
type EmailLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Recipient string    `gorm:"size:250;not null;index" json:"recipient"`
	Subject   string    `gorm:"size:250;not null" json:"subject"`
	Status    string    `gorm:"size:20;not null" json:"status"`
	Error     string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM
func (EmailLog) TableName() string {
	return "email_logs"
}
