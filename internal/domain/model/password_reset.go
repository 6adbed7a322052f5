package model

import (
	"time"
)

// PasswordResetToken is a single-use token mailed to the user.
type PasswordResetToken struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"size:100;not null;index" json:"username"`
	Token     string    `gorm:"size:100;not null;uniqueIndex" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}
