package model

import (
	"time"
)

// IpBlacklistEntry blocks an IP from all routes. A nil ExpiresAt means the
// block is permanent; expired rows are reaped hourly.
type IpBlacklistEntry struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	IP        string     `gorm:"size:50;not null;index" json:"ip"`
	Reason    string     `gorm:"size:250;not null" json:"reason"`
	CreatedBy string     `gorm:"size:100;not null;default:'system'" json:"created_by"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// Effective reports whether the entry blocks traffic at the given time.
func (e *IpBlacklistEntry) Effective(now time.Time) bool {
	return e.ExpiresAt == nil || e.ExpiresAt.After(now)
}

// TableName specifies the table name for GORM
func (IpBlacklistEntry) TableName() string {
	return "ip_blacklist"
}
