package model

import (
	"time"

	"gorm.io/datatypes"
)

// SecurityLog records a security-relevant event. Type values come from
// pkg/errors codes and stay stable across releases.
type SecurityLog struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	IP        string         `gorm:"size:50;index" json:"ip"`
	UserID    *string        `gorm:"size:100;index" json:"user_id,omitempty"`
	Method    string         `gorm:"size:10" json:"method"`
	Path      string         `gorm:"size:250" json:"path"`
	Type      string         `gorm:"size:50;not null;index" json:"type"`
	Detection datatypes.JSON `gorm:"type:jsonb" json:"detection,omitempty"`
	Endpoint  string         `gorm:"size:250" json:"endpoint"`
	Details   string         `gorm:"type:text" json:"details"`
}

// TableName specifies the table name for GORM
func (SecurityLog) TableName() string {
	return "security_logs"
}

// ErrorLog records an unhandled server failure with the request id returned
// to the client, so responses can be correlated with causes.
type ErrorLog struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	RequestID string         `gorm:"size:50;index" json:"request_id"`
	Method    string         `gorm:"size:10" json:"method"`
	Path      string         `gorm:"size:250" json:"path"`
	Message   string         `gorm:"type:text" json:"message"`
	Stack     string         `gorm:"type:text" json:"stack,omitempty"`
	Context   datatypes.JSON `gorm:"type:jsonb" json:"context,omitempty"`
}

// TableName specifies the table name for GORM
func (ErrorLog) TableName() string {
	return "error_logs"
}
