package model

import (
	"time"
)

// ApiLog records one handled HTTP request. The usage accountant and the rate
// limiter both count over this table, so writes must not be dropped silently.
type ApiLog struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp      time.Time `gorm:"not null;index" json:"timestamp"`
	IP             string    `gorm:"size:50;index" json:"ip"`
	XAuthUserID    string    `gorm:"column:x_auth_user_id;size:100;index" json:"x_auth_user_id"`
	Method         string    `gorm:"size:10;not null" json:"method"`
	Endpoint       string    `gorm:"size:250;not null;index" json:"endpoint"`
	StatusCode     int       `gorm:"not null" json:"status_code"`
	ResponseTimeMs int64     `gorm:"not null" json:"response_time_ms"`
	IsApiRequest   bool      `gorm:"not null;default:false;index" json:"is_api_request"`
	ApiID          *string   `gorm:"size:100" json:"api_id,omitempty"`
}

// TableName specifies the table name for GORM
func (ApiLog) TableName() string {
	return "api_logs"
}
