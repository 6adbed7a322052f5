package model

import (
	"time"

	"github.com/google/uuid"
)

// Account status values.
const (
	AccountStatusActive = "active"
	AccountStatusLocked = "locked"
)

// Login method values.
const (
	LoginMethodEmail  = "email"
	LoginMethodGoogle = "google"
)

// MaxLoginAttempts locks the account when reached.
const MaxLoginAttempts = 5

// LockDuration is how long an account stays locked before automatic unlock.
const LockDuration = 5 * time.Minute

// User represents a registered user.
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username      string     `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Email         string     `gorm:"size:250;not null;uniqueIndex" json:"email"`
	PasswordHash  string     `gorm:"size:250;not null" json:"-"`
	PlanID        string     `gorm:"size:20;not null;default:'basic'" json:"plan_id"`
	AccountStatus string     `gorm:"size:20;not null;default:'active'" json:"account_status"`
	LoginAttempts int        `gorm:"not null;default:0" json:"login_attempts"`
	LockedAt      *time.Time `json:"locked_at,omitempty"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	GoogleID      *string    `gorm:"size:100;index" json:"google_id,omitempty"`
	EmailVerified bool       `gorm:"default:false" json:"email_verified"`
	LoginMethod   string     `gorm:"size:20;not null;default:'email'" json:"login_method"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Plan returns the canonical plan of the user.
func (u *User) Plan() Plan {
	return PlanFromString(u.PlanID)
}

// Locked reports whether the account is currently locked, honoring the
// automatic unlock window.
func (u *User) Locked(now time.Time) bool {
	if u.AccountStatus != AccountStatusLocked {
		return false
	}
	if u.LockedAt == nil {
		return true
	}
	return now.Before(u.LockedAt.Add(LockDuration))
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
