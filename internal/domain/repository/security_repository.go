package repository

import (
	"context"
	"time"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
)

// BlacklistRepository provides access to the IP blocklist.
type BlacklistRepository interface {
	// FindEffective returns the newest entry blocking the IP at the given
	// time, or nil when the IP is not blocked.
	FindEffective(ctx context.Context, ip string, now time.Time) (*model.IpBlacklistEntry, error)
	Insert(ctx context.Context, entry *model.IpBlacklistEntry) error
	List(ctx context.Context) ([]model.IpBlacklistEntry, error)
	Delete(ctx context.Context, id int64) error

	// DeleteExpired reaps entries whose TTL has passed and returns the number
	// of rows removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RefreshTokenRepository persists refresh tokens for revocation.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, username string) error
}

// PasswordResetRepository persists single-use reset tokens.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	// GetValid returns the token row when it exists, is unused and unexpired.
	GetValid(ctx context.Context, token string, now time.Time) (*model.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id int64) error
}
