package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
)

// UserRepository provides access to user rows.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error

	// RecordFailedLogin increments login_attempts and, when the counter
	// reaches model.MaxLoginAttempts, atomically sets the account locked with
	// locked_at=now. It returns the updated user.
	RecordFailedLogin(ctx context.Context, username string, now time.Time) (*model.User, error)

	// RecordSuccessfulLogin zeroes login_attempts, clears the lock and sets
	// last_login.
	RecordSuccessfulLogin(ctx context.Context, username string, now time.Time) error

	// Unlock reactivates a locked account and zeroes the counter.
	Unlock(ctx context.Context, username string) error

	// UpdatePassword replaces the stored hash and clears lock state.
	UpdatePassword(ctx context.Context, username string, passwordHash string) error
}
