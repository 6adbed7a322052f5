package repository

import (
	"context"
	"time"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
)

// ApiLogRepository appends request logs and answers the count queries used by
// the rate limiter and the usage accountant.
type ApiLogRepository interface {
	Insert(ctx context.Context, log *model.ApiLog) error

	// CountByIPSince counts requests from the IP after the cutoff.
	CountByIPSince(ctx context.Context, ip string, since time.Time) (int64, error)

	// CountByIdentifierSince counts requests carrying the user identifier on
	// any of the given endpoints after the cutoff.
	CountByIdentifierSince(ctx context.Context, identifier string, endpoints []string, since time.Time) (int64, error)

	// CountProjectCreations counts successful schema-creation requests for
	// the user inside [from, to).
	CountProjectCreations(ctx context.Context, userID string, from, to time.Time) (int64, error)

	// CountApiRequests counts rows with is_api_request=true for the user
	// inside [from, to).
	CountApiRequests(ctx context.Context, userID string, from, to time.Time) (int64, error)
}

// SecurityLogRepository appends security events.
type SecurityLogRepository interface {
	Insert(ctx context.Context, log *model.SecurityLog) error

	// CountByIPAndTypeSince counts events of the given type from the IP after
	// the cutoff. Used for injection-attempt escalation.
	CountByIPAndTypeSince(ctx context.Context, ip string, eventType string, since time.Time) (int64, error)
}

// ErrorLogRepository appends unhandled-failure records.
type ErrorLogRepository interface {
	Insert(ctx context.Context, log *model.ErrorLog) error
}

// EmailLogRepository appends SMTP send records.
type EmailLogRepository interface {
	Insert(ctx context.Context, log *model.EmailLog) error
}
