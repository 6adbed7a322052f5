package errors

// Stable error codes. Security-relevant codes double as the `type` column of
// security_logs, so their spelling must not change.
const (
	// Input errors (400)
	ErrBadRequest            = "BAD_REQUEST"
	ErrInjectionAttempt      = "INJECTION_ATTEMPT"
	ErrXSSAttempt            = "XSS_ATTEMPT"
	ErrEmailMaliciousContent = "EMAIL_MALICIOUS_CONTENT"

	// Authentication (401)
	ErrUnauthorized = "UNAUTHORIZED"

	// Authorization (403)
	ErrForbidden                  = "FORBIDDEN"
	ErrLockedAccountAccessAttempt = "LOCKED_ACCOUNT_ACCESS_ATTEMPT"
	ErrBlacklistedIPBlocked       = "BLACKLISTED_IP_BLOCKED"
	ErrSubscriptionRequired       = "SUBSCRIPTION_REQUIRED"
	ErrPlanUpgradeRequired        = "PLAN_UPGRADE_REQUIRED"
	ErrSubscriptionExpired        = "SUBSCRIPTION_EXPIRED"

	// Not found (404)
	ErrNotFound = "NOT_FOUND"

	// Rate limiting (429)
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"

	// Server failures (500)
	ErrServerError = "SERVER_ERROR"
)
