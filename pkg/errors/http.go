package errors

import (
	"net/http"
)

// codeMapping maps error codes to HTTP status codes.
var codeMapping = map[string]int{
	ErrBadRequest:            http.StatusBadRequest,
	ErrInjectionAttempt:      http.StatusBadRequest,
	ErrXSSAttempt:            http.StatusBadRequest,
	ErrEmailMaliciousContent: http.StatusBadRequest,

	ErrUnauthorized: http.StatusUnauthorized,

	ErrForbidden:                  http.StatusForbidden,
	ErrLockedAccountAccessAttempt: http.StatusForbidden,
	ErrBlacklistedIPBlocked:       http.StatusForbidden,
	ErrSubscriptionRequired:       http.StatusForbidden,
	ErrPlanUpgradeRequired:        http.StatusForbidden,
	ErrSubscriptionExpired:        http.StatusForbidden,

	ErrNotFound: http.StatusNotFound,

	ErrRateLimitExceeded: http.StatusTooManyRequests,

	ErrServerError: http.StatusInternalServerError,
}

// ToHTTPStatus converts an error code to an HTTP status code.
func ToHTTPStatus(code string) int {
	if status, ok := codeMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
