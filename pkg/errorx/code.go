package errorx

import "net/http"

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009
	TooManyRequests  Code = 100010

	// Admission codes
	NotEnrolled         Code = 200001
	ChallengeNotStarted Code = 200002
	ChallengeEnded      Code = 200003
	QuotaExceeded       Code = 200004
	EntitlementDenied   Code = 200005

	// Scoring codes
	ValidationError     Code = 300001
	UnsupportedGameType Code = 300002
	ConcurrencyConflict Code = 300003
)

var reasons = map[Code]string{
	NotEnrolled:         "not_enrolled",
	ChallengeNotStarted: "challenge_not_started",
	ChallengeEnded:      "challenge_ended",
	QuotaExceeded:       "quota_exceeded",
	EntitlementDenied:   "entitlement_denied",
	ValidationError:     "validation_error",
	UnsupportedGameType: "unsupported_game_type",
	ConcurrencyConflict: "concurrency_conflict",
}

// Reason returns the machine-readable reason of admission and scoring codes.
func (c Code) Reason() string {
	return reasons[c]
}

// HTTPStatus maps the code to the status written by the router.
func (c Code) HTTPStatus() int {
	switch c {
	case BadRequest, ValidationError, UnsupportedGameType:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case PermissionDenied, NotEnrolled, EntitlementDenied:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case AlreadyExists, ConcurrencyConflict:
		return http.StatusConflict
	case Unavailable, ChallengeNotStarted, ChallengeEnded:
		return http.StatusUnprocessableEntity
	case TooManyRequests, QuotaExceeded:
		return http.StatusTooManyRequests
	case NotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
