package ecode

import "net/http"

// Kind is the machine readable class of an Error.
type Kind string

const (
	KindValidation      Kind = "VALIDATION_ERROR"
	KindAuthentication  Kind = "AUTHENTICATION_ERROR"
	KindAuthorization   Kind = "AUTHORIZATION_ERROR"
	KindNotFound        Kind = "NOT_FOUND"
	KindDuplicate       Kind = "DUPLICATE_ERROR"
	KindTooManyRequests Kind = "RATE_LIMITED"
	KindInternal        Kind = "INTERNAL_ERROR"
	KindUnavailable     Kind = "DB_CONNECTION_ERROR"
)

var kindText = map[Kind]string{
	KindValidation:      "Validation failed",
	KindAuthentication:  "Authentication failed",
	KindAuthorization:   "Access denied",
	KindNotFound:        "Resource not found",
	KindDuplicate:       "Resource already exists",
	KindTooManyRequests: "Too many requests, please try again later",
	KindInternal:        "Internal server error",
	KindUnavailable:     "Database unavailable",
}

// Text returns the default message of a kind.
func Text(k Kind) string {
	if t, ok := kindText[k]; ok {
		return t
	}
	return kindText[KindInternal]
}

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicate:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
