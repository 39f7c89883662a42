package authcore

import (
	"errors"
	"net/http"
)

// Client-facing messages. These deliberately do not reveal which check
// failed: an expired signature, a tampered payload, and an unknown key all
// read the same to the caller.
const (
	msgLoginRequired  = "Please log in to access this resource"
	msgSessionExpired = "User session expired. Please log in again."
	msgTokenInvalid   = "Invalid or expired token"
	msgRefreshInvalid = "Invalid or expired refresh token"
	msgLoginAgain     = "Please log in again"
	msgInternal       = "Internal Server Error"
)

// Error is the structured failure surfaced to HTTP clients as
// {"success":false,"message":...} with Status as the response code.
// Status is always one of 400, 401, 403, or 500.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// BadRequest builds a 400 [Error] for malformed entry-point payloads.
func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Unauthenticated builds a 401 [Error]. Every credential and session fault
// funnels here.
func Unauthenticated(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// Forbidden builds a 403 [Error] for a valid principal with a disallowed role.
func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

// Internal builds a 500 [Error]. Reserved for infrastructure faults such as
// an unreachable session store; credential faults never map here.
func Internal(msg string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg}
}

// AsError normalizes any error into a client-safe *[Error]. Unrecognized
// errors collapse to a generic 500 so no internal detail leaks.
func AsError(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(msgInternal)
}
