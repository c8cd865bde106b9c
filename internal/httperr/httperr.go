package httperr

import "net/http"

// Error is the failure currency of the request pipeline. Every stage and
// handler returns one of these (or something that collapses to Internal)
// and the HTTPErrorHandler renders it as the JSON envelope.
type Error struct {
	Status  int
	Message string
	// Fields is only set on validation failures and carries the
	// per-field reasons rendered under "errors".
	Fields map[string][]string
}

func (e *Error) Error() string { return e.Message }

func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func Validation(msg string, fields map[string][]string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Message: msg, Fields: fields}
}

func TokenMissing() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "a token is required to access this resource"}
}

func TokenInvalid() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "the provided access token is invalid"}
}

func TokenExpired() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "the token has expired, please log in again"}
}

func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

func Forbidden() *Error {
	return &Error{Status: http.StatusForbidden, Message: "access denied"}
}

func Internal() *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "internal server error"}
}
