package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Circulation failures. Each carries enough detail for the caller to
// render a message; see WithDetails.
var (
	ErrPatronInactive       = New("PATRON_INACTIVE", http.StatusForbidden, "patron is inactive and cannot borrow")
	ErrFinesPending         = New("FINES_PENDING", http.StatusForbidden, "patron has pending fines")
	ErrLoanLimitReached     = New("LOAN_LIMIT_REACHED", http.StatusForbidden, "patron has reached the active loan limit")
	ErrAssetUnavailable     = New("ASSET_UNAVAILABLE", http.StatusConflict, "asset is not available for borrowing")
	ErrAlreadyBorrowed      = New("ALREADY_BORROWED", http.StatusConflict, "asset already has an open loan")
	ErrNotCurrentlyBorrowed = New("NOT_CURRENTLY_BORROWED", http.StatusConflict, "asset is not currently borrowed")
	ErrInvalidState         = New("INVALID_STATE", http.StatusConflict, "asset status does not allow this operation")
	ErrFineUnsettled        = New("FINE_UNSETTLED", http.StatusConflict, "replacement fine has not been settled")
	ErrNoPenalty            = New("NO_PENALTY", http.StatusBadRequest, "loan carries no penalty")
	ErrAlreadySettled       = New("ALREADY_SETTLED", http.StatusConflict, "fine is not pending")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithDetails returns a copy of the error carrying structured detail data.
func WithDetails(err *Error, message string, details map[string]interface{}) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	clone.Details = details
	return &clone
}
