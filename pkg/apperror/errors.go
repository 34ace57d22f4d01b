package apperror

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Wallet Business Logic ----

// ErrInvalidArgument rejects malformed input before any state access.
func ErrInvalidArgument(message string) *AppError {
	return New("INVALID_ARGUMENT", message, http.StatusBadRequest)
}

// ErrWalletNotFound reports an unknown wallet identifier.
func ErrWalletNotFound() *AppError {
	return New("NOT_FOUND", "wallet not found", http.StatusNotFound)
}

// ErrInsufficientFunds carries the attempted amount and the available balance.
// No mutation occurred.
func ErrInsufficientFunds(available, requested decimal.Decimal) *AppError {
	return New(
		"INSUFFICIENT_FUNDS",
		fmt.Sprintf("insufficient funds: available %s, requested %s", available.StringFixed(2), requested.StringFixed(2)),
		http.StatusBadRequest,
	)
}

// ErrWalletConflict reports a duplicate creation or an optimistic-version
// mismatch on save. Callers may retry a fresh read-modify-write cycle.
func ErrWalletConflict(message string) *AppError {
	return New("CONFLICT", message, http.StatusConflict)
}

// ---- Authentication ----

func ErrInvalidCredentials() *AppError {
	return New("INVALID_CREDENTIALS", "invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("CONFLICT", "username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("INVALID_TOKEN", "invalid or expired token", http.StatusUnauthorized)
}

// ---- System & Infrastructure ----

// ErrLockTimeout reports that the per-wallet exclusive section could not be
// entered within the configured bound.
func ErrLockTimeout(err error) *AppError {
	return Wrap("LOCK_TIMEOUT", "lock acquisition timeout", http.StatusServiceUnavailable, err)
}

// InternalError wraps a storage/ledger failure. The original cause is logged
// by the surrounding layer, never shown to the caller.
func InternalError(err error) *AppError {
	return Wrap("INTERNAL", "internal server error", http.StatusInternalServerError, err)
}
