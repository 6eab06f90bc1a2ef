package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
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

// ---- Validation (VAL) ----

// Validation returns a 400 for a missing or malformed field.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- Lookup (REQ) ----

func ErrNotFound(entity string) *AppError {
	return New("REQ_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Balance & Payment (BAL / PAY / FILE) ----

func ErrInsufficientBalance() *AppError {
	return New("BAL_001", "Insufficient balance", http.StatusBadRequest)
}

func ErrPaymentVerificationFailed() *AppError {
	return New("PAY_001", "Payment verification failed", http.StatusForbidden)
}

func ErrFileNotFound() *AppError {
	return New("FILE_001", "File not found", http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid phone number or password", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrResetCodeExpired() *AppError {
	return New("AUTH_004", "Reset code has expired", http.StatusBadRequest)
}

func ErrInvalidResetCode() *AppError {
	return New("AUTH_005", "Invalid reset code", http.StatusBadRequest)
}

func ErrNoResetRequest() *AppError {
	return New("AUTH_006", "No reset request found for this phone number", http.StatusNotFound)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// ErrPersistence wraps a storage read/write failure. The caller sees a
// generic message; the cause stays in the wrapped error.
func ErrPersistence(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
