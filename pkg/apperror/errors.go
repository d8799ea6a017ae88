package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"errorCode"`
	Message    string `json:"message"`
	Detail     string `json:"error,omitempty"` // Client-visible cause, rendered as "error"
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail returns a copy of e carrying a client-visible detail string.
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
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

// ---- Inbound deliveries & webhook registry (WHK) ----

func ErrMissingSignature() *AppError {
	return New("WHK_001", "Missing signature", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("WHK_002", "Invalid signature", http.StatusUnauthorized)
}

func ErrMalformedDelivery(err error) *AppError {
	return Wrap("WHK_003", "Invalid webhook payload", http.StatusBadRequest, err)
}

// ErrProcessingFailed is returned after a delivery was logged as failed.
// The cause is exposed as Detail because the admin UI shows it verbatim.
func ErrProcessingFailed(err error) *AppError {
	e := Wrap("WHK_004", "Error processing webhook", http.StatusInternalServerError, err)
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

func ErrWebhookNotFound() *AppError {
	return New("WHK_005", "Webhook not found", http.StatusNotFound)
}

// ErrRemoteWebhook reports a non-OK answer from the messaging platform while
// managing a subscription.
func ErrRemoteWebhook(err error) *AppError {
	e := Wrap("WHK_006", "Failed to manage remote webhook", http.StatusBadRequest, err)
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

func ErrLogNotFound() *AppError {
	return New("WHK_007", "Log entry not found", http.StatusNotFound)
}

// ---- Users (USR) ----

func ErrUserNotFound() *AppError {
	return New("USR_001", "User not found", http.StatusNotFound)
}

func ErrEmailExists() *AppError {
	return New("USR_002", "Email already exists", http.StatusConflict)
}

func ErrUpdateUser(err error) *AppError {
	return Wrap("USR_003", "Error updating user", http.StatusBadRequest, err)
}

func ErrDeleteUser(err error) *AppError {
	return Wrap("USR_004", "Error deleting user", http.StatusBadRequest, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_003", "Insufficient role", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

func ErrBodyTooLarge() *AppError {
	return New("SYS_005", "Request body too large", http.StatusRequestEntityTooLarge)
}

func ErrMethodNotAllowed() *AppError {
	return New("SYS_004", "Method not allowed", http.StatusMethodNotAllowed)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	e := Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// ---- Validation (VAL) ----

// Validation returns a VAL_001 validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
