package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Common error codes
const (
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeStorage            = "STORAGE_ERROR"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeQuotaExceeded      = "QUOTA_EXCEEDED"
	ErrCodePlanRequired       = "PLAN_REQUIRED"
	ErrCodeCameraUnavailable  = "CAMERA_UNAVAILABLE"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Internal:   err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// As extracts an *AppError from err, if there is one in its chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// Internal creates an internal server error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

// Forbidden creates a forbidden error
func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message, http.StatusForbidden)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message, http.StatusConflict)
}

// ValidationError creates a validation error
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

// StorageError creates a persistence error
func StorageError(message string, err error) *AppError {
	return Wrap(err, ErrCodeStorage, message, http.StatusInternalServerError)
}

// ProductNotFound is returned when no lookup source knows the barcode,
// including when the remote database could not be reached.
func ProductNotFound(barcode string) *AppError {
	return New(ErrCodeProductNotFound,
		"Product not found. Try another barcode.",
		http.StatusNotFound).WithDetails(map[string]string{"barcode": barcode})
}

// QuotaExceeded is returned when the daily scan ceiling for a plan is reached.
func QuotaExceeded(plan string, limit, used int) *AppError {
	return New(ErrCodeQuotaExceeded,
		fmt.Sprintf("Daily scan limit reached. Plan %s: %d scans/day", plan, limit),
		http.StatusTooManyRequests).WithDetails(map[string]interface{}{
		"plan":  plan,
		"limit": limit,
		"used":  used,
	})
}

// PlanRequired is returned when a feature is not part of the caller's plan.
func PlanRequired(feature, plan string) *AppError {
	return New(ErrCodePlanRequired,
		fmt.Sprintf("%s requires the %s plan or higher", feature, plan),
		http.StatusForbidden).WithDetails(map[string]string{
		"feature":       feature,
		"required_plan": plan,
	})
}

// CameraUnavailable is returned when the capture device cannot be opened.
func CameraUnavailable(err error) *AppError {
	return Wrap(err, ErrCodeCameraUnavailable,
		"Could not access the camera",
		http.StatusServiceUnavailable).WithDetails(map[string]string{
		"hint": "Check that camera permission is granted and no other application is using it, or enter the barcode manually.",
	})
}

// RateLimited creates a rate limited error
func RateLimited(message string) *AppError {
	return New(ErrCodeRateLimited, message, http.StatusTooManyRequests)
}

// ServiceUnavailable creates a service unavailable error
func ServiceUnavailable(message string) *AppError {
	return New(ErrCodeServiceUnavailable, message, http.StatusServiceUnavailable)
}
