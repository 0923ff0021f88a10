package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds used across the wallet core
const (
	ErrKindValidation        = "validation"
	ErrKindNotFound          = "not_found"
	ErrKindInsufficientFunds = "insufficient_funds"
	ErrKindGateway           = "gateway"
	ErrKindSignature         = "signature"
	ErrKindStateConflict     = "state_conflict"
)

// AppError represents an application error
type AppError struct {
	Kind    string `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(kind string, code int, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError creates an error for input outside configured bounds
func NewValidationError(message string, err error) *AppError {
	return NewAppError(ErrKindValidation, http.StatusUnprocessableEntity, message, err)
}

// NewNotFoundError creates an error for a missing wallet, actor or bank account
func NewNotFoundError(message string) *AppError {
	return NewAppError(ErrKindNotFound, http.StatusNotFound, message, nil)
}

// NewInsufficientFundsError creates an error for a debit that would take a
// balance negative
func NewInsufficientFundsError(message string) *AppError {
	return NewAppError(ErrKindInsufficientFunds, http.StatusUnprocessableEntity, message, nil)
}

// NewGatewayError creates an error for a network or provider-side failure
func NewGatewayError(message string, err error) *AppError {
	return NewAppError(ErrKindGateway, http.StatusBadGateway, message, err)
}

// NewSignatureError creates an error for a webhook that failed authentication
func NewSignatureError(message string) *AppError {
	return NewAppError(ErrKindSignature, http.StatusUnauthorized, message, nil)
}

// NewStateConflictError creates an error for a structurally invalid status
// transition
func NewStateConflictError(message string) *AppError {
	return NewAppError(ErrKindStateConflict, http.StatusConflict, message, nil)
}

// GetAppError returns the AppError if the error wraps one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsKind reports whether the error is an AppError of the given kind
func IsKind(err error, kind string) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Kind == kind
	}
	return false
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return IsKind(err, ErrKindNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return IsKind(err, ErrKindValidation)
}

// IsInsufficientFundsError checks if an error is an insufficient-funds error
func IsInsufficientFundsError(err error) bool {
	return IsKind(err, ErrKindInsufficientFunds)
}

// IsGatewayError checks if an error is a gateway error
func IsGatewayError(err error) bool {
	return IsKind(err, ErrKindGateway)
}

// IsStateConflictError checks if an error is a state-conflict error
func IsStateConflictError(err error) bool {
	return IsKind(err, ErrKindStateConflict)
}

// IsSignatureError checks if an error is a webhook-signature error
func IsSignatureError(err error) bool {
	return IsKind(err, ErrKindSignature)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
