package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	// ErrorTypeUnauthenticated means the credential was missing or malformed
	ErrorTypeUnauthenticated ErrorType = "unauthenticated"

	// ErrorTypeUnknownIdentity means a well-formed credential matched no account
	ErrorTypeUnknownIdentity ErrorType = "unknown_identity"

	// ErrorTypeQuotaExceeded means the account's message limit was reached
	ErrorTypeQuotaExceeded ErrorType = "quota_exceeded"

	// ErrorTypeModelNotFound means the requested model id is not registered
	ErrorTypeModelNotFound ErrorType = "model_not_found"

	// ErrorTypeUpstreamTimeout means the provider call exceeded its deadline
	ErrorTypeUpstreamTimeout ErrorType = "upstream_timeout"

	// ErrorTypeUpstream means the provider returned a transport or HTTP error
	ErrorTypeUpstream ErrorType = "upstream_error"

	// ErrorTypeValidation means the caller's request body was malformed
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeInternal covers storage and wiring failures
	ErrorTypeInternal ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	ErrMissingCredential = NewDomainError(ErrorTypeUnauthenticated, "authorization header is missing or invalid", nil)
	ErrUnknownIdentity   = NewDomainError(ErrorTypeUnknownIdentity, "invalid API key", nil)
	ErrQuotaExceeded     = NewDomainError(ErrorTypeQuotaExceeded, "message limit reached", nil)
	ErrModelNotFound     = NewDomainError(ErrorTypeModelNotFound, "model not found", nil)
	ErrUpstreamTimeout   = NewDomainError(ErrorTypeUpstreamTimeout, "provider did not respond in time", nil)
	ErrUpstream          = NewDomainError(ErrorTypeUpstream, "provider request failed", nil)
	ErrInvalidInput      = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrInternal          = NewDomainError(ErrorTypeInternal, "internal server error", nil)
)

// Error type checking helper functions

// IsUnauthenticatedError checks if an error is an unauthenticated error
func IsUnauthenticatedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthenticated
}

// IsUnknownIdentityError checks if an error is an unknown identity error
func IsUnknownIdentityError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnknownIdentity
}

// IsQuotaError checks if an error is a quota exceeded error
func IsQuotaError(err error) bool {
	return GetErrorType(err) == ErrorTypeQuotaExceeded
}

// IsModelNotFoundError checks if an error is a model not found error
func IsModelNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeModelNotFound
}

// IsUpstreamError checks if an error came from the provider side
func IsUpstreamError(err error) bool {
	t := GetErrorType(err)
	return t == ErrorTypeUpstream || t == ErrorTypeUpstreamTimeout
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// WrapUpstream wraps an error as an upstream provider error
func WrapUpstream(message string, err error) error {
	return NewDomainError(ErrorTypeUpstream, message, err)
}
