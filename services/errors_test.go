package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDomainError(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeModelNotFound, "model not found", baseErr)

	assert.Equal(t, ErrorTypeModelNotFound, domainErr.Type)
	assert.Equal(t, "model not found", domainErr.Message)
	assert.Equal(t, baseErr, domainErr.Err)
	assert.NotNil(t, domainErr.Details)
}

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *DomainError
		wantMsg string
	}{
		{
			name: "error with wrapped error",
			err: &DomainError{
				Type:    ErrorTypeUpstream,
				Message: "provider request failed",
				Err:     errors.New("connection refused"),
			},
			wantMsg: "upstream_error: provider request failed (connection refused)",
		},
		{
			name: "error without wrapped error",
			err: &DomainError{
				Type:    ErrorTypeValidation,
				Message: "invalid input",
				Err:     nil,
			},
			wantMsg: "validation: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeInternal, "internal error", baseErr)

	unwrapped := errors.Unwrap(domainErr)
	assert.Equal(t, baseErr, unwrapped)
}

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("pipeline stage failed: %w", ErrQuotaExceeded)

	assert.True(t, errors.Is(err, ErrQuotaExceeded))
	assert.False(t, errors.Is(err, ErrModelNotFound))
}

func TestDomainError_WithDetail(t *testing.T) {
	err := NewDomainError(ErrorTypeQuotaExceeded, "message limit reached", nil).
		WithDetail("limit", 50).
		WithDetail("username", "petya")

	require.NotNil(t, err.Details)
	assert.Equal(t, 50, err.Details["limit"])
	assert.Equal(t, "petya", err.Details["username"])
}

func TestErrorTypeCheckers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
		want    bool
	}{
		{"unauthenticated matches", ErrMissingCredential, IsUnauthenticatedError, true},
		{"unknown identity matches", ErrUnknownIdentity, IsUnknownIdentityError, true},
		{"quota matches", ErrQuotaExceeded, IsQuotaError, true},
		{"model not found matches", ErrModelNotFound, IsModelNotFoundError, true},
		{"timeout counts as upstream", ErrUpstreamTimeout, IsUpstreamError, true},
		{"http error counts as upstream", ErrUpstream, IsUpstreamError, true},
		{"validation matches", ErrInvalidInput, IsValidationError, true},
		{"plain error matches nothing", errors.New("boom"), IsQuotaError, false},
		{"wrapped domain error still matches", fmt.Errorf("ctx: %w", ErrModelNotFound), IsModelNotFoundError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.checker(tt.err))
		})
	}
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, ErrorTypeQuotaExceeded, GetErrorType(ErrQuotaExceeded))
	assert.Equal(t, ErrorType(""), GetErrorType(errors.New("plain")))
}

func TestWrapHelpers(t *testing.T) {
	base := errors.New("dial tcp: connection refused")

	wrapped := WrapUpstream("calling provider", base)
	assert.True(t, IsUpstreamError(wrapped))
	assert.True(t, errors.Is(wrapped, base))

	internal := WrapInternal("writing conversation entry", base)
	assert.Equal(t, ErrorTypeInternal, GetErrorType(internal))
}
