package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeProvider       = "PROVIDER_ERROR"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeNotInitialized = "NOT_INITIALIZED"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrDimensionMismatch  = NewDomainError(ErrCodeValidation, "vector dimension does not match index dimension")
	ErrInvalidChunkParams = NewDomainError(ErrCodeValidation, "chunk size must be greater than overlap and overlap cannot be negative")
	ErrEmptyQuestion      = NewDomainError(ErrCodeValidation, "question cannot be empty")
	ErrEmptyDocument      = NewDomainError(ErrCodeValidation, "document contains no text")
	ErrUnsupportedFile    = NewDomainError(ErrCodeValidation, "unsupported file type, only .txt files are accepted")
	ErrInvalidURL         = NewDomainError(ErrCodeValidation, "invalid URL format")
)

// Quota and lifecycle errors
var (
	ErrRateLimited          = NewDomainError(ErrCodeRateLimited, "question limit reached, please try again later")
	ErrNotInitialized       = NewDomainError(ErrCodeNotInitialized, "no documents have been ingested yet")
	ErrNoExtractableContent = NewDomainError(ErrCodeValidation, "no extractable content found")
	ErrSuggestionsNotReady  = NewDomainError(ErrCodeNotFound, "no suggested questions available for this source")
)

// NewProviderError wraps an upstream embedding or completion failure.
func NewProviderError(operation string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeProvider, fmt.Sprintf("provider call failed during %s", operation), err)
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
