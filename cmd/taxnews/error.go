// cmd/taxnews/error.go
package main

import "fmt"

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeFetch     ErrorType = "fetch"
	ErrorTypeAggregate ErrorType = "aggregate"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeInternal  ErrorType = "internal"
)

// AppError is the custom error type for the application
type AppError struct {
	Type    ErrorType
	Code    string
	Message string
	Inner   error
}

func (e *AppError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("[%s-%s] %s: %v", e.Type, e.Code, e.Message, e.Inner)
	}
	return fmt.Sprintf("[%s-%s] %s", e.Type, e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Inner
}

// NewError creates a new AppError
func NewError(errType ErrorType, code string, message string, inner error) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
		Inner:   inner,
	}
}

// Common error constructors
func NewFetchError(code string, message string, inner error) *AppError {
	return NewError(ErrorTypeFetch, code, message, inner)
}

func NewAggregateError(code string, message string, inner error) *AppError {
	return NewError(ErrorTypeAggregate, code, message, inner)
}

func NewConfigError(code string, message string, inner error) *AppError {
	return NewError(ErrorTypeConfig, code, message, inner)
}

// Error codes
const (
	// Fetch error codes: one source unreachable or unparsable. Never
	// fatal; the source contributes zero items for the cycle.
	ErrFetchRequest = "FETCH_001"
	ErrFetchStatus  = "FETCH_002"
	ErrFetchParse   = "FETCH_003"

	// Aggregate error codes: fatal to a caller only when no prior
	// snapshot exists.
	ErrAggregateNoSources = "AGG_001"
	ErrAggregateCancelled = "AGG_002"

	// Config error codes: fatal at boot
	ErrConfigLoad       = "CONFIG_001"
	ErrConfigValidation = "CONFIG_002"
)
