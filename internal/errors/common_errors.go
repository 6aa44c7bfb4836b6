package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeSchemaMismatch ErrorType = "SCHEMA_MISMATCH"
	ErrTypeTypeCoercion   ErrorType = "TYPE_COERCION"
	ErrTypeParsing        ErrorType = "PARSING"
	ErrTypeStorage        ErrorType = "STORAGE"
	ErrTypeValidation     ErrorType = "VALIDATION"
	ErrTypeConfig         ErrorType = "CONFIG"
)

// Sentinels usable with errors.Is; an AppError matches the sentinel of its type.
var (
	ErrSchemaMismatch = &AppError{Type: ErrTypeSchemaMismatch, Message: "schema mismatch"}
	ErrTypeCoercion   = &AppError{Type: ErrTypeTypeCoercion, Message: "type coercion failed"}
	ErrParsing        = &AppError{Type: ErrTypeParsing, Message: "parsing failed"}
	ErrStorage        = &AppError{Type: ErrTypeStorage, Message: "storage failure"}
	ErrValidation     = &AppError{Type: ErrTypeValidation, Message: "validation failed"}
	ErrConfig         = &AppError{Type: ErrTypeConfig, Message: "invalid configuration"}
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to reach the cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewSchemaMismatchError reports a table missing an expected column.
func NewSchemaMismatchError(column string) *AppError {
	return NewAppError(ErrTypeSchemaMismatch, fmt.Sprintf("missing column %q", column), nil).
		WithContext("column", column)
}

// NewTypeCoercionError reports a value that cannot be read as its column type.
func NewTypeCoercionError(line int, column, value string, cause error) *AppError {
	return NewAppError(ErrTypeTypeCoercion,
		fmt.Sprintf("line %d: column %q: cannot convert %q", line, column, value), cause).
		WithContext("line", line).
		WithContext("column", column).
		WithContext("value", value)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}
