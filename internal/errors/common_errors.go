package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeDataSource  ErrorType = "DATA_SOURCE"
	ErrTypeParsing     ErrorType = "PARSING"
	ErrTypeSchema      ErrorType = "SCHEMA"
	ErrTypeEmptyResult ErrorType = "EMPTY_RESULT"
	ErrTypeLookup      ErrorType = "LOOKUP"
	ErrTypeStorage     ErrorType = "STORAGE"
	ErrTypeValidation  ErrorType = "VALIDATION"
	ErrTypeNotFound    ErrorType = "NOT_FOUND"
	ErrTypeConfig      ErrorType = "CONFIG"
	ErrTypeExport      ErrorType = "EXPORT"
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

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
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

// TypeOf returns the type of the first AppError in err's chain
func TypeOf(err error) (ErrorType, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type, true
	}
	return "", false
}

// IsType reports whether err carries an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	t, ok := TypeOf(err)
	return ok && t == errType
}

// NewDataSourceError reports a missing or unreadable source. Fatal to the pipeline.
func NewDataSourceError(path string, cause error) *AppError {
	return NewAppError(ErrTypeDataSource, fmt.Sprintf("cannot read data source %q", path), cause).
		WithContext("path", path)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewRowParseError reports a malformed source row. Rows are numbered from 1,
// the header being row 1.
func NewRowParseError(row int, message string) *AppError {
	return NewAppError(ErrTypeParsing, fmt.Sprintf("row %d: %s", row, message), nil).
		WithContext("row", row)
}

// NewSchemaError reports an expected column absent from a table
func NewSchemaError(step string, columns ...string) *AppError {
	return NewAppError(ErrTypeSchema, fmt.Sprintf("%s: missing column(s) %v", step, columns), nil).
		WithContext("step", step).
		WithContext("columns", columns)
}

// NewEmptyResultWarning marks an analysis that produced no rows. Callers
// render it as a valid "no data" state.
func NewEmptyResultWarning(analysis string) *AppError {
	return NewAppError(ErrTypeEmptyResult, fmt.Sprintf("%s produced no rows", analysis), nil).
		WithContext("analysis", analysis)
}

// NewLookupMiss records a key absent from a static lookup table
func NewLookupMiss(table, key string) *AppError {
	return NewAppError(ErrTypeLookup, fmt.Sprintf("%s has no entry for %q", table, key), nil).
		WithContext("key", key)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewExportError creates an error for a failed export target
func NewExportError(target string, cause error) *AppError {
	return NewAppError(ErrTypeExport, fmt.Sprintf("export to %s failed", target), cause).
		WithContext("target", target)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
