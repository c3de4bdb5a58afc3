package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrorClass is the coarse classification every error carries when it leaves an adapter.
type ErrorClass string

const (
	// ClassUserError marks failures attributable to the caller (bad input, missing record).
	ClassUserError ErrorClass = "USER_ERROR"

	// ClassInternal marks infrastructure or logic faults.
	ClassInternal ErrorClass = "INTERNAL"
)

// ErrorType refines the class for rendering and logging
type ErrorType string

const (
	// User error types
	ErrorTypeValidation   ErrorType = "VALIDATION"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypePrecondition ErrorType = "PRECONDITION"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeRateLimit    ErrorType = "RATE_LIMIT"

	// Internal error types
	ErrorTypeInternal    ErrorType = "INTERNAL"
	ErrorTypeDatabase    ErrorType = "DATABASE"
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"
)

// internalMessage is what callers see for any internal failure.
const internalMessage = "an internal error occurred"

// AppError represents an application-specific error
type AppError struct {
	Class      ErrorClass             `json:"class"`
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	MethodPath string                 `json:"methodPath,omitempty"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	prefix := string(e.Class)
	if e.MethodPath != "" {
		prefix = fmt.Sprintf("%s %s", e.Class, e.MethodPath)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s (caused by: %v)", prefix, e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", prefix, e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetail adds a single error detail
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// WithMethodPath tags the error with the operation it originated from
func (e *AppError) WithMethodPath(methodPath string) *AppError {
	e.MethodPath = methodPath
	return e
}

// IsUser reports whether the error is attributable to the caller
func (e *AppError) IsUser() bool {
	return e.Class == ClassUserError
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

func newError(class ErrorClass, errType ErrorType, status int, message string) *AppError {
	return &AppError{
		Class:      class,
		Type:       errType,
		Message:    message,
		HTTPStatus: status,
		StackTrace: captureStackTrace(),
	}
}

// Constructor functions for common error types

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return newError(ClassUserError, ErrorTypeValidation, http.StatusBadRequest, message)
}

// NewNotFoundError creates a not found error; message is used verbatim
func NewNotFoundError(message string) *AppError {
	return newError(ClassUserError, ErrorTypeNotFound, http.StatusNotFound, message)
}

// NewPreconditionError creates an error for an operation the current state does not allow
func NewPreconditionError(message string) *AppError {
	return newError(ClassUserError, ErrorTypePrecondition, http.StatusBadRequest, message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return newError(ClassUserError, ErrorTypeUnauthorized, http.StatusUnauthorized, message)
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(message string) *AppError {
	return newError(ClassUserError, ErrorTypeRateLimit, http.StatusTooManyRequests, message)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return newError(ClassInternal, ErrorTypeInternal, http.StatusInternalServerError, message)
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, err error) *AppError {
	return newError(ClassInternal, ErrorTypeDatabase, http.StatusInternalServerError,
		fmt.Sprintf("database operation '%s' failed", operation)).WithCause(err)
}

// NewUnavailableError creates a service unavailable error
func NewUnavailableError(service string, err error) *AppError {
	return newError(ClassInternal, ErrorTypeUnavailable, http.StatusServiceUnavailable,
		fmt.Sprintf("service '%s' is unavailable", service)).WithCause(err)
}

// Classify is the single classification point for errors leaving an adapter.
//
// An *AppError already in the chain keeps its class and type; it only gains the
// method path when it has none. Any other error becomes an AppError of the given
// class. Internal errors get a generic message so nothing from the cause leaks.
func Classify(err error, methodPath string, class ErrorClass) *AppError {
	if err == nil {
		return nil
	}

	if appErr := GetAppError(err); appErr != nil {
		if appErr.MethodPath == "" {
			appErr.MethodPath = methodPath
		}
		return appErr
	}

	var classified *AppError
	if class == ClassUserError {
		classified = NewValidationError(err.Error())
	} else {
		classified = NewInternalError(internalMessage)
	}
	return classified.WithCause(err).WithMethodPath(methodPath)
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// ClassOf returns the class of err; unclassified errors are internal
func ClassOf(err error) ErrorClass {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Class
	}
	return ClassInternal
}

// IsUserError checks if an error is attributable to the caller
func IsUserError(err error) bool {
	return err != nil && ClassOf(err) == ClassUserError
}

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool {
	return err != nil && ClassOf(err) == ClassInternal
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}
