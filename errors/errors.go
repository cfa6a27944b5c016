package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Detail keys used across fixture errors.
const (
	DetailFile      = "file"
	DetailModel     = "model"
	DetailBackend   = "backend"
	DetailManager   = "manager"
	DetailModule    = "module"
	DetailReference = "reference"
	DetailField     = "field"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error, including details
// in key order so messages are stable.
func (e *AppError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if len(e.Details) > 0 {
		b.WriteString(" [")
		for i, k := range slices.Sorted(maps.Keys(e.Details)) {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Details[k])
		}
		b.WriteString("]")
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, " (cause: %v)", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code, so
// errors.Is(err, &AppError{Code: ErrCodeParse}) matches any parse error.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Detail returns a detail value as a string, or "" when unset.
func (e *AppError) Detail(key string) string {
	v, ok := e.Details[key]
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// AsAppError extracts the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether any AppError in err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &AppError{Code: code})
}

// IsConfiguration reports whether err is a configuration-class error.
func IsConfiguration(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && IsConfigurationCode(appErr.Code)
}

// --- Common Error Constructors ---

// Configuration creates an error for invalid configuration.
func Configuration(format string, args ...any) *AppError {
	return New(ErrCodeConfiguration, fmt.Sprintf(format, args...))
}

// UnknownModule creates an error for a module that cannot be located.
func UnknownModule(module string) *AppError {
	return New(ErrCodeUnknownModule, fmt.Sprintf("module %q cannot be located", module)).
		WithDetail(DetailModule, module)
}

// UnknownBackend creates an error for a backend with no registered binding.
func UnknownBackend(backend string) *AppError {
	return New(ErrCodeUnknownBackend, fmt.Sprintf("no persistence backend registered for %q", backend)).
		WithDetail(DetailBackend, backend)
}

// Parse creates an error for a malformed fixture file.
func Parse(file, reason string) *AppError {
	return New(ErrCodeParse, reason).WithDetail(DetailFile, file)
}

// ReferenceNotFound creates an error for a reference read before it was written.
func ReferenceNotFound(name string) *AppError {
	return New(ErrCodeReferenceNotFound, fmt.Sprintf("reference %q has not been set", name)).
		WithDetail(DetailReference, name)
}

// Load creates an error for a fixture whose persistence failed.
func Load(file, model, backend string, cause error) *AppError {
	return New(ErrCodeLoad, "fixture load failed").
		WithDetails(map[string]any{DetailFile: file, DetailModel: model, DetailBackend: backend}).
		WithCause(cause)
}

// Purge creates an error for a purge step that failed on one manager.
func Purge(backend, manager, step string, cause error) *AppError {
	return New(ErrCodePurge, fmt.Sprintf("purge %s failed", step)).
		WithDetails(map[string]any{DetailBackend: backend, DetailManager: manager}).
		WithCause(cause)
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	e := New(ErrCodeNotFound, fmt.Sprintf("the requested %s was not found", resource)).
		WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, fmt.Sprintf("invalid input: %s", reason))
	if field != "" {
		e.WithDetail(DetailField, field)
	}
	return e
}

// Internal creates a new AppError for an unexpected error.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "an unexpected error occurred").WithCause(cause)
}

// DatabaseError creates a new AppError for a database error.
func DatabaseError(cause error) *AppError {
	return New(ErrCodeDatabaseError, "a database error occurred").WithCause(cause)
}
