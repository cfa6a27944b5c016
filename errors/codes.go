package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors. Fatal, raised before any persistence happens.
const (
	// ErrCodeConfiguration indicates invalid or incomplete configuration.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"
	// ErrCodeUnknownModule indicates a module specifier that cannot be located.
	ErrCodeUnknownModule ErrorCode = "UNKNOWN_MODULE"
	// ErrCodeUnknownBackend indicates a persistence backend with no binding.
	ErrCodeUnknownBackend ErrorCode = "UNKNOWN_BACKEND"
)

// Fixture processing errors
const (
	// ErrCodeParse indicates a fixture file that could not be parsed.
	ErrCodeParse ErrorCode = "PARSE_FAILED"
	// ErrCodeReferenceNotFound indicates a read of a reference never written.
	ErrCodeReferenceNotFound ErrorCode = "REFERENCE_NOT_FOUND"
	// ErrCodeLoad indicates a fixture strategy failed to persist its records.
	ErrCodeLoad ErrorCode = "LOAD_FAILED"
	// ErrCodePurge indicates a purge or integrity-check toggle failure.
	ErrCodePurge ErrorCode = "PURGE_FAILED"
)

// Generic errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeDatabaseError indicates a database error.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var configurationCodes = map[ErrorCode]bool{
	ErrCodeConfiguration:  true,
	ErrCodeUnknownModule:  true,
	ErrCodeUnknownBackend: true,
}

// IsConfigurationCode returns true for codes that abort a run before persistence.
func IsConfigurationCode(code ErrorCode) bool {
	return configurationCodes[code]
}
