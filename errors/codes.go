package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInvalidFormat indicates a field has an invalid format.
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates a configuration value failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Exit statuses used by the diarkit CLI.
const (
	ExitOK       = 0
	ExitInternal = 1
	ExitUsage    = 2
	ExitConfig   = 3
)

var exitCodes = map[ErrorCode]int{
	ErrCodeInvalidInput:  ExitUsage,
	ErrCodeMissingField:  ExitUsage,
	ErrCodeInvalidFormat: ExitUsage,
	ErrCodeInvalidConfig: ExitConfig,
	ErrCodeInternal:      ExitInternal,
}

// ExitCodeFor returns the process exit status for an error code.
// Unknown codes map to ExitInternal.
func ExitCodeFor(code ErrorCode) int {
	if c, ok := exitCodes[code]; ok {
		return c
	}
	return ExitInternal
}
