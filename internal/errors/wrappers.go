package errors

import (
	stderrors "errors"
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Invariant violations inside the rewriter are programming errors, not input
// errors. They carry a stack trace and are never shown as diagnostics.
var (
	AssertionFailedf   = crdb.AssertionFailedf
	IsAssertionFailure = crdb.IsAssertionFailure
)

// Command-level wrapping keeps hints attached for the CLI to print.
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	GetAllHints = crdb.GetAllHints
)

// Is and As understand MultipleErrors, which unwraps to every collected error.
var (
	Is     = stderrors.Is
	As     = stderrors.As
	Unwrap = stderrors.Unwrap
)

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(path, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, path)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_file", path).
		WithContext("operation", operation)
}

// WrapGenerationError wraps a failure to expand a file, keeping the code of
// an underlying modgen error
func WrapGenerationError(path string, cause error) ModgenError {
	var merr ModgenError
	if As(cause, &merr) {
		return merr
	}
	return Wrap(GenerationErrorCode, fmt.Sprintf("failed to expand '%s'", path), cause).
		WithContext("path", path)
}

// CodeOf returns the code of the first modgen error in err's chain
func CodeOf(err error) ErrorCode {
	var merr ModgenError
	if As(err, &merr) {
		return merr.ErrorCode()
	}
	return UnknownErrorCode
}
