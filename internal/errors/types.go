package errors

import (
	"fmt"
	"strings"
)

// ModgenError is implemented by every error modgen reports to the user
type ModgenError interface {
	error
	ErrorCode() ErrorCode
	Location() SourceLocation
	Context() map[string]interface{}
	Suggestions() []string
	Unwrap() error
}

// ErrorCode classifies an error for reporting
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota

	// problems with the Rust input
	SyntaxErrorCode
	DeclarationErrorCode
	StructuralErrorCode

	// problems running the tool
	ConfigurationErrorCode
	FileSystemErrorCode
	GenerationErrorCode
)

var codeNames = [...]string{
	UnknownErrorCode:       "UnknownError",
	SyntaxErrorCode:        "SyntaxError",
	DeclarationErrorCode:   "DeclarationError",
	StructuralErrorCode:    "StructuralError",
	ConfigurationErrorCode: "ConfigurationError",
	FileSystemErrorCode:    "FileSystemError",
	GenerationErrorCode:    "GenerationError",
}

func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return codeNames[UnknownErrorCode]
	}
	return codeNames[c]
}

// SourceLocation is a position in an input file. Line and Column are 1-based;
// zero means unknown.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (s SourceLocation) String() string {
	switch {
	case s.File == "":
		return "unknown location"
	case s.Line == 0:
		return s.File
	case s.Column == 0:
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// IsEmpty reports whether the location names no file
func (s SourceLocation) IsEmpty() bool {
	return s.File == ""
}

// BaseError carries the parts shared by all modgen errors. The typed errors
// in input.go embed it.
type BaseError struct {
	code        ErrorCode
	msg         string
	loc         SourceLocation
	cause       error
	context     map[string]interface{}
	suggestions []string
}

// Error renders "location: message: cause", omitting the parts that are unset
func (e *BaseError) Error() string {
	var b strings.Builder
	if !e.loc.IsEmpty() {
		b.WriteString(e.loc.String())
		b.WriteString(": ")
	}
	b.WriteString(e.msg)
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *BaseError) ErrorCode() ErrorCode     { return e.code }
func (e *BaseError) Location() SourceLocation { return e.loc }
func (e *BaseError) Suggestions() []string    { return e.suggestions }
func (e *BaseError) Unwrap() error            { return e.cause }

// Context never returns nil
func (e *BaseError) Context() map[string]interface{} {
	if e.context == nil {
		return map[string]interface{}{}
	}
	return e.context
}

func (e *BaseError) WithLocation(loc SourceLocation) *BaseError {
	e.loc = loc
	return e
}

func (e *BaseError) WithContext(key string, value interface{}) *BaseError {
	if e.context == nil {
		e.context = make(map[string]interface{})
	}
	e.context[key] = value
	return e
}

func (e *BaseError) WithSuggestion(suggestion string) *BaseError {
	e.suggestions = append(e.suggestions, suggestion)
	return e
}

func New(code ErrorCode, message string) *BaseError {
	return &BaseError{code: code, msg: message}
}

func Newf(code ErrorCode, format string, args ...interface{}) *BaseError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap is New with an underlying cause, which Error appends to the message
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{code: code, msg: message, cause: cause}
}

// MultipleErrors collects the failures of a run that keeps going after the
// first one, such as expanding many files. Is and As see every collected
// error through Unwrap.
type MultipleErrors struct {
	Errors []ModgenError
}

func NewMultipleErrors() *MultipleErrors {
	return &MultipleErrors{}
}

func (e *MultipleErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}

	lines := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		lines[i] = fmt.Sprintf("  %d. %s", i+1, err)
	}
	return fmt.Sprintf("multiple errors (%d total):\n%s", len(e.Errors), strings.Join(lines, "\n"))
}

func (e *MultipleErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Add appends err, flattening nested collections. Errors outside the
// hierarchy are wrapped with UnknownErrorCode.
func (e *MultipleErrors) Add(err error) {
	switch err := err.(type) {
	case nil:
	case *MultipleErrors:
		e.Errors = append(e.Errors, err.Errors...)
	case ModgenError:
		e.Errors = append(e.Errors, err)
	default:
		e.Errors = append(e.Errors, Wrap(UnknownErrorCode, "unexpected error", err))
	}
}

func (e *MultipleErrors) Count() int { return len(e.Errors) }

// HasCode reports whether any collected error has code
func (e *MultipleErrors) HasCode(code ErrorCode) bool {
	for _, err := range e.Errors {
		if err.ErrorCode() == code {
			return true
		}
	}
	return false
}

// ErrorOrNil returns nil when nothing was collected
func (e *MultipleErrors) ErrorOrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
