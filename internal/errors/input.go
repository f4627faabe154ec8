package errors

import "fmt"

// SyntaxError represents source text that could not be parsed
type SyntaxError struct {
	*BaseError
	Token string // the offending token, when known
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
	}
}

// WithToken records the offending token
func (e *SyntaxError) WithToken(token string) *SyntaxError {
	e.Token = token
	e.BaseError.WithContext("token", token)
	return e
}

// WithLocation adds location information to the error
func (e *SyntaxError) WithLocation(loc SourceLocation) *SyntaxError {
	e.BaseError.WithLocation(loc)
	return e
}

// DeclarationError represents a module-generics declaration that was
// parsed but cannot be used
type DeclarationError struct {
	*BaseError
	Entry  string // the rendered declaration entry
	Reason string // why the entry was rejected
}

// NewDeclarationError creates a new declaration error
func NewDeclarationError(entry, reason string) *DeclarationError {
	message := fmt.Sprintf("invalid module generic `%s`: %s", entry, reason)
	return &DeclarationError{
		BaseError: New(DeclarationErrorCode, message),
		Entry:     entry,
		Reason:    reason,
	}
}

// WithLocation adds location information to the error
func (e *DeclarationError) WithLocation(loc SourceLocation) *DeclarationError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *DeclarationError) WithSuggestion(suggestion string) *DeclarationError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// StructuralError represents input with the wrong shape, such as a module
// declared without a body
type StructuralError struct {
	*BaseError
	Module string // name of the offending module, if any
}

// NewStructuralError creates a new structural error
func NewStructuralError(module, message string) *StructuralError {
	err := &StructuralError{
		BaseError: New(StructuralErrorCode, message),
		Module:    module,
	}
	if module != "" {
		err.BaseError.WithContext("module", module)
	}
	return err
}

// WithLocation adds location information to the error
func (e *StructuralError) WithLocation(loc SourceLocation) *StructuralError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *StructuralError) WithSuggestion(suggestion string) *StructuralError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}
