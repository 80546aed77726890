// Package shared holds the error vocabulary common to all domain
// services.
package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// InvalidInput creates an invalid-input error carrying a specific
// message. It matches IsInvalidInput.
func InvalidInput(message string) *DomainError {
	return NewDomainError(CodeInvalidInput, message)
}

// Error codes used across the domain
const (
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidInput = "INVALID_INPUT"
)

// Common domain errors
var (
	ErrNotFound     = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput = NewDomainError(CodeInvalidInput, "Invalid input provided")
)

// IsNotFound reports whether err is the not-found domain error.
func IsNotFound(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == CodeNotFound
}

// IsInvalidInput reports whether err is an invalid-input domain error.
func IsInvalidInput(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == CodeInvalidInput
}
