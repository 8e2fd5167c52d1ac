// Package errors defines domain error values shared across services and
// handlers. Each error carries a stable code for API clients.
package errors

import "fmt"

// CodeValidationFailed is the code carried by input validation errors, which
// are built per-field rather than declared as fixed values.
const CodeValidationFailed = "VALIDATION_FAILED"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Wrap attaches an underlying cause while keeping the domain error matchable
// with errors.Is.
func Wrap(domain *DomainError, cause error) error {
	return fmt.Errorf("%w: %v", domain, cause)
}
