package kvstore

import "fmt"

// StoreError represents a persistence error with a code and message.
// Codes mirror domain error codes to avoid a circular import.
type StoreError struct {
	Code    string
	Message string
}

const (
	codeInternal = "internal"
	codeInvalid  = "invalid"
)

func (e *StoreError) Error() string {
	return e.Message
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *StoreError) ErrorCode() string {
	return e.Code
}

// ErrUnknownProvider creates an error for unknown store providers.
func ErrUnknownProvider(provider string) error {
	return &StoreError{
		Code:    codeInvalid,
		Message: fmt.Sprintf("unknown store provider: %s", provider),
	}
}
