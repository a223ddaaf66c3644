package domain

import (
	"errors"
	"fmt"
)

// Application error codes. Handlers map these onto HTTP statuses; the
// codes themselves are transport-agnostic.
const (
	EAUTH     = "authentication"   // bad credentials, or an embedded 403 from the auth service
	ECONFLICT = "conflict"         // resource conflict (duplicate username)
	EINTERNAL = "internal"         // internal error, details hidden from users
	EINVALID  = "invalid"          // validation failure on input
	ENOTFOUND = "not_found"        // unknown product, store or resource
	EGATEWAY  = "gateway"          // backend service answered with a non-2xx
	ENETWORK  = "network"          // transport failure or timeout reaching a backend
	ECHECKOUT = "checkout_state"   // checkout precondition failed: empty cart, no session, already in flight
	EPARTIAL  = "checkout_partial" // purchase registered but the stock sync did not complete
)

// Error is the application error: a machine-readable code, a message
// safe to show shoppers, the operation for logs, and an optional cause.
type Error struct {
	Code    string
	Message string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Op != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code of the first domain error in the chain,
// EINTERNAL for anything else, empty for nil.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

const internalMessage = "An internal error occurred. Please try again later."

// ErrorMessage returns a message safe to show the shopper. Internal and
// unrecognized errors collapse to a generic message so details never
// leak.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code != EINTERNAL {
		return e.Message
	}
	return internalMessage
}

// ErrorOp returns the operation recorded on the error, for logging.
func ErrorOp(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// Errorf builds a domain error with a formatted message.
func Errorf(code, op, format string, args ...any) error {
	return &Error{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a code, op and user-facing message to an existing
// error, keeping the cause for logs. Nil in, nil out.
func WrapError(err error, code, op, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Message: message, Err: err}
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}
