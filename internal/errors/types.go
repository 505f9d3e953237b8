package errors

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// TransientError marks a failure worth retrying, such as a flaky network hop
// or an overloaded collaborator.
type TransientError struct {
	Err        error
	StatusCode int // HTTP status code if applicable
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// PermanentError marks a failure that retrying cannot fix, such as a rejected
// credential or a malformed payload.
type PermanentError struct {
	Err        error
	StatusCode int
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent error: %v", e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// RecoverableError wraps a failure the user can act on without losing state:
// the operation did not fully succeed, but everything needed to try again is
// still in place. Remote submission failures are the canonical case.
type RecoverableError struct {
	Err     error
	Message string // user-facing description
}

func (e *RecoverableError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("recoverable error: %v", e.Err)
}

func (e *RecoverableError) Unwrap() error {
	return e.Err
}

// Recoverable wraps err with a user-facing message.
func Recoverable(err error, message string) error {
	if err == nil {
		return nil
	}
	return &RecoverableError{Err: err, Message: message}
}

// IsRecoverable reports whether err carries a RecoverableError anywhere in
// its chain.
func IsRecoverable(err error) bool {
	var recoverable *RecoverableError
	return errors.As(err, &recoverable)
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var transient *TransientError
	if errors.As(err, &transient) {
		return true
	}
	var permanent *PermanentError
	if errors.As(err, &permanent) {
		return false
	}

	if isNetworkError(err) {
		return true
	}

	return false
}

// ClassifyHTTPStatus wraps err according to the HTTP status of a collaborator
// response. Server-side and throttling statuses are transient; the rest of
// the 4xx range is permanent.
func ClassifyHTTPStatus(status int, err error) error {
	if err == nil {
		return nil
	}
	if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
		return &TransientError{Err: err, StatusCode: status}
	}
	if status >= http.StatusBadRequest {
		return &PermanentError{Err: err, StatusCode: status}
	}
	return err
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	msg := err.Error()
	for _, marker := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"i/o timeout",
		"EOF",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
