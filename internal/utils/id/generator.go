package id

import (
	"fmt"

	"github.com/google/uuid"
)

// NewSessionID generates a new intake session identifier with a stable
// prefix for display and log grepping.
func NewSessionID() string {
	return newIdentifier("session")
}

// NewRequestID generates a per-request identifier for log correlation.
func NewRequestID() string {
	return newIdentifier("req")
}

func newIdentifier(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}
