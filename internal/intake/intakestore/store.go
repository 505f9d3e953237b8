// Package intakestore persists intake sessions and their outputs: the
// last-completed answer map and the active household profile, kept in
// separate per-user slots so the application shell can restore state without
// re-running intake.
package intakestore

import (
	"context"
	"errors"

	"rekindle/internal/intake"
)

var (
	// ErrSessionNotFound is returned when a session cannot be located.
	ErrSessionNotFound = errors.New("session not found")
	// ErrProfileNotFound is returned when a user has no stored profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrResponsesNotFound is returned when a user has no completed responses.
	ErrResponsesNotFound = errors.New("responses not found")
	// ErrWrongOwner is returned when a session belongs to a different user.
	ErrWrongOwner = errors.New("session belongs to a different user")
)

// Store is the durable persistence port for the intake engine.
type Store interface {
	SaveSession(ctx context.Context, session *intake.Session) error
	GetSession(ctx context.Context, sessionID string) (*intake.Session, error)
	ListSessions(ctx context.Context, userID string) ([]string, error)
	DeleteSession(ctx context.Context, sessionID string) error

	SaveResponses(ctx context.Context, userID string, answers intake.Answers) error
	GetResponses(ctx context.Context, userID string) (intake.Answers, error)

	SaveProfile(ctx context.Context, userID string, profile intake.Profile) error
	GetProfile(ctx context.Context, userID string) (intake.Profile, error)
}
