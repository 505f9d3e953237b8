// Package submission runs the end-of-intake sequence: derive the household
// profile, persist answers and profile locally, and hand the result to the
// collaborator service. A remote failure never loses state; the session
// still reaches the submitted state and can be resubmitted later.
package submission

import (
	"context"
	"errors"
	"time"

	apperrors "rekindle/internal/errors"
	"rekindle/internal/intake"
	"rekindle/internal/intake/intakestore"
	"rekindle/internal/logging"
)

var (
	// ErrIncomplete rejects submission while visible questions remain
	// unanswered.
	ErrIncomplete = errors.New("intake is not complete")
	// ErrNotRetryable rejects resubmission for sessions that never reached
	// the submitted state.
	ErrNotRetryable = errors.New("session has no failed submission to retry")
)

// Identity mirrors the authenticated caller fields the collaborator payload
// carries.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
}

// Service owns the submission sequence.
type Service struct {
	store   intakestore.Store
	backend Backend
	logger  logging.Logger
	now     func() time.Time
}

// NewService creates a submission service.
func NewService(store intakestore.Store, backend Backend) *Service {
	return &Service{
		store:   store,
		backend: backend,
		logger:  logging.NewComponentLogger("SubmissionService"),
		now:     time.Now,
	}
}

// Complete runs the full sequence for a finished session. The profile is
// always derived and persisted locally; only then is the collaborator
// called. On a remote failure the session still transitions to submitted
// with the remote flag unset, the derived profile is returned alongside a
// recoverable error, and Retry can re-post the stored answers later.
func (s *Service) Complete(ctx context.Context, session *intake.Session, identity Identity, token string) (intake.Profile, error) {
	if session.State != intake.StateActive {
		return intake.Profile{}, intake.ErrSessionSubmitted
	}
	if !intake.Complete(session.Visible(), session.Answers) {
		return intake.Profile{}, ErrIncomplete
	}

	now := s.now()
	profile := session.Derive(now)

	// Local persistence is best-effort. Losing it degrades restart recovery
	// but must not block the submission itself.
	if err := s.store.SaveResponses(ctx, identity.UserID, session.Answers); err != nil {
		s.logger.Warn("failed to persist responses for %s: %v", identity.UserID, err)
	}
	if err := s.store.SaveProfile(ctx, identity.UserID, profile); err != nil {
		s.logger.Warn("failed to persist profile for %s: %v", identity.UserID, err)
	}

	err := s.backend.Submit(ctx, token, Payload{
		UserID:      identity.UserID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Responses:   session.Answers,
		Profile:     profile,
		SubmittedAt: now.UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Warn("remote submission failed for %s: %v", identity.UserID, err)
		session.MarkSubmitted(false)
		return profile, apperrors.Recoverable(err, "your answers are saved on this device; the remote submission will be retried")
	}

	session.MarkSubmitted(true)
	s.logger.Info("intake for %s submitted", identity.UserID)
	return profile, nil
}

// Retry re-posts a previously failed submission from the locally stored
// answers and profile. Idempotent: a session whose submission already
// reached the collaborator returns its profile without a new call.
func (s *Service) Retry(ctx context.Context, session *intake.Session, identity Identity, token string) (intake.Profile, error) {
	if session.State != intake.StateSubmitted {
		return intake.Profile{}, ErrNotRetryable
	}

	profile, err := s.store.GetProfile(ctx, identity.UserID)
	if err != nil {
		// The local profile slot can be missing after a partial persistence
		// failure; re-derive from the session's own answers.
		profile = session.Derive(s.now())
	}
	if session.RemoteSaved {
		return profile, nil
	}

	responses, err := s.store.GetResponses(ctx, identity.UserID)
	if err != nil {
		responses = session.Answers
	}

	submittedAt := profile.CompletedAt
	if submittedAt == "" {
		submittedAt = s.now().UTC().Format(time.RFC3339)
	}
	err = s.backend.Submit(ctx, token, Payload{
		UserID:      identity.UserID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Responses:   responses,
		Profile:     profile,
		SubmittedAt: submittedAt,
	})
	if err != nil {
		return profile, apperrors.Recoverable(err, "the remote submission failed again; your answers remain saved on this device")
	}

	session.MarkRemoteSaved()
	s.logger.Info("resubmission for %s accepted", identity.UserID)
	return profile, nil
}
