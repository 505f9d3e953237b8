// Package app coordinates the intake engine, persistence, submission, and
// dashboard services behind the HTTP handlers. All session mutations are
// serialized per session here, so the engine itself stays lock-free.
package app

import (
	"context"
	"sync"
	"time"

	"rekindle/internal/auth"
	"rekindle/internal/dashboard"
	"rekindle/internal/intake"
	"rekindle/internal/intake/intakestore"
	"rekindle/internal/logging"
	"rekindle/internal/submission"
)

// SessionView is the read model handlers return for every session operation.
type SessionView struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	State       intake.State     `json:"state"`
	Step        int              `json:"step"`
	Total       int              `json:"total"`
	Question    *intake.Question `json:"question,omitempty"`
	Answers     intake.Answers   `json:"answers"`
	Feedback    string           `json:"feedback,omitempty"`
	CanAdvance  bool             `json:"can_advance"`
	IsLastStep  bool             `json:"is_last_step"`
	RemoteSaved bool             `json:"remote_saved"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// AdvanceResult reports the outcome of an advance or resubmission.
type AdvanceResult struct {
	View SessionView `json:"session"`
	// Done is true once the terminal step has run; Profile is set with it.
	Done    bool            `json:"done"`
	Profile *intake.Profile `json:"profile,omitempty"`
}

// Coordinator wires the intake engine to its collaborators.
type Coordinator struct {
	Dashboards  *dashboard.Service
	Broadcaster *FeedbackBroadcaster

	store     intakestore.Store
	submitter *submission.Service
	logger    logging.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewCoordinator creates a coordinator over the given collaborators.
func NewCoordinator(store intakestore.Store, submitter *submission.Service, dashboards *dashboard.Service, broadcaster *FeedbackBroadcaster) *Coordinator {
	return &Coordinator{
		Dashboards:  dashboards,
		Broadcaster: broadcaster,
		store:       store,
		submitter:   submitter,
		logger:      logging.NewComponentLogger("Coordinator"),
		locks:       make(map[string]*sync.Mutex),
	}
}

// lockSession serializes mutations for one session across requests.
func (c *Coordinator) lockSession(sessionID string) func() {
	c.locksMu.Lock()
	lock, ok := c.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[sessionID] = lock
	}
	c.locksMu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (c *Coordinator) releaseLock(sessionID string) {
	c.locksMu.Lock()
	delete(c.locks, sessionID)
	c.locksMu.Unlock()
}

func snapshot(session *intake.Session) SessionView {
	view := SessionView{
		ID:          session.ID,
		UserID:      session.UserID,
		State:       session.State,
		Answers:     session.Answers,
		Feedback:    session.Feedback,
		CanAdvance:  session.CanAdvance(),
		IsLastStep:  session.IsLastStep(),
		RemoteSaved: session.RemoteSaved,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}
	view.Step, view.Total = session.Progress()
	if session.State == intake.StateActive {
		if current, ok := session.Current(); ok {
			view.Question = &current
		}
	}
	return view
}

// Catalog returns the full question list in catalog order.
func (c *Coordinator) Catalog() []intake.Question {
	return intake.Catalog()
}

// CreateSession starts a fresh session for the caller.
func (c *Coordinator) CreateSession(ctx context.Context, identity auth.Identity) (SessionView, error) {
	session := intake.NewSession(identity.UserID)
	if err := c.store.SaveSession(ctx, session); err != nil {
		return SessionView{}, err
	}
	c.logger.Info("created session %s for %s", session.ID, identity.UserID)
	return snapshot(session), nil
}

// Session loads one session.
func (c *Coordinator) Session(ctx context.Context, sessionID string) (SessionView, error) {
	session, err := c.store.GetSession(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return snapshot(session), nil
}

// ListSessions returns the caller's session IDs.
func (c *Coordinator) ListSessions(ctx context.Context, userID string) ([]string, error) {
	return c.store.ListSessions(ctx, userID)
}

// DeleteSession removes a session and cancels any pending feedback.
func (c *Coordinator) DeleteSession(ctx context.Context, sessionID string) error {
	unlock := c.lockSession(sessionID)
	defer unlock()

	if err := c.store.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	c.Broadcaster.Drop(sessionID)
	c.releaseLock(sessionID)
	return nil
}

// RecordAnswer writes an answer for questionID ("" means the current
// question), publishes the feedback event, and optionally advances past the
// question when the client asked for it. Auto-advance never crosses the
// terminal step; completing the questionnaire is always an explicit Advance.
func (c *Coordinator) RecordAnswer(ctx context.Context, sessionID, questionID string, value intake.Value, andAdvance bool) (SessionView, error) {
	unlock := c.lockSession(sessionID)
	defer unlock()

	session, err := c.store.GetSession(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}

	if questionID == "" {
		if current, ok := session.Current(); ok {
			questionID = current.ID
		}
	}
	if err := session.RecordAnswerFor(questionID, value); err != nil {
		return SessionView{}, err
	}

	c.Broadcaster.Publish(FeedbackEvent{
		SessionID:  sessionID,
		QuestionID: questionID,
		Message:    session.Feedback,
	})

	if andAdvance && !session.IsLastStep() && session.CanAdvance() {
		if _, err := session.Advance(); err != nil {
			return SessionView{}, err
		}
	}

	if err := c.store.SaveSession(ctx, session); err != nil {
		return SessionView{}, err
	}
	return snapshot(session), nil
}

// Advance moves the cursor forward. On the terminal step it runs the
// submission sequence; a recoverable submission error is returned alongside
// the result so handlers can surface the profile anyway.
func (c *Coordinator) Advance(ctx context.Context, sessionID string, identity auth.Identity, token string) (AdvanceResult, error) {
	unlock := c.lockSession(sessionID)
	defer unlock()

	session, err := c.store.GetSession(ctx, sessionID)
	if err != nil {
		return AdvanceResult{}, err
	}

	done, err := session.Advance()
	if err != nil {
		return AdvanceResult{View: snapshot(session)}, err
	}
	if !done {
		if err := c.store.SaveSession(ctx, session); err != nil {
			return AdvanceResult{}, err
		}
		return AdvanceResult{View: snapshot(session)}, nil
	}

	profile, subErr := c.submitter.Complete(ctx, session, submissionIdentity(identity), token)
	// The terminal transition happened even when the collaborator call
	// failed; the session must be persisted either way.
	if err := c.store.SaveSession(ctx, session); err != nil {
		return AdvanceResult{}, err
	}
	c.Broadcaster.Drop(sessionID)

	return AdvanceResult{View: snapshot(session), Done: true, Profile: &profile}, subErr
}

// Retreat moves the cursor back one visible question.
func (c *Coordinator) Retreat(ctx context.Context, sessionID string) (SessionView, error) {
	unlock := c.lockSession(sessionID)
	defer unlock()

	session, err := c.store.GetSession(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if err := session.Retreat(); err != nil {
		return SessionView{}, err
	}
	if err := c.store.SaveSession(ctx, session); err != nil {
		return SessionView{}, err
	}
	return snapshot(session), nil
}

// RetrySubmission re-posts a submission that failed remotely.
func (c *Coordinator) RetrySubmission(ctx context.Context, sessionID string, identity auth.Identity, token string) (AdvanceResult, error) {
	unlock := c.lockSession(sessionID)
	defer unlock()

	session, err := c.store.GetSession(ctx, sessionID)
	if err != nil {
		return AdvanceResult{}, err
	}

	profile, subErr := c.submitter.Retry(ctx, session, submissionIdentity(identity), token)
	if subErr == nil {
		if err := c.store.SaveSession(ctx, session); err != nil {
			return AdvanceResult{}, err
		}
	}
	return AdvanceResult{View: snapshot(session), Done: true, Profile: &profile}, subErr
}

// Profile returns the caller's stored household profile.
func (c *Coordinator) Profile(ctx context.Context, userID string) (intake.Profile, error) {
	return c.store.GetProfile(ctx, userID)
}

// Responses returns the caller's last completed answer map.
func (c *Coordinator) Responses(ctx context.Context, userID string) (intake.Answers, error) {
	return c.store.GetResponses(ctx, userID)
}

func submissionIdentity(identity auth.Identity) submission.Identity {
	return submission.Identity{
		UserID:      identity.UserID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
	}
}
