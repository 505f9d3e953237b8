package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rekindle/internal/auth"
	"rekindle/internal/dashboard"
	apperrors "rekindle/internal/errors"
	"rekindle/internal/intake"
	"rekindle/internal/intake/intakestore"
	"rekindle/internal/submission"
)

type scriptedBackend struct {
	err      error
	payloads []submission.Payload
}

func (b *scriptedBackend) Submit(ctx context.Context, token string, payload submission.Payload) error {
	if b.err != nil {
		return b.err
	}
	b.payloads = append(b.payloads, payload)
	return nil
}

func newTestCoordinator(backend submission.Backend) (*Coordinator, intakestore.Store) {
	store := intakestore.NewMemoryStore()
	return NewCoordinator(
		store,
		submission.NewService(store, backend),
		dashboard.NewService(nil),
		NewFeedbackBroadcaster(0),
	), store
}

func testIdentity() auth.Identity {
	return auth.Identity{UserID: "user-1", Email: "ada@example.org", DisplayName: "Ada Lovelace"}
}

func answerFor(q intake.Question) intake.Value {
	switch q.Kind {
	case intake.KindInteger:
		n := q.MinValue
		if n < 1 {
			n = 1
		}
		return intake.NumberValue(n)
	case intake.KindSingleChoice:
		return intake.TextValue(intake.KindSingleChoice, q.Options[0])
	case intake.KindMultiChoice:
		return intake.ListValue(q.Options[:1])
	default:
		return intake.TextValue(q.Kind, "Ada Lovelace")
	}
}

// runToCompletion answers and advances until the terminal step. The final
// Advance's result and error are returned.
func runToCompletion(t *testing.T, coord *Coordinator, sessionID string) (AdvanceResult, error) {
	t.Helper()
	ctx := context.Background()
	for {
		view, err := coord.Session(ctx, sessionID)
		require.NoError(t, err)
		require.NotNil(t, view.Question)

		_, err = coord.RecordAnswer(ctx, sessionID, "", answerFor(*view.Question), false)
		require.NoError(t, err)

		result, err := coord.Advance(ctx, sessionID, testIdentity(), "tok")
		if result.Done {
			return result, err
		}
		require.NoError(t, err)
	}
}

func TestCreateSessionStartsAtFirstQuestion(t *testing.T) {
	t.Parallel()

	coord, _ := newTestCoordinator(&scriptedBackend{})
	view, err := coord.CreateSession(context.Background(), testIdentity())
	require.NoError(t, err)

	assert.Equal(t, intake.StateActive, view.State)
	assert.Equal(t, 1, view.Step)
	assert.Equal(t, 8, view.Total, "two branch questions start hidden")
	require.NotNil(t, view.Question)
	assert.Equal(t, intake.QuestionName, view.Question.ID)
	assert.False(t, view.CanAdvance)
}

func TestAdvanceRequiresValidAnswer(t *testing.T) {
	t.Parallel()

	coord, _ := newTestCoordinator(&scriptedBackend{})
	view, err := coord.CreateSession(context.Background(), testIdentity())
	require.NoError(t, err)

	_, err = coord.Advance(context.Background(), view.ID, testIdentity(), "tok")
	assert.ErrorIs(t, err, intake.ErrCannotAdvance)
}

func TestRecordAnswerPublishesFeedback(t *testing.T) {
	t.Parallel()

	coord, _ := newTestCoordinator(&scriptedBackend{})
	view, err := coord.CreateSession(context.Background(), testIdentity())
	require.NoError(t, err)

	ch, cancel := coord.Broadcaster.Subscribe(view.ID)
	defer cancel()

	updated, err := coord.RecordAnswer(context.Background(), view.ID, "", intake.TextValue(intake.KindShortText, "Ada"), false)
	require.NoError(t, err)
	assert.NotEmpty(t, updated.Feedback)
	assert.True(t, updated.CanAdvance)

	event := <-ch
	assert.Equal(t, intake.QuestionName, event.QuestionID)
	assert.Equal(t, updated.Feedback, event.Message)
}

func TestAutoAdvanceStopsAtTerminalStep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	coord, _ := newTestCoordinator(&scriptedBackend{})
	view, err := coord.CreateSession(ctx, testIdentity())
	require.NoError(t, err)

	// A valid answer with the advance flag moves the cursor in one call.
	updated, err := coord.RecordAnswer(ctx, view.ID, "", intake.TextValue(intake.KindShortText, "Ada"), true)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Step)
	assert.Equal(t, intake.QuestionFamilySize, updated.Question.ID)

	// Walk to the last step with the flag; the session must stay active.
	for !updated.IsLastStep {
		updated, err = coord.RecordAnswer(ctx, updated.ID, "", answerFor(*updated.Question), true)
		require.NoError(t, err)
	}
	assert.Equal(t, intake.StateActive, updated.State)

	// The flag never triggers submission on the last question.
	updated, err = coord.RecordAnswer(ctx, updated.ID, "", answerFor(*updated.Question), true)
	require.NoError(t, err)
	assert.Equal(t, intake.StateActive, updated.State)
	assert.True(t, updated.IsLastStep)
}

func TestRetreatAndReAdvance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	coord, _ := newTestCoordinator(&scriptedBackend{})
	view, err := coord.CreateSession(ctx, testIdentity())
	require.NoError(t, err)

	_, err = coord.Retreat(ctx, view.ID)
	assert.ErrorIs(t, err, intake.ErrAtFirstQuestion)

	_, err = coord.RecordAnswer(ctx, view.ID, "", intake.TextValue(intake.KindShortText, "Ada"), true)
	require.NoError(t, err)

	back, err := coord.Retreat(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, back.Step)
	// The earlier answer is retained, so advancing again needs no rewrite.
	assert.True(t, back.CanAdvance)
}

func TestFullRunSubmits(t *testing.T) {
	t.Parallel()

	backend := &scriptedBackend{}
	coord, _ := newTestCoordinator(backend)
	view, err := coord.CreateSession(context.Background(), testIdentity())
	require.NoError(t, err)

	result, err := runToCompletion(t, coord, view.ID)
	require.NoError(t, err)
	assert.True(t, result.Done)
	require.NotNil(t, result.Profile)
	assert.Equal(t, "Ada Lovelace", result.Profile.Name)
	assert.Equal(t, intake.StateSubmitted, result.View.State)
	assert.True(t, result.View.RemoteSaved)
	require.Len(t, backend.payloads, 1)
	assert.Equal(t, "user-1", backend.payloads[0].UserID)

	// The terminal state survives a reload and the profile is queryable.
	reloaded, err := coord.Session(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, intake.StateSubmitted, reloaded.State)
	profile, err := coord.Profile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, *result.Profile, profile)
}

func TestRemoteFailureThenRetry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := &scriptedBackend{err: errors.New("collaborator down")}
	coord, _ := newTestCoordinator(backend)
	view, err := coord.CreateSession(ctx, testIdentity())
	require.NoError(t, err)

	result, err := runToCompletion(t, coord, view.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsRecoverable(err))
	assert.True(t, result.Done)
	require.NotNil(t, result.Profile, "the profile must be returned even when the collaborator is down")
	assert.Equal(t, intake.StateSubmitted, result.View.State)
	assert.False(t, result.View.RemoteSaved)

	// The failure persisted; a reload shows the retryable state.
	reloaded, err := coord.Session(ctx, view.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.RemoteSaved)

	backend.err = nil
	retry, err := coord.RetrySubmission(ctx, view.ID, testIdentity(), "tok")
	require.NoError(t, err)
	assert.True(t, retry.View.RemoteSaved)
	assert.Equal(t, result.Profile.CompletedAt, retry.Profile.CompletedAt)

	reloaded, err = coord.Session(ctx, view.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.RemoteSaved)
}

func TestSubmittedSessionRejectsMutation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	coord, _ := newTestCoordinator(&scriptedBackend{})
	view, err := coord.CreateSession(ctx, testIdentity())
	require.NoError(t, err)
	_, err = runToCompletion(t, coord, view.ID)
	require.NoError(t, err)

	_, err = coord.RecordAnswer(ctx, view.ID, "", intake.TextValue(intake.KindShortText, "late"), false)
	assert.ErrorIs(t, err, intake.ErrSessionSubmitted)
	_, err = coord.Retreat(ctx, view.ID)
	assert.ErrorIs(t, err, intake.ErrSessionSubmitted)
	_, err = coord.Advance(ctx, view.ID, testIdentity(), "tok")
	assert.ErrorIs(t, err, intake.ErrSessionSubmitted)
}

func TestDeleteSessionRemovesIt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	coord, _ := newTestCoordinator(&scriptedBackend{})
	view, err := coord.CreateSession(ctx, testIdentity())
	require.NoError(t, err)

	require.NoError(t, coord.DeleteSession(ctx, view.ID))
	_, err = coord.Session(ctx, view.ID)
	assert.ErrorIs(t, err, intakestore.ErrSessionNotFound)

	ids, err := coord.ListSessions(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRecordAnswerForHiddenQuestionFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	coord, _ := newTestCoordinator(&scriptedBackend{})
	view, err := coord.CreateSession(ctx, testIdentity())
	require.NoError(t, err)

	_, err = coord.RecordAnswer(ctx, view.ID, intake.QuestionSchoolStatus, intake.TextValue(intake.KindSingleChoice, "Transferring"), false)
	assert.ErrorIs(t, err, intake.ErrQuestionNotVisible)
}
