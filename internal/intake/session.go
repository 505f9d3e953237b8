package intake

import (
	"errors"
	"fmt"
	"time"

	id "rekindle/internal/utils/id"
)

// State is the lifecycle of a session.
type State string

const (
	// StateActive - the user is moving through the questionnaire.
	StateActive State = "active"
	// StateSubmitted - terminal; the submission sequence has run and the
	// engine's job is done. No further transitions are permitted.
	StateSubmitted State = "submitted"
)

var (
	// ErrSessionSubmitted rejects mutations after the terminal transition.
	ErrSessionSubmitted = errors.New("session already submitted")
	// ErrCannotAdvance signals the current answer does not satisfy
	// validation. The API layer maps it to a non-error "cannot proceed"
	// response rather than a failure.
	ErrCannotAdvance = errors.New("current answer does not satisfy validation")
	// ErrAtFirstQuestion rejects retreating from the first question.
	ErrAtFirstQuestion = errors.New("already at the first question")
	// ErrQuestionNotVisible rejects answers for questions outside the
	// current visible sequence.
	ErrQuestionNotVisible = errors.New("question is not currently visible")
	// ErrWrongValueShape rejects answer values whose representation does
	// not fit the question kind. A client error, never a server fault.
	ErrWrongValueShape = errors.New("answer value does not match the question kind")
)

// Session holds the mutable state of one intake run: the answer map, the
// cursor into the visible question sequence, and the most recent canned
// feedback message. A session is owned by a single user and mutated only by
// that user's own request handlers.
type Session struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	Answers  Answers `json:"answers"`
	Cursor   int     `json:"cursor"`
	Feedback string  `json:"feedback,omitempty"`
	State    State   `json:"state"`
	// RemoteSaved records whether the collaborator accepted the submission.
	// False after a recoverable remote failure; retry flips it.
	RemoteSaved bool      `json:"remote_saved"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	catalog []Question
}

// NewSession starts a session at the first question with an empty answer map,
// using the built-in catalog.
func NewSession(userID string) *Session {
	return NewSessionWithCatalog(userID, nil)
}

// NewSessionWithCatalog starts a session over a custom catalog; nil means the
// built-in one.
func NewSessionWithCatalog(userID string, questions []Question) *Session {
	now := time.Now()
	return &Session{
		ID:        id.NewSessionID(),
		UserID:    userID,
		Answers:   make(Answers),
		State:     StateActive,
		CreatedAt: now,
		UpdatedAt: now,
		catalog:   questions,
	}
}

// AttachCatalog rebinds a custom catalog after deserialization. Sessions
// restored from storage use the built-in catalog unless rebound.
func (s *Session) AttachCatalog(questions []Question) {
	s.catalog = questions
}

func (s *Session) questions() []Question {
	if s.catalog != nil {
		return s.catalog
	}
	return catalog
}

// Visible returns the current visible question sequence.
func (s *Session) Visible() []Question {
	return VisibleQuestions(s.questions(), s.Answers)
}

// Current returns the question under the cursor. ok is false only for an
// empty visible sequence, which cannot happen with the built-in catalog.
func (s *Session) Current() (Question, bool) {
	visible := s.Visible()
	if len(visible) == 0 {
		return Question{}, false
	}
	return visible[s.clampedCursor(len(visible))], true
}

// Progress reports the 1-based step number and the visible sequence length.
func (s *Session) Progress() (step, total int) {
	visible := s.Visible()
	if len(visible) == 0 {
		return 0, 0
	}
	return s.clampedCursor(len(visible)) + 1, len(visible)
}

// IsLastStep reports whether the cursor is on the final visible question.
func (s *Session) IsLastStep() bool {
	step, total := s.Progress()
	return total > 0 && step == total
}

// CanAdvance reports whether the current answer satisfies validation.
func (s *Session) CanAdvance() bool {
	if s.State != StateActive {
		return false
	}
	current, ok := s.Current()
	if !ok {
		return false
	}
	return Answered(current, s.Answers)
}

// RecordAnswer writes a value for the current question, recomputes the
// visible sequence, clamps the cursor if the sequence shrank, and produces
// the canned feedback message. Changing an earlier answer may retroactively
// add or remove later questions; any now-invisible answers stay in the map
// but are ignored by visibility and derivation.
func (s *Session) RecordAnswer(value Value) error {
	return s.RecordAnswerFor("", value)
}

// RecordAnswerFor writes a value for the given question ID, or for the
// current question when questionID is "". The question must be in the
// current visible sequence.
func (s *Session) RecordAnswerFor(questionID string, value Value) error {
	if s.State != StateActive {
		return ErrSessionSubmitted
	}

	var target Question
	if questionID == "" {
		current, ok := s.Current()
		if !ok {
			return ErrQuestionNotVisible
		}
		target = current
	} else {
		found := false
		for _, q := range s.Visible() {
			if q.ID == questionID {
				target = q
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrQuestionNotVisible, questionID)
		}
	}

	if err := coerceKind(target, &value); err != nil {
		return err
	}

	if s.Answers == nil {
		s.Answers = make(Answers)
	}
	s.Answers[target.ID] = value
	s.Feedback = FeedbackFor(target.ID, value)
	s.touch()

	// The write may have shrunk the visible sequence behind the cursor.
	if visible := s.Visible(); len(visible) > 0 {
		s.Cursor = s.clampedCursor(len(visible))
	} else {
		s.Cursor = 0
	}
	return nil
}

// Advance moves to the next visible question when the current answer
// satisfies validation. On the last question it does not mutate the session:
// it returns done=true so the caller can run the submission sequence and
// then call MarkSubmitted.
func (s *Session) Advance() (done bool, err error) {
	if s.State != StateActive {
		return false, ErrSessionSubmitted
	}
	if !s.CanAdvance() {
		return false, ErrCannotAdvance
	}
	if s.IsLastStep() {
		return true, nil
	}
	s.Cursor++
	s.Feedback = ""
	s.touch()
	return false, nil
}

// Retreat moves to the previous visible question. It never re-validates the
// answer being left.
func (s *Session) Retreat() error {
	if s.State != StateActive {
		return ErrSessionSubmitted
	}
	if s.Cursor <= 0 {
		return ErrAtFirstQuestion
	}
	s.Cursor--
	s.Feedback = ""
	s.touch()
	return nil
}

// MarkSubmitted performs the terminal transition after the submission
// sequence has run. remoteSaved records the collaborator outcome.
func (s *Session) MarkSubmitted(remoteSaved bool) {
	s.State = StateSubmitted
	s.RemoteSaved = remoteSaved
	s.Feedback = ""
	s.touch()
}

// MarkRemoteSaved records a successful resubmission after an earlier
// recoverable failure.
func (s *Session) MarkRemoteSaved() {
	s.RemoteSaved = true
	s.touch()
}

// Derive builds the household profile from the session's answers. Callers
// must only invoke it once the questionnaire is complete (the terminal
// Advance or an explicit resubmission).
func (s *Session) Derive(now time.Time) Profile {
	return DeriveProfile(s.Answers, now)
}

func (s *Session) clampedCursor(visibleLen int) int {
	cursor := s.Cursor
	if cursor >= visibleLen {
		cursor = visibleLen - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

// coerceKind stamps the question's kind onto the value and rejects values
// whose representation does not fit the question.
func coerceKind(q Question, value *Value) error {
	switch q.Kind {
	case KindShortText, KindLongText, KindSingleChoice:
		if value.List != nil {
			return fmt.Errorf("%w: question %q expects a text answer", ErrWrongValueShape, q.ID)
		}
	case KindInteger:
		if value.List != nil || value.Text != "" {
			return fmt.Errorf("%w: question %q expects a numeric answer", ErrWrongValueShape, q.ID)
		}
	case KindMultiChoice:
		if value.List == nil {
			return fmt.Errorf("%w: question %q expects a list answer", ErrWrongValueShape, q.ID)
		}
	}
	value.Kind = q.Kind
	return nil
}
