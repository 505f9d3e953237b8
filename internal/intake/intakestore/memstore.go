package intakestore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"rekindle/internal/intake"
)

// memStore is an in-memory Store for tests and demo deployments.
type memStore struct {
	mu        sync.RWMutex
	sessions  map[string][]byte
	responses map[string]intake.Answers
	profiles  map[string]intake.Profile
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() Store {
	return &memStore{
		sessions:  make(map[string][]byte),
		responses: make(map[string]intake.Answers),
		profiles:  make(map[string]intake.Profile),
	}
}

func (s *memStore) SaveSession(ctx context.Context, session *intake.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session is missing an id")
	}
	// Round-trip through JSON so callers cannot alias stored state.
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = data
	return nil
}

func (s *memStore) GetSession(ctx context.Context, sessionID string) (*intake.Session, error) {
	s.mu.RLock()
	data, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	var session intake.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *memStore) ListSessions(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for sessionID, data := range s.sessions {
		if userID == "" {
			ids = append(ids, sessionID)
			continue
		}
		var session intake.Session
		if err := json.Unmarshal(data, &session); err != nil {
			continue
		}
		if session.UserID == userID {
			ids = append(ids, sessionID)
		}
	}
	return ids, nil
}

func (s *memStore) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *memStore) SaveResponses(ctx context.Context, userID string, answers intake.Answers) error {
	if userID == "" {
		return fmt.Errorf("missing user id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[userID] = answers.Clone()
	return nil
}

func (s *memStore) GetResponses(ctx context.Context, userID string) (intake.Answers, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	answers, ok := s.responses[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResponsesNotFound, userID)
	}
	return answers.Clone(), nil
}

func (s *memStore) SaveProfile(ctx context.Context, userID string, profile intake.Profile) error {
	if userID == "" {
		return fmt.Errorf("missing user id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = profile
	return nil
}

func (s *memStore) GetProfile(ctx context.Context, userID string) (intake.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return intake.Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
	}
	return profile, nil
}
