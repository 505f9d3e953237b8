package intakestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rekindle/internal/intake"
	"rekindle/internal/logging"
	id "rekindle/internal/utils/id"
)

// fileStore keeps one JSON file per session under <base>/sessions and one
// per user under <base>/responses and <base>/profiles. Adequate for the
// single-session ownership model; there is no cross-process coordination.
type fileStore struct {
	baseDir string
	logger  logging.Logger
}

// NewFileStore creates a file-backed store rooted at baseDir.
func NewFileStore(baseDir string) (Store, error) {
	if strings.HasPrefix(baseDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		baseDir = filepath.Join(home, baseDir[2:])
	}
	for _, sub := range []string{"sessions", "responses", "profiles"} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	return &fileStore{
		baseDir: baseDir,
		logger:  logging.NewComponentLogger("IntakeFileStore"),
	}, nil
}

func (s *fileStore) sessionPath(sessionID string) string {
	return filepath.Join(s.baseDir, "sessions", sessionID+".json")
}

func (s *fileStore) responsesPath(userID string) string {
	return filepath.Join(s.baseDir, "responses", userID+".json")
}

func (s *fileStore) profilePath(userID string) string {
	return filepath.Join(s.baseDir, "profiles", userID+".json")
}

func (s *fileStore) SaveSession(ctx context.Context, session *intake.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session is missing an id")
	}
	if userID := id.UserIDFromContext(ctx); userID != "" && session.UserID != userID {
		return ErrWrongOwner
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return writeFileAtomic(s.sessionPath(session.ID), data)
}

func (s *fileStore) GetSession(ctx context.Context, sessionID string) (*intake.Session, error) {
	data, err := os.ReadFile(s.sessionPath(sessionID))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	var session intake.Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Error("failed to decode session file %s: %v", sessionID, err)
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	if userID := id.UserIDFromContext(ctx); userID != "" && session.UserID != userID {
		return nil, ErrWrongOwner
	}
	return &session, nil
}

func (s *fileStore) ListSessions(ctx context.Context, userID string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, "sessions"))
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		sessionID := strings.TrimSuffix(entry.Name(), ".json")
		if userID == "" {
			ids = append(ids, sessionID)
			continue
		}
		session, err := s.GetSession(ctx, sessionID)
		if err != nil {
			s.logger.Warn("skipping unreadable session %s: %v", sessionID, err)
			continue
		}
		if session.UserID == userID {
			ids = append(ids, sessionID)
		}
	}
	return ids, nil
}

func (s *fileStore) DeleteSession(ctx context.Context, sessionID string) error {
	if userID := id.UserIDFromContext(ctx); userID != "" {
		session, err := s.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if session.UserID != userID {
			return ErrWrongOwner
		}
	}
	err := os.Remove(s.sessionPath(sessionID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *fileStore) SaveResponses(ctx context.Context, userID string, answers intake.Answers) error {
	if userID == "" {
		return fmt.Errorf("missing user id")
	}
	data, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return fmt.Errorf("encode responses: %w", err)
	}
	return writeFileAtomic(s.responsesPath(userID), data)
}

func (s *fileStore) GetResponses(ctx context.Context, userID string) (intake.Answers, error) {
	data, err := os.ReadFile(s.responsesPath(userID))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrResponsesNotFound, userID)
	}
	var answers intake.Answers
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("decode responses for %s: %w", userID, err)
	}
	return answers, nil
}

func (s *fileStore) SaveProfile(ctx context.Context, userID string, profile intake.Profile) error {
	if userID == "" {
		return fmt.Errorf("missing user id")
	}
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return writeFileAtomic(s.profilePath(userID), data)
}

func (s *fileStore) GetProfile(ctx context.Context, userID string) (intake.Profile, error) {
	data, err := os.ReadFile(s.profilePath(userID))
	if err != nil {
		return intake.Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
	}
	var profile intake.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return intake.Profile{}, fmt.Errorf("decode profile for %s: %w", userID, err)
	}
	return profile, nil
}

// writeFileAtomic writes via a temp file and rename so readers never observe
// a torn write.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
