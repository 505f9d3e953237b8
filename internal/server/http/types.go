package http

import (
	"time"

	"rekindle/internal/intake"
)

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnswerRequest records an answer for a session. QuestionID defaults to the
// current question; Advance asks the server to move past the question in the
// same call when the answer validates (choice inputs auto-advance in the UI).
type AnswerRequest struct {
	QuestionID string       `json:"question_id,omitempty"`
	Value      intake.Value `json:"value"`
	Advance    bool         `json:"advance,omitempty"`
}

// AdvanceResponse extends the session view with flags the client branches
// on after an advance attempt.
type AdvanceResponse struct {
	Session    any             `json:"session"`
	Done       bool            `json:"done"`
	CanAdvance bool            `json:"can_advance"`
	Profile    *intake.Profile `json:"profile,omitempty"`
	// RemoteSaved is false when the submission only reached local storage.
	RemoteSaved bool `json:"remote_saved"`
}

// CatalogResponse lists the full question catalog.
type CatalogResponse struct {
	Questions []intake.Question `json:"questions"`
}

// SessionListResponse lists the caller's session IDs.
type SessionListResponse struct {
	Sessions []string `json:"sessions"`
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

// StreamMessage is the websocket frame for feedback events.
type StreamMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	SessionID string      `json:"session_id,omitempty"`
}
