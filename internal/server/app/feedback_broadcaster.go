package app

import (
	"sync"
	"time"

	"rekindle/internal/logging"
)

// FeedbackEvent is one acknowledgement message pushed to a session's
// stream subscribers after an answer is recorded.
type FeedbackEvent struct {
	SessionID  string    `json:"session_id"`
	QuestionID string    `json:"question_id"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

const feedbackBufferSize = 8

// FeedbackBroadcaster fans feedback events out to stream subscribers. Each
// event is delivered after a short typing delay; recording a new answer
// before the delay elapses replaces the pending event, so subscribers only
// ever see the acknowledgement for the latest answer.
type FeedbackBroadcaster struct {
	mu      sync.Mutex
	clients map[string][]chan FeedbackEvent
	pending map[string]*time.Timer
	delay   time.Duration
	logger  logging.Logger

	dropped int64
}

// NewFeedbackBroadcaster creates a broadcaster with the given typing delay.
// A zero delay delivers synchronously, which tests rely on.
func NewFeedbackBroadcaster(delay time.Duration) *FeedbackBroadcaster {
	return &FeedbackBroadcaster{
		clients: make(map[string][]chan FeedbackEvent),
		pending: make(map[string]*time.Timer),
		delay:   delay,
		logger:  logging.NewComponentLogger("FeedbackBroadcaster"),
	}
}

// Subscribe registers a client for one session's events. The returned cancel
// function must be called when the client disconnects.
func (b *FeedbackBroadcaster) Subscribe(sessionID string) (<-chan FeedbackEvent, func()) {
	ch := make(chan FeedbackEvent, feedbackBufferSize)

	b.mu.Lock()
	b.clients[sessionID] = append(b.clients[sessionID], ch)
	count := len(b.clients[sessionID])
	b.mu.Unlock()
	b.logger.Debug("session %s: %d stream subscribers", sessionID, count)

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		clients := b.clients[sessionID]
		for i, client := range clients {
			if client == ch {
				b.clients[sessionID] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
		if len(b.clients[sessionID]) == 0 {
			delete(b.clients, sessionID)
		}
		close(ch)
	}
	return ch, cancel
}

// Publish schedules event delivery after the typing delay, replacing any
// event still pending for the session.
func (b *FeedbackBroadcaster) Publish(event FeedbackEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if timer, ok := b.pending[event.SessionID]; ok {
		timer.Stop()
		delete(b.pending, event.SessionID)
	}
	if b.delay <= 0 {
		b.deliverLocked(event)
		return
	}
	b.pending[event.SessionID] = time.AfterFunc(b.delay, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.pending, event.SessionID)
		b.deliverLocked(event)
	})
}

// Drop cancels any pending event for a session, for use when the session is
// deleted or submitted.
func (b *FeedbackBroadcaster) Drop(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if timer, ok := b.pending[sessionID]; ok {
		timer.Stop()
		delete(b.pending, sessionID)
	}
}

func (b *FeedbackBroadcaster) deliverLocked(event FeedbackEvent) {
	for _, ch := range b.clients[event.SessionID] {
		select {
		case ch <- event:
		default:
			// Slow subscriber; dropping beats blocking the answer path.
			b.dropped++
			b.logger.Warn("session %s: dropped feedback event for slow subscriber", event.SessionID)
		}
	}
}

// SubscriberCount reports active subscribers for a session.
func (b *FeedbackBroadcaster) SubscriberCount(sessionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients[sessionID])
}
