package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"rekindle/internal/logging"
	"rekindle/internal/server/app"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// StreamHandler pushes feedback events for one session over a websocket.
type StreamHandler struct {
	coordinator *app.Coordinator
	upgrader    websocket.Upgrader
	logger      logging.Logger
}

// NewStreamHandler creates a stream handler. Origin checks are handled by
// the CORS layer; the upgrader accepts what reaches it.
func NewStreamHandler(coordinator *app.Coordinator) *StreamHandler {
	return &StreamHandler{
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logging.NewComponentLogger("StreamHandler"),
	}
}

// Stream subscribes the client to its session's feedback events until the
// connection drops.
func (h *StreamHandler) Stream(c *gin.Context) {
	sessionID := c.Param("id")
	view, err := h.coordinator.Session(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	if view.UserID != callerIdentity(c).UserID {
		c.JSON(http.StatusForbidden, APIResponse{Success: false, Error: "session belongs to a different user"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed for session %s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	events, cancel := h.coordinator.Broadcaster.Subscribe(sessionID)
	defer cancel()

	// Reader goroutine: the client sends nothing meaningful, but reading is
	// required to notice disconnects and answer pings.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	h.logger.Debug("stream opened for session %s", sessionID)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			frame := StreamMessage{
				Type:      "feedback",
				Data:      event,
				Timestamp: event.Timestamp,
				SessionID: sessionID,
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(frame); err != nil {
				h.logger.Debug("stream write failed for session %s: %v", sessionID, err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
