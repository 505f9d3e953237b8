package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "rekindle/internal/errors"
	"rekindle/internal/intake"
	"rekindle/internal/intake/intakestore"
	"rekindle/internal/server/app"
	"rekindle/internal/submission"
)

// IntakeHandler serves the questionnaire endpoints.
type IntakeHandler struct {
	coordinator *app.Coordinator
}

// NewIntakeHandler creates an intake handler.
func NewIntakeHandler(coordinator *app.Coordinator) *IntakeHandler {
	return &IntakeHandler{coordinator: coordinator}
}

// Catalog returns the full question list.
func (h *IntakeHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    CatalogResponse{Questions: h.coordinator.Catalog()},
	})
}

// CreateSession starts a new session for the caller.
func (h *IntakeHandler) CreateSession(c *gin.Context) {
	view, err := h.coordinator.CreateSession(c.Request.Context(), callerIdentity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: view})
}

// ListSessions returns the caller's session IDs.
func (h *IntakeHandler) ListSessions(c *gin.Context) {
	ids, err := h.coordinator.ListSessions(c.Request.Context(), callerIdentity(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: SessionListResponse{Sessions: ids}})
}

// GetSession returns one session owned by the caller.
func (h *IntakeHandler) GetSession(c *gin.Context) {
	view, ok := h.ownedSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: view})
}

// DeleteSession removes one session owned by the caller.
func (h *IntakeHandler) DeleteSession(c *gin.Context) {
	if _, ok := h.ownedSession(c); !ok {
		return
	}
	if err := h.coordinator.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: "session deleted"})
}

// RecordAnswer writes an answer and returns the refreshed view.
func (h *IntakeHandler) RecordAnswer(c *gin.Context) {
	if _, ok := h.ownedSession(c); !ok {
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("invalid request: %v", err),
		})
		return
	}

	view, err := h.coordinator.RecordAnswer(c.Request.Context(), c.Param("id"), req.QuestionID, req.Value, req.Advance)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: view})
}

// Advance moves the session forward; on the last step it runs the
// submission sequence. A failing validation is a structured "cannot
// proceed" response, not a plain error. A failing collaborator still
// returns the derived profile so the client can render the dashboard.
func (h *IntakeHandler) Advance(c *gin.Context) {
	if _, ok := h.ownedSession(c); !ok {
		return
	}

	result, err := h.coordinator.Advance(c.Request.Context(), c.Param("id"), callerIdentity(c), callerToken(c))
	switch {
	case err == nil:
		if result.Done {
			recordSubmission(result.View.RemoteSaved)
		}
		c.JSON(http.StatusOK, APIResponse{Success: true, Data: advanceResponse(result)})
	case errors.Is(err, intake.ErrCannotAdvance):
		c.JSON(http.StatusUnprocessableEntity, APIResponse{
			Success: false,
			Error:   "current answer does not satisfy validation",
			Data:    advanceResponse(result),
		})
	case apperrors.IsRecoverable(err):
		recordSubmission(false)
		c.JSON(http.StatusBadGateway, APIResponse{
			Success: false,
			Error:   err.Error(),
			Data:    advanceResponse(result),
		})
	default:
		writeError(c, err)
	}
}

// Retreat moves the session back one visible question.
func (h *IntakeHandler) Retreat(c *gin.Context) {
	if _, ok := h.ownedSession(c); !ok {
		return
	}
	view, err := h.coordinator.Retreat(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: view})
}

// RetrySubmission re-posts a submission that failed remotely.
func (h *IntakeHandler) RetrySubmission(c *gin.Context) {
	if _, ok := h.ownedSession(c); !ok {
		return
	}

	result, err := h.coordinator.RetrySubmission(c.Request.Context(), c.Param("id"), callerIdentity(c), callerToken(c))
	switch {
	case err == nil:
		recordSubmission(true)
		c.JSON(http.StatusOK, APIResponse{Success: true, Data: advanceResponse(result)})
	case apperrors.IsRecoverable(err):
		c.JSON(http.StatusBadGateway, APIResponse{
			Success: false,
			Error:   err.Error(),
			Data:    advanceResponse(result),
		})
	default:
		writeError(c, err)
	}
}

// GetProfile returns the caller's stored household profile.
func (h *IntakeHandler) GetProfile(c *gin.Context) {
	profile, err := h.coordinator.Profile(c.Request.Context(), callerIdentity(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: profile})
}

// ownedSession loads the session from the path parameter and rejects access
// by anyone but its owner.
func (h *IntakeHandler) ownedSession(c *gin.Context) (app.SessionView, bool) {
	sessionID := c.Param("id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, APIResponse{Success: false, Error: "session id is required"})
		return app.SessionView{}, false
	}
	view, err := h.coordinator.Session(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return app.SessionView{}, false
	}
	if view.UserID != callerIdentity(c).UserID {
		c.JSON(http.StatusForbidden, APIResponse{Success: false, Error: "session belongs to a different user"})
		return app.SessionView{}, false
	}
	return view, true
}

func advanceResponse(result app.AdvanceResult) AdvanceResponse {
	return AdvanceResponse{
		Session:     result.View,
		Done:        result.Done,
		CanAdvance:  result.View.CanAdvance,
		Profile:     result.Profile,
		RemoteSaved: result.View.RemoteSaved,
	}
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, intake.ErrWrongValueShape):
		status = http.StatusBadRequest
	case errors.Is(err, intakestore.ErrSessionNotFound),
		errors.Is(err, intakestore.ErrProfileNotFound),
		errors.Is(err, intakestore.ErrResponsesNotFound):
		status = http.StatusNotFound
	case errors.Is(err, intakestore.ErrWrongOwner):
		status = http.StatusForbidden
	case errors.Is(err, intake.ErrSessionSubmitted),
		errors.Is(err, intake.ErrAtFirstQuestion),
		errors.Is(err, submission.ErrNotRetryable):
		status = http.StatusConflict
	case errors.Is(err, intake.ErrQuestionNotVisible),
		errors.Is(err, intake.ErrCannotAdvance),
		errors.Is(err, submission.ErrIncomplete):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, APIResponse{Success: false, Error: err.Error()})
}
