package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rekindle/internal/auth"
	"rekindle/internal/dashboard"
	"rekindle/internal/intake"
	"rekindle/internal/intake/intakestore"
	"rekindle/internal/server/app"
	"rekindle/internal/submission"
)

type scriptedBackend struct {
	err      error
	payloads []submission.Payload
	tokens   []string
}

func (b *scriptedBackend) Submit(ctx context.Context, token string, payload submission.Payload) error {
	if b.err != nil {
		return b.err
	}
	b.payloads = append(b.payloads, payload)
	b.tokens = append(b.tokens, token)
	return nil
}

type testServer struct {
	*httptest.Server
	backend *scriptedBackend
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	backend := &scriptedBackend{}
	store := intakestore.NewMemoryStore()
	coordinator := app.NewCoordinator(
		store,
		submission.NewService(store, backend),
		dashboard.NewService(nil),
		app.NewFeedbackBroadcaster(0),
	)
	router := NewRouter(coordinator, auth.NewInsecureVerifier(), RouterConfig{
		Environment:    "production",
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testServer{Server: server, backend: backend}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, APIResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

// decodeData round-trips the envelope's data field into out.
func decodeData(t *testing.T, envelope APIResponse, out any) {
	t.Helper()
	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

type sessionData struct {
	ID         string           `json:"id"`
	State      string           `json:"state"`
	Step       int              `json:"step"`
	Total      int              `json:"total"`
	Question   *intake.Question `json:"question"`
	Feedback   string           `json:"feedback"`
	CanAdvance bool             `json:"can_advance"`
	IsLastStep bool             `json:"is_last_step"`
}

type advanceData struct {
	Session     sessionData     `json:"session"`
	Done        bool            `json:"done"`
	CanAdvance  bool            `json:"can_advance"`
	Profile     *intake.Profile `json:"profile"`
	RemoteSaved bool            `json:"remote_saved"`
}

func createSession(t *testing.T, s *testServer, token string) sessionData {
	t.Helper()
	resp, envelope := s.do(t, http.MethodPost, "/api/intake/sessions", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var session sessionData
	decodeData(t, envelope, &session)
	return session
}

func answerBody(q intake.Question, advance bool) map[string]any {
	var value any
	switch q.Kind {
	case intake.KindInteger:
		n := q.MinValue
		if n < 1 {
			n = 1
		}
		value = n
	case intake.KindSingleChoice:
		value = q.Options[0]
	case intake.KindMultiChoice:
		value = q.Options[:1]
	default:
		value = "Ada Lovelace"
	}
	return map[string]any{"value": value, "advance": advance}
}

// completeIntake walks a session to the terminal advance and returns the
// final response.
func completeIntake(t *testing.T, s *testServer, token, sessionID string) (*http.Response, APIResponse) {
	t.Helper()
	for {
		_, envelope := s.do(t, http.MethodGet, "/api/intake/sessions/"+sessionID, token, nil)
		var session sessionData
		decodeData(t, envelope, &session)
		require.NotNil(t, session.Question)

		resp, _ := s.do(t, http.MethodPost, "/api/intake/sessions/"+sessionID+"/answer", token, answerBody(*session.Question, false))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, envelope = s.do(t, http.MethodPost, "/api/intake/sessions/"+sessionID+"/advance", token, nil)
		var result advanceData
		decodeData(t, envelope, &result)
		if result.Done {
			return resp, envelope
		}
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestHealthIsPublic(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	resp, envelope := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)
}

func TestCatalogIsPublic(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	resp, envelope := s.do(t, http.MethodGet, "/api/intake/catalog", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var catalog CatalogResponse
	decodeData(t, envelope, &catalog)
	assert.Len(t, catalog.Questions, 10)
}

func TestSessionsRequireAuth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	resp, envelope := s.do(t, http.MethodPost, "/api/intake/sessions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, envelope.Success)
}

func TestCreateAndFetchSession(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	session := createSession(t, s, "ada")
	assert.Equal(t, "active", session.State)
	assert.Equal(t, 1, session.Step)
	assert.Equal(t, 8, session.Total)
	require.NotNil(t, session.Question)
	assert.Equal(t, intake.QuestionName, session.Question.ID)

	resp, envelope := s.do(t, http.MethodGet, "/api/intake/sessions/"+session.ID, "ada", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched sessionData
	decodeData(t, envelope, &fetched)
	assert.Equal(t, session.ID, fetched.ID)

	resp, envelope = s.do(t, http.MethodGet, "/api/intake/sessions", "ada", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var list SessionListResponse
	decodeData(t, envelope, &list)
	assert.Equal(t, []string{session.ID}, list.Sessions)
}

func TestSessionsAreOwnerScoped(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	session := createSession(t, s, "ada")

	resp, envelope := s.do(t, http.MethodGet, "/api/intake/sessions/"+session.ID, "mallory", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, envelope.Success)

	resp, _ = s.do(t, http.MethodDelete, "/api/intake/sessions/"+session.ID, "mallory", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAnswerWithAutoAdvance(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	session := createSession(t, s, "ada")

	resp, envelope := s.do(t, http.MethodPost, "/api/intake/sessions/"+session.ID+"/answer", "ada",
		map[string]any{"value": "Ada Lovelace", "advance": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated sessionData
	decodeData(t, envelope, &updated)
	assert.Equal(t, 2, updated.Step)
	assert.Equal(t, intake.QuestionFamilySize, updated.Question.ID)
}

func TestWrongShapedAnswerIsBadRequest(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	session := createSession(t, s, "ada")

	// The first question wants text; a list must bounce as a client error.
	resp, envelope := s.do(t, http.MethodPost, "/api/intake/sessions/"+session.ID+"/answer", "ada",
		map[string]any{"value": []string{"Ada Lovelace"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, envelope.Success)
	assert.Contains(t, envelope.Error, "expects a text answer")
}

func TestAdvanceWithoutAnswerIsUnprocessable(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	session := createSession(t, s, "ada")

	resp, envelope := s.do(t, http.MethodPost, "/api/intake/sessions/"+session.ID+"/advance", "ada", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.False(t, envelope.Success)

	var result advanceData
	decodeData(t, envelope, &result)
	assert.False(t, result.CanAdvance)
	assert.False(t, result.Done)
}

func TestRetreatAtFirstQuestionConflicts(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	session := createSession(t, s, "ada")
	resp, _ := s.do(t, http.MethodPost, "/api/intake/sessions/"+session.ID+"/retreat", "ada", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestFullIntakeSubmits(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	session := createSession(t, s, "ada")

	resp, envelope := completeIntake(t, s, "ada", session.ID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result advanceData
	decodeData(t, envelope, &result)
	assert.True(t, result.Done)
	assert.True(t, result.RemoteSaved)
	require.NotNil(t, result.Profile)
	assert.Equal(t, "Ada Lovelace", result.Profile.Name)
	require.Len(t, s.backend.payloads, 1)
	assert.Equal(t, "dev-ada", s.backend.payloads[0].UserID)
	assert.Equal(t, "ada", s.backend.tokens[0], "the caller's token is forwarded to the collaborator")

	// The profile endpoint now serves the derived profile.
	resp, envelope = s.do(t, http.MethodGet, "/api/intake/profile", "ada", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile intake.Profile
	decodeData(t, envelope, &profile)
	assert.Equal(t, result.Profile.CompletedAt, profile.CompletedAt)

	// Further mutation is rejected.
	resp, _ = s.do(t, http.MethodPost, "/api/intake/sessions/"+session.ID+"/answer", "ada",
		map[string]any{"value": "late"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRemoteFailureReturnsProfileAnyway(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.backend.err = errors.New("collaborator down")
	session := createSession(t, s, "ada")

	resp, envelope := completeIntake(t, s, "ada", session.ID)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.False(t, envelope.Success)

	var result advanceData
	decodeData(t, envelope, &result)
	assert.True(t, result.Done)
	assert.False(t, result.RemoteSaved)
	require.NotNil(t, result.Profile, "the derived profile must be returned on remote failure")

	// Retry once the collaborator recovers.
	s.backend.err = nil
	resp, envelope = s.do(t, http.MethodPost, "/api/intake/sessions/"+session.ID+"/submission/retry", "ada", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, envelope, &result)
	assert.True(t, result.RemoteSaved)
	require.Len(t, s.backend.payloads, 1)
}

func TestDashboardRequiresCompletedIntake(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	resp, _ := s.do(t, http.MethodGet, "/api/dashboard", "ada", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The shared feed is gated the same way.
	resp, _ = s.do(t, http.MethodGet, "/api/dashboard/community", "ada", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardAfterIntake(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	session := createSession(t, s, "ada")
	completeIntake(t, s, "ada", session.ID)

	resp, envelope := s.do(t, http.MethodGet, "/api/dashboard", "ada", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var overview dashboard.Overview
	decodeData(t, envelope, &overview)
	// answerBody picks "Yes" for hasChildren, so the schools page applies.
	require.NotNil(t, overview.Schools)
	assert.NotEmpty(t, overview.Schools.Schools)
	assert.True(t, overview.Housing.NeedsHousing, "Evacuated displacement sets the housing need")
	assert.NotEmpty(t, overview.Resources.SchoolInsights, "children in the household keep the school card")

	for _, page := range []string{"schools", "housing", "employment", "insurance", "resources", "community"} {
		resp, _ = s.do(t, http.MethodGet, "/api/dashboard/"+page, "ada", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, page)
	}

	resp, envelope = s.do(t, http.MethodGet, "/api/dashboard/community", "ada", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var community dashboard.CommunityView
	decodeData(t, envelope, &community)
	assert.NotEmpty(t, community.Posts)
}

func TestFeedbackStream(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	session := createSession(t, s, "ada")

	wsURL := "ws" + strings.TrimPrefix(s.URL, "http") + "/api/intake/sessions/" + session.ID + "/stream"
	header := http.Header{"Authorization": {"Bearer ada"}}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	// The dial returns on handshake; give the handler a beat to subscribe.
	time.Sleep(100 * time.Millisecond)

	_, envelope := s.do(t, http.MethodPost, "/api/intake/sessions/"+session.ID+"/answer", "ada",
		map[string]any{"value": "Ada Lovelace"})
	var updated sessionData
	decodeData(t, envelope, &updated)
	require.NotEmpty(t, updated.Feedback)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame StreamMessage
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "feedback", frame.Type)
	assert.Equal(t, session.ID, frame.SessionID)

	event, ok := frame.Data.(map[string]any)
	require.True(t, ok, "frame data: %v", frame.Data)
	assert.Equal(t, updated.Feedback, event["message"])
}

func TestUnsupportedContentTypeRejected(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	req, err := http.NewRequest(http.MethodPost, s.URL+"/api/intake/sessions", bytes.NewReader(nil))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Authorization", "Bearer ada")

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestFamilySizeValidationAtAPI(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	session := createSession(t, s, "ada")

	// Move to the familySize question.
	resp, _ := s.do(t, http.MethodPost, "/api/intake/sessions/"+session.ID+"/answer", "ada",
		map[string]any{"value": "Ada", "advance": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Zero is below the minimum; recording succeeds but advancing does not.
	resp, _ = s.do(t, http.MethodPost, "/api/intake/sessions/"+session.ID+"/answer", "ada",
		map[string]any{"value": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, envelope := s.do(t, http.MethodPost, "/api/intake/sessions/"+session.ID+"/advance", "ada", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var result advanceData
	decodeData(t, envelope, &result)
	assert.False(t, result.CanAdvance)

	resp, _ = s.do(t, http.MethodPost, "/api/intake/sessions/"+session.ID+"/answer", "ada",
		map[string]any{"value": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = s.do(t, http.MethodPost, "/api/intake/sessions/"+session.ID+"/advance", "ada", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeleteSession(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	session := createSession(t, s, "ada")

	resp, _ := s.do(t, http.MethodDelete, "/api/intake/sessions/"+session.ID, "ada", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = s.do(t, http.MethodGet, "/api/intake/sessions/"+session.ID, "ada", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpointWhenEnabled(t *testing.T) {
	t.Parallel()

	backend := &scriptedBackend{}
	store := intakestore.NewMemoryStore()
	coordinator := app.NewCoordinator(
		store,
		submission.NewService(store, backend),
		dashboard.NewService(nil),
		app.NewFeedbackBroadcaster(0),
	)
	router := NewRouter(coordinator, auth.NewInsecureVerifier(), RouterConfig{
		Environment:    "production",
		MetricsEnabled: true,
	})
	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := server.Client().Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
