package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rekindle/internal/config"
	apperrors "rekindle/internal/errors"
	"rekindle/internal/intake"
	"rekindle/internal/logging"
)

// Payload is the wire form the collaborator endpoint accepts.
type Payload struct {
	UserID      string         `json:"userId"`
	Email       string         `json:"email"`
	DisplayName string         `json:"displayName"`
	Responses   intake.Answers `json:"responses"`
	Profile     intake.Profile `json:"profile"`
	SubmittedAt string         `json:"submittedAt"`
}

// Backend is the outbound port for handing a completed intake to the
// collaborator service.
type Backend interface {
	Submit(ctx context.Context, token string, payload Payload) error
}

// httpBackend posts payloads to the collaborator's intake endpoint with
// retry and a circuit breaker in front of it.
type httpBackend struct {
	baseURL string
	client  *http.Client
	retry   apperrors.RetryConfig
	breaker *apperrors.CircuitBreaker
	logger  logging.Logger
}

// NewHTTPBackend creates a backend client for the given collaborator base URL.
func NewHTTPBackend(cfg config.BackendConfig) Backend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	retry := apperrors.DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}
	return &httpBackend{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		retry:   retry,
		breaker: apperrors.NewCircuitBreaker("intake-backend", apperrors.DefaultCircuitBreakerConfig()),
		logger:  logging.NewComponentLogger("SubmissionBackend"),
	}
}

func (b *httpBackend) Submit(ctx context.Context, token string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode submission payload: %w", err)
	}

	if err := b.breaker.Allow(); err != nil {
		return err
	}

	err = apperrors.Retry(ctx, b.retry, b.logger, func(ctx context.Context) error {
		return b.post(ctx, token, body)
	})
	b.breaker.Mark(err)
	return err
}

func (b *httpBackend) post(ctx context.Context, token string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/api/intake/submit", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return &apperrors.TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("collaborator rejected submission: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
		return apperrors.ClassifyHTTPStatus(resp.StatusCode, err)
	}
	return nil
}

// disabledBackend accepts everything without sending it anywhere. Used when
// no collaborator URL is configured, so local-only deployments still reach
// the submitted state.
type disabledBackend struct {
	logger logging.Logger
}

func (d disabledBackend) Submit(ctx context.Context, token string, payload Payload) error {
	d.logger.Info("no collaborator configured, keeping submission for %s local", payload.UserID)
	return nil
}

// NewBackend selects an HTTP backend when a base URL is configured and the
// local-only backend otherwise.
func NewBackend(cfg config.BackendConfig) Backend {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return disabledBackend{logger: logging.NewComponentLogger("SubmissionBackend")}
	}
	return NewHTTPBackend(cfg)
}
