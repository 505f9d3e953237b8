package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rekindle/internal/logging"
)

// Loader produces the dashboard content set. Implementations must be safe
// for concurrent use.
type Loader interface {
	Load(ctx context.Context) (Content, error)
}

// StaticLoader serves the built-in content set.
type StaticLoader struct{}

func (StaticLoader) Load(ctx context.Context) (Content, error) {
	return defaultContent(), nil
}

// httpLoader fetches content from a remote endpoint and falls back to the
// built-in set when the endpoint is unreachable, so the dashboard pages
// never go dark because of a content outage.
type httpLoader struct {
	url    string
	client *http.Client
	logger logging.Logger
}

// NewHTTPLoader creates a loader that fetches content from url.
func NewHTTPLoader(url string, timeout time.Duration) Loader {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpLoader{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logging.NewComponentLogger("DashboardLoader"),
	}
}

func (l *httpLoader) Load(ctx context.Context) (Content, error) {
	content, err := l.fetch(ctx)
	if err != nil {
		l.logger.Warn("remote content unavailable, serving built-in set: %v", err)
		return defaultContent(), nil
	}
	return content, nil
}

func (l *httpLoader) fetch(ctx context.Context) (Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return Content{}, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return Content{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Content{}, fmt.Errorf("content endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	var content Content
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return Content{}, fmt.Errorf("decode content: %w", err)
	}
	return content, nil
}
