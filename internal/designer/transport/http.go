package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// HTTPTransport posts submissions as JSON to a remote endpoint
type HTTPTransport struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPTransport creates a transport limited to perSecond submissions (burst 1 per unit).
// perSecond <= 0 disables limiting.
func NewHTTPTransport(url string, perSecond float64) *HTTPTransport {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = int(perSecond) + 1
	}
	return &HTTPTransport{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (t *HTTPTransport) Name() string { return "http" }

type submitResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Submit waits for the limiter, then posts the submission.
func (t *HTTPTransport) Submit(ctx context.Context, sub Submission) (*Ack, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("submit rate limit: %w", err)
	}

	jsonData, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call submission endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("submission endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var out submitResponse
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return &Ack{
		ID:         out.ID,
		Transport:  t.Name(),
		AcceptedAt: time.Now().UTC(),
		Message:    out.Message,
	}, nil
}
