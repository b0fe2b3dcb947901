// Package enrichment talks to an OpenAI-compatible chat completions endpoint.
package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// ProbeTimeout bounds the availability check.
const ProbeTimeout = 5 * time.Second

const systemPrompt = "You are a container engineer. Reply with one JSON object that matches response_format. No prose, no markdown."

// Client implements domain.Enricher.
type Client struct {
	endpoint     string
	model        string
	apiKey       string
	http         *http.Client
	breaker      *gobreaker.CircuitBreaker
	probeTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithProbeTimeout overrides ProbeTimeout.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) { c.probeTimeout = d }
}

// New creates a client for cfg. The breaker opens after three consecutive failures and
// stays open for thirty seconds.
func New(cfg domain.EnrichmentConfig, opts ...Option) *Client {
	c := &Client{
		endpoint:     strings.TrimSuffix(cfg.Endpoint, "/"),
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		http:         &http.Client{},
		probeTimeout: ProbeTimeout,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "enrichment",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	for _, o := range opts {
		o(c)
	}
	return c
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Available probes the models listing of the endpoint.
func (c *Client) Available(ctx context.Context) bool {
	if c.breaker.State() == gobreaker.StateOpen {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/models", nil)
	if err != nil {
		return false
	}
	c.authorize(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Generate sends prompt and returns the content of the first choice. Calls made while
// the breaker is open fail immediately with domain.ErrEnrichmentUnavailable.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.complete(ctx, prompt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("enrichment: %w: %v", domain.ErrEnrichmentUnavailable, err)
	}
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.2,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("enrichment: marshaling request: %w", err)
	}

	url := c.endpoint + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("enrichment: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("enrichment: sending request to %s: %w", url, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("enrichment: reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("enrichment: %w (HTTP 429)", domain.ErrRateLimited)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("enrichment: %w (HTTP %d)", domain.ErrAccessDenied, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("enrichment: provider returned HTTP %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return "", fmt.Errorf("enrichment: decoding response: %w", err)
	}
	if chat.Error != nil {
		return "", fmt.Errorf("enrichment: provider error: %s", chat.Error.Message)
	}
	if len(chat.Choices) == 0 {
		return "", errors.New("enrichment: response has no choices")
	}
	return chat.Choices[0].Message.Content, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
