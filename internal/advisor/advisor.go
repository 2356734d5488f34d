// Package advisor fetches advisory text for a routine from a generative
// text service. Failures never surface as errors: callers always get text
// to display.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel    = "gemini-2.5-flash-preview-09-2025"
	DefaultTimeout  = 30 * time.Second

	PlaceholderNoKey      = "Advisory text is unavailable: no API key is configured."
	PlaceholderNoResponse = "No suggestions could be generated."
	PlaceholderError      = "Sorry, the advisory service could not be reached."
)

// Advisor turns a prompt into display text.
type Advisor interface {
	Advise(ctx context.Context, prompt string) string
}

type Config struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{cfg: cfg, http: httpClient, logger: logger}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Advise makes one attempt; it is never retried.
func (c *Client) Advise(ctx context.Context, prompt string) string {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return PlaceholderNoKey
	}
	text, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("advisory request failed", "model", c.cfg.Model, "error", err)
		return PlaceholderError
	}
	if strings.TrimSpace(text) == "" {
		return PlaceholderNoResponse
	}
	return text
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("advisor: unexpected status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("advisor: decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

func (c *Client) url() string {
	base := strings.TrimSuffix(c.cfg.Endpoint, "/")
	return fmt.Sprintf("%s/models/%s:generateContent", base, url.PathEscape(c.cfg.Model))
}

// Static always answers with the same text.
type Static string

func (s Static) Advise(context.Context, string) string { return string(s) }
